package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sinzlab/labctl/internal/importer"
	"github.com/sinzlab/labctl/internal/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import <docker-compose.yml|skaffold.yaml>",
	Short: "Convert an existing deployment config into a labctl project",
	Long: `Import reads a docker-compose or skaffold file and prints the equivalent
labctl project as YAML. The service topology converts directly; the build
section usually needs completing by hand, since neither format carries the
package install list.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(args[0]); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runImport(path string) error {
	var project *schema.Project
	var err error

	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "skaffold"):
		project, err = importer.ImportSkaffold(path)
	case strings.Contains(base, "compose"):
		project, err = importer.ImportCompose(context.Background(), path)
	default:
		return fmt.Errorf("cannot tell what %s is; expected a compose or skaffold file", path)
	}
	if err != nil {
		return err
	}

	output, err := yaml.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to render project: %w", err)
	}

	fmt.Printf("# Imported from %s. Complete the build section before use.\n", path)
	fmt.Print(string(output))
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/export"
	"github.com/spf13/cobra"
)

var renderFormat string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the project in another format",
	Long: `Render emits the project as the generated Dockerfile (default), a
docker-compose file of the topology, or JSON.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRender(); err != nil {
			fmt.Printf("Render failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runRender() error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	if renderFormat == "dockerfile" {
		bindings, err := config.ResolveBindings(".")
		if err != nil {
			return err
		}
		if bindings.User == "" {
			bindings.User = "nobody"
		}
		dockerfile, err := builder.RenderDockerfile(project.Build, bindings)
		if err != nil {
			return err
		}
		fmt.Print(dockerfile)
		return nil
	}

	exporter, ok := export.ForFormat(renderFormat)
	if !ok {
		return fmt.Errorf("unknown format %q (want dockerfile, compose, or json)", renderFormat)
	}

	output, err := exporter(project)
	if err != nil {
		return fmt.Errorf("%s export failed: %w", renderFormat, err)
	}

	fmt.Println(string(output))
	return nil
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "dockerfile", "output format (dockerfile, compose, json)")
	rootCmd.AddCommand(renderCmd)
}

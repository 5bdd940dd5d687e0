package main

import (
	"fmt"
	"os"

	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/spf13/cobra"
)

var externalDockerfile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project and its credential isolation",
	Long: `Validate checks the project schema (image references, ports, mount-target
consistency across variants, service archetypes) and stage-checks the
Dockerfile the build would use: credentials must never be reachable from the
exported stage.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Project is valid.")
	},
}

func runValidate() error {
	// Loading already runs schema validation.
	project, err := loadProject()
	if err != nil {
		return err
	}

	if externalDockerfile != "" {
		content, err := os.ReadFile(externalDockerfile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", externalDockerfile, err)
		}
		if err := builder.CheckStages(string(content)); err != nil {
			return fmt.Errorf("%s: %w", externalDockerfile, err)
		}
		logger.Info("dockerfile passes credential isolation", "path", externalDockerfile)
		return nil
	}

	bindings, err := config.ResolveBindings(".")
	if err != nil {
		return err
	}
	if bindings.User == "" {
		// Rendering needs an account name to resolve fork-based installs;
		// validation does not need the real one.
		bindings.User = "nobody"
	}

	dockerfile, err := builder.RenderDockerfile(project.Build, bindings)
	if err != nil {
		return err
	}
	if err := builder.CheckStages(dockerfile); err != nil {
		return fmt.Errorf("rendered Dockerfile: %w", err)
	}

	logger.Info("validated project", "project", project.Name, "services", len(project.Services))
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&externalDockerfile, "dockerfile", "", "stage-check an external Dockerfile instead of the rendered one")
	rootCmd.AddCommand(validateCmd)
}

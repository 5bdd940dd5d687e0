package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/spf13/cobra"
)

var skipVerify bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the shared environment image",
	Long: `Build renders the two-stage Dockerfile from the project's build spec and
runs it. The credential pair is consumed only by the discarded clone stage;
after a successful build the exported image history is checked for the
literal token.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBuild(); err != nil {
			fmt.Printf("Build failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runBuild() error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	bindings, err := config.ResolveBindings(".")
	if err != nil {
		return err
	}

	r := newRunner()
	driver, err := newDriver(r)
	if err != nil {
		return err
	}

	result, err := builder.New(driver, logger).Build(context.Background(), project.Build, bindings)
	if err != nil {
		return err
	}

	if !skipVerify && !dryRun && driverName != "local" {
		if err := builder.VerifyImage(context.Background(), r, "", result.ImageRef, bindings.Token); err != nil {
			return err
		}
		logger.Info("image history is clean", "image", result.ImageRef)
	}

	finishDryRun(r, bindings)
	fmt.Printf("Built %s (fingerprint %s)\n", result.ImageRef, result.Fingerprint[:12])
	return nil
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "skip the image history credential check")
	rootCmd.AddCommand(buildCmd)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify-image [image]",
	Short: "Check an exported image's history for the credential",
	Long: `Verify-image scans the layer history of the image (default: the project's
image tag) for the literal token. A hit means the credential escaped the
discarded build stage.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runVerify(args); err != nil {
			fmt.Printf("Verification failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runVerify(args []string) error {
	bindings, err := config.ResolveBindings(".")
	if err != nil {
		return err
	}
	if bindings.Token == "" {
		return fmt.Errorf("%s is unset; nothing to scan for", config.EnvGithubToken)
	}

	imageRef := ""
	if len(args) > 0 {
		imageRef = args[0]
	} else {
		project, err := loadProject()
		if err != nil {
			return err
		}
		imageRef = project.Build.ImageTag
	}

	if err := builder.VerifyImage(context.Background(), runner.NewExecRunner(), "", imageRef, bindings.Token); err != nil {
		return err
	}

	fmt.Printf("No credential found in the history of %s.\n", imageRef)
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/topology"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <service>",
	Short: "Run one service from the shared image",
	Long: `Run builds the shared image if needed and starts the named service with
its declared mounts, ports, and command. Interactive services block until
externally stopped; batch services run their fixed script to completion and
labctl exits with the script's exit code.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code, err := runService(args[0])
		if err != nil {
			fmt.Printf("Run failed: %v\n", err)
			if code < 0 {
				code = 1
			}
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

func runService(name string) (int, error) {
	project, err := loadProject()
	if err != nil {
		return 1, err
	}

	svc, ok := project.Service(name)
	if !ok {
		return 1, fmt.Errorf("no service %q in project %s", name, project.Name)
	}

	bindings, err := config.ResolveBindings(".")
	if err != nil {
		return 1, err
	}

	r := newRunner()
	driver, err := newDriver(r)
	if err != nil {
		return 1, err
	}

	ctx := context.Background()
	result, err := builder.New(driver, logger).Build(ctx, project.Build, bindings)
	if err != nil {
		return 1, err
	}

	err = topology.NewLauncher(r, logger).Run(ctx, svc, result)
	finishDryRun(r, bindings)
	if err != nil {
		// A batch script's own failure propagates as our exit code.
		return runner.ExitCode(err), err
	}
	return 0, nil
}

func init() {
	addBuildFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/schema"
	"github.com/sinzlab/labctl/internal/topology"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up [services...]",
	Short: "Start several services against the one shared image",
	Long: `Up builds the shared image once and starts the named services (or every
service in the project) concurrently. Services are independent: there is no
startup ordering and no supervision.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runUp(args); err != nil {
			fmt.Printf("Up failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runUp(names []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	services := project.Services
	if len(names) > 0 {
		services = make([]schema.Service, 0, len(names))
		for _, name := range names {
			svc, ok := project.Service(name)
			if !ok {
				return fmt.Errorf("no service %q in project %s", name, project.Name)
			}
			services = append(services, svc)
		}
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

	ctx := context.Background()
	result, err := builder.New(driver, logger).Build(ctx, project.Build, bindings)
	if err != nil {
		return err
	}

	err = topology.NewLauncher(r, logger).Up(ctx, services, result)
	finishDryRun(r, bindings)
	return err
}

func init() {
	addBuildFlags(upCmd)
	rootCmd.AddCommand(upCmd)
}

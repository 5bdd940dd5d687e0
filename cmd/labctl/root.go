package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sinzlab/labctl/internal/builder"
	"github.com/sinzlab/labctl/internal/config"
	"github.com/sinzlab/labctl/internal/runner"
	"github.com/sinzlab/labctl/internal/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	projectFile string
	logLevel    string
	driverName  string
	handoffDir  string
	dryRun      bool

	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "labctl",
	Short: "Reproducible lab environment builder and service runner",
	Long: `labctl owns the lab's container environment: it renders and runs the
credential-isolated multi-stage image build for the research packages, and
instantiates the notebook and production services that share the built image.

The build is strictly sequential and fail-fast; services are independent
instances of one immutable build result.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.labctl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&projectFile, "project", "f", "", "project file (default labctl.yaml, falling back to the built-in lab project)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".labctl")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if viper.IsSet("log-level") && logLevel == "info" {
		logLevel = viper.GetString("log-level")
	}

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// loadProject reads the project file named by --project, or the built-in
// lab project when none is present.
func loadProject() (*schema.Project, error) {
	return config.LoadProject(projectFile)
}

// newRunner returns the execution backend for this invocation. Dry runs
// record commands instead of executing them.
func newRunner() runner.Runner {
	if dryRun {
		return runner.NewRecorder()
	}
	return runner.NewExecRunner()
}

// newDriver selects the build driver named by --driver.
func newDriver(r runner.Runner) (builder.Driver, error) {
	switch driverName {
	case "", "docker":
		return builder.NewDockerDriver(r, logger), nil
	case "local":
		return builder.NewLocalDriver(r, logger, handoffDir), nil
	default:
		return nil, fmt.Errorf("unknown build driver %q (want docker or local)", driverName)
	}
}

// finishDryRun prints what a dry run would have executed, with the token
// value redacted wherever it appears.
func finishDryRun(r runner.Runner, bindings config.Bindings) {
	recorder, ok := r.(*runner.Recorder)
	if !ok {
		return
	}
	fmt.Println("Dry run. Commands that would execute:")
	for _, line := range recorder.CommandLines() {
		if bindings.Token != "" {
			line = strings.ReplaceAll(line, bindings.Token, "********")
		}
		fmt.Println("  " + line)
	}
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&driverName, "driver", "docker", "build driver (docker or local)")
	cmd.Flags().StringVar(&handoffDir, "handoff", ".labctl/handoff", "handoff directory for the local driver")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print commands instead of executing them")
}

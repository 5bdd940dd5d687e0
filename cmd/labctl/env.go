package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/sinzlab/labctl/internal/config"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the resolved environment bindings",
	Long: `Env prints the build-time environment bindings as this invocation would
resolve them (process environment over .env file), with secret values
redacted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bindings, err := config.ResolveBindings(".")
		if err != nil {
			fmt.Printf("Failed to resolve bindings: %v\n", err)
			os.Exit(1)
		}

		masked := bindings.Masked()
		names := make([]string, 0, len(masked))
		for name := range masked {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			value := masked[name]
			if value == "" {
				value = "(unset)"
			}
			fmt.Printf("%s = %s\n", name, value)
		}

		if !bindings.HasCredentials() {
			fmt.Println("\nPrivate clones will fail: the credential pair is incomplete.")
		}
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
)

var (
	exit     = os.Exit
	envFiles []string
	profile  string
)

// NewRootCmd creates the root 'garmently' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Run and inspect the Garmently backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Additional .env files to load (existing variables win)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Deployment profile (overrides "+constants.EnvProfile+")")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if len(envFiles) > 0 {
			if err := godotenv.Load(envFiles...); err != nil {
				return fmt.Errorf("failed to load env files: %w", err)
			}
		}
		return nil
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// environment snapshots the process environment and applies flag overrides.
func environment() config.Environment {
	environ := config.Environ()
	if profile != "" {
		environ[constants.EnvProfile] = profile
	}
	return environ
}

// run executes cmd and reports a failure on stderr with a non-zero exit.
func run(cmd *cobra.Command, fn func() error) {
	if err := fn(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/garmently/garmently/config"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective deployment configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigCheckCmd(), newConfigProfilesCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd, func() error {
				cfg, err := config.Load(environment())
				if err != nil {
					return err
				}
				return writeConfig(cmd.OutOrStdout(), cfg.Redacted(), format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatYAML, "Output format: yaml or json")
	return cmd
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration against its profile",
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd, func() error {
				cfg, err := config.Load(environment())
				if err != nil {
					return err
				}
				for _, warning := range cfg.Warnings() {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid %s configuration:\n%w", cfg.Profile, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK: profile %s\n", cfg.Profile)
				return nil
			})
		},
	}
}

func newConfigProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available deployment profiles",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.Profiles() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

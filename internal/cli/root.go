package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "wedplan",
		Short: "CLI tool for the wedding planner API",
		Long: `wedplan is a CLI tool for interacting with the wedding planner JSON API.

It covers couple pairing, member sessions, the shared checklist and the
admin console. The session cookie is kept in a file between invocations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewClient(cfg.ServerURL, cfg.CookieFile, cfg.Language)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				c.SetVerbose(cmd.ErrOrStderr())
			}
			client = c
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: WEDPLAN_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.CookieFile, "cookie-file", cfg.CookieFile, "Cookie file path (env: WEDPLAN_COOKIE_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.Language, "lang", cfg.Language, "Preferred message language: ko, en (env: WEDPLAN_LANG)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newChecklistCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// output returns the formatter for cmd's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}

// Execute runs the root command
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		NewOutput(cfg.Output, os.Stderr).PrintError(err)
		os.Exit(1)
	}
}

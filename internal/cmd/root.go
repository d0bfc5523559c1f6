package cmd

import (
	"errors"
	"fmt"

	"github.com/niels/httplite/pkg/config"
	"github.com/niels/httplite/pkg/logging"
	"github.com/niels/httplite/pkg/version"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configPath  string
	debug       bool
	showVersion bool

	cfg *config.Config
}

// NewRootCmd creates the root command for httplite
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves plain-text and JSON responses over raw TCP, dispatching each request
to the handler registered for the longest matching URL prefix.
`, version.AppName, version.Description),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				// LoadOrDefault falls back to defaults when the file is missing or broken
				opts.cfg = config.LoadOrDefault(opts.configPath)
			} else {
				opts.cfg = config.LoadFromEnv()
			}

			logging.InitGlobalLogger(opts.debug, &opts.cfg.Logging)
			if opts.configPath != "" {
				logging.InfoWith("Loaded configuration", map[string]interface{}{
					"path": opts.configPath,
				})
			}
			logging.Debug("Debug logging enabled")

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newGetCmd(opts))

	return rootCmd
}

// reportedError marks an error the command already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user
func IsReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

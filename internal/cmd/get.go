package cmd

import (
	"fmt"

	"github.com/niels/httplite/pkg/client"
	"github.com/niels/httplite/pkg/output"
	"github.com/spf13/cobra"
)

func newGetCmd(opts *globalOptions) *cobra.Command {
	var (
		method  string
		raw     bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "get <addr> [path]",
		Short: "Send a request to a server and print the response",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) > 1 {
				path = args[1]
			}

			formatter := output.NewTerminalFormatter(!noColor)

			resp, err := client.FromConfig(opts.cfg).Do(cmd.Context(), args[0], method, path)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatError(err))
				return &reportedError{err: err}
			}

			if raw {
				fmt.Fprint(cmd.OutOrStdout(), resp.Raw)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatResponse(resp))
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "Request method")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the response exactly as received")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

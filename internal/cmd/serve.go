package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niels/httplite/pkg/config"
	"github.com/niels/httplite/pkg/httplite"
	"github.com/niels/httplite/pkg/logging"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			srv, err := NewServer(cfg)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Listen()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				return fmt.Errorf("server stopped: %w", err)
			case sig := <-sigCh:
				logging.InfoWith("Received signal, shutting down", map[string]interface{}{
					"signal": sig.String(),
				})
			case <-cmd.Context().Done():
				logging.Info("Context cancelled, shutting down")
			}

			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close listener: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, httplite.ErrServerClosed) {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, host:port or :port (overrides config)")

	return cmd
}

// NewServer creates a server for cfg with the built-in routes and every
// static route from the configuration registered.
func NewServer(cfg *config.Config) (*httplite.Server, error) {
	srv := httplite.New(cfg.Server.Addr).WithLogger(logging.WithComponent("server"))
	registerBuiltinRoutes(srv)

	for _, rc := range cfg.Routes {
		h, err := staticHandler(rc)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", rc.Prefix, err)
		}
		srv.AddRoute(rc.Prefix, h)
	}

	logging.InfoWith("Routes registered", map[string]interface{}{
		"routes": srv.Routes(),
	})
	return srv, nil
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reputable-tech/memory-bank/internal/api"
	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/ui"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) newServeCommand() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConfig := c.config.Server
			if cmd.Flags().Changed("host") {
				serverConfig.Host = host
			}
			if cmd.Flags().Changed("port") {
				serverConfig.Port = port
			}
			if err := serverConfig.Validate(); err != nil {
				return errors.ValidationError("Invalid server flags: " + err.Error())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewAPIServer(c.service, serverConfig, c.logger)
			printSuccess(cmd.OutOrStdout(), "Serving Memory Bank API on http://%s/api", serverConfig.Addr())

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to start API server.").
						WithContext("addr", serverConfig.Addr())
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil {
				c.logger.Warn("graceful shutdown failed", zap.Error(err))
				return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to stop API server.")
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func (c *CLI) newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse templates in an interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := ui.NewModel(cmd.Context(), c.service, c.logger)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "Failed to start browser.")
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "Browser exited with an error.")
			}
			return nil
		},
	}
}

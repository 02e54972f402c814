package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/overhang-risk/internal/server"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	ServerConfigPath string
	Address          string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	serveOpts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive calculator and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts, serveOpts, nil)
		},
	}

	cmd.Flags().StringVar(&serveOpts.ServerConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&serveOpts.Address, "address", "", "listen address override, e.g. :8080")

	return cmd
}

// runServe blocks until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then drains in-flight requests. ready, when non-nil, receives the
// bound address once the listener is open.
func runServe(ctx context.Context, opts *RootOptions, serveOpts *ServeOptions, ready chan<- string) error {
	const op = "cli.runServe"

	cfg, err := server.LoadConfig(serveOpts.ServerConfigPath)
	if err != nil {
		return err
	}
	if serveOpts.Address != "" {
		cfg.Address = serveOpts.Address
	}

	logger, err := initializeLogger(cfg.Logging, opts.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	srv := &http.Server{
		Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), opts.Version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting web server",
		zap.String("op", op),
		zap.String("address", listener.Addr().String()),
		zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
	)
	if ready != nil {
		ready <- listener.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down web server",
		zap.String("op", op),
		zap.Duration("timeout", cfg.ShutdownTimeoutDuration()),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

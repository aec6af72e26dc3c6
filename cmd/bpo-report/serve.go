package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/bpo-report/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address override (e.g. :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddress != "" {
		conf.Server.Address = serveAddress
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close application",
				zap.String("op", "main.runServe"),
				zap.Error(err),
			)
		}
	}()

	cfg, err := server.NewConfig(conf.Server)
	if err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	httpServer := server.NewHTTPServer(cfg, server.NewHandler(logger, a, cfg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("op", "main.runServe"),
			zap.String("address", cfg.Address),
			zap.Int64("maxBodySizeBytes", cfg.BodySizeBytes()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server",
			zap.String("op", "main.runServe"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

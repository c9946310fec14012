package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/mapa-innovacio/internal/api"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the datasets and serve the HTTP API",
	Long:  "Loads every dataset once and serves the read API. A failed first load is logged and the API answers 503 until an admin reload succeeds.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeFn, err := newAtlas(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err = svc.Load(ctx); err != nil {
		logger.Errorf(ctx, "first load: %s", err.Error())
	}

	apiService, err := api.NewAPIService(svc)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiService.Serve(viper.GetString(constants.ViperServerAddrKey))
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return apiService.Shutdown(shutdownCtx)
}

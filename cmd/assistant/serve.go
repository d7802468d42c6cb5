package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/app"
	"childcare-assistant/internal/common/camunda"
	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when enabled, the Zeebe job workers",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open resources", map[string]interface{}{"error": err})
		return err
	}
	defer res.Close()

	stages := res.Stages()
	pipeline := res.Pipeline()

	var workers *camunda.Workers
	if cfg.Camunda.Enabled {
		client, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig, nil, log)
		if err != nil {
			log.Error("failed to connect to zeebe", map[string]interface{}{"error": err})
			return err
		}
		workers = camunda.NewWorkers(client, cfg, log)
		res.StartWorkers(workers, stages, pipeline)
		log.Info("workers registered", map[string]interface{}{"taskTypes": workers.Started()})
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.New(pipeline, res, log).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err = <-errCh:
		log.Error("http server failed", map[string]interface{}{"error": err})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error("http shutdown failed", map[string]interface{}{"error": serr})
	}
	if workers != nil {
		if werr := workers.Close(); werr != nil {
			log.Error("error closing zeebe client", map[string]interface{}{"error": werr})
		}
	}
	log.Info("assistant stopped", nil)
	return err
}

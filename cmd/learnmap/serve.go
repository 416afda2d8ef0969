package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammad-safakhou/learnmap/config"
	"github.com/mohammad-safakhou/learnmap/internal/learnmap"
	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"github.com/mohammad-safakhou/learnmap/internal/runtime"
	srv "github.com/mohammad-safakhou/learnmap/internal/server"
	"github.com/mohammad-safakhou/learnmap/provider"
	"github.com/spf13/cobra"
)

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if serveAddr != "" {
				cfg.General.Listen = serveAddr
				cfg.General = cfg.General.Normalize()
			}

			log, err := logger.New(cfg.General.LogMode, cfg.General.Debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tel, err := runtime.SetupTelemetry(ctx, cfg.Telemetry, runtime.TelemetryOptions{ServiceVersion: version, Logger: log})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tel.Shutdown(shutdownCtx); err != nil {
					log.Warn("telemetry shutdown", "error", err)
				}
			}()

			validator, closeStore, err := buildValidator(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			llm, err := provider.NewProvider(cfg.LLM)
			if err != nil {
				return err
			}
			gen := learnmap.NewGenerator(llm, validator,
				learnmap.WithTemperature(cfg.LLM.Temperature),
				learnmap.WithMaxTokens(cfg.LLM.MaxTokens),
				learnmap.WithLogger(log),
			)

			e := srv.New(srv.Options{Generator: gen, Logger: log, Metrics: tel.MetricsHandler()})
			log.Info("starting learnmap", "version", version, "provider", llm.Name(), "model", cfg.LLM.Model)
			return srv.Run(ctx, e, cfg.General.Listen, log)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides general.listen)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	return serve
}

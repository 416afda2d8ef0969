package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mohammad-safakhou/learnmap/config"
	"github.com/mohammad-safakhou/learnmap/internal/learnmap"
	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"github.com/mohammad-safakhou/learnmap/models"
	"github.com/spf13/cobra"
)

func sanitizeCMD() *cobra.Command {
	var cfgPath string
	var topic string
	var level string
	var skipReachability bool
	var sanitize = &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Repair a stored model response and print the learning map",
		Long:  "Runs the resource validation pipeline over a model response read from file, or stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topic == "" {
				return fmt.Errorf("--topic is required")
			}
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if skipReachability {
				cfg.Validation.SkipReachability = true
			}
			log, err := logger.New(cfg.General.LogMode, cfg.General.Debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			validator, closeStore, err := buildValidator(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			gen := learnmap.NewGenerator(nil, validator, learnmap.WithLogger(log))
			m, err := gen.Sanitize(cmd.Context(), raw, topic, models.ParseTargetLevel(level))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}
	sanitize.Flags().StringVar(&topic, "topic", "", "topic the response was generated for")
	sanitize.Flags().StringVar(&level, "level", "beginner", "target level (beginner|intermediate|advanced)")
	sanitize.Flags().BoolVar(&skipReachability, "skip-reachability", false, "treat every link as reachable")
	sanitize.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	return sanitize
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return b, nil
}

// cmd/assistant/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Childcare assistance question answering service",
	Long: `Answers parents' questions about childcare subsidies, rules, prices and
providers from retrieved regulation text and county price statistics.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, askCmd, ingestPricesCmd, indexProvidersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, logger.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	return cfg, log, nil
}

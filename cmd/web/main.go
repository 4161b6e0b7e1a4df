package main

import (
	"fmt"
	"os"

	"github.com/de-tools/material-atlas/pkg/runtime/app"
	"github.com/de-tools/material-atlas/pkg/server"
	"github.com/de-tools/material-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Material Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (defaults and MATERIAL_ATLAS_* variables apply without one)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := app.NewLogger(os.Stdout, cfg.Log.Level)
	ctx := logger.WithContext(cmd.Context())

	a, err := app.New(ctx, cfg, app.Backends())
	if err != nil {
		return fmt.Errorf("failed to initialize reports: %w", err)
	}
	defer a.Close()

	logger.Info().
		Str("backend", cfg.Store.Backend).
		Str("key", cfg.Store.Key).
		Bool("strict_import", cfg.Import.Strict).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr: cfg.Server.Addr(),
		Dependencies: server.Dependencies{
			Reports: a.Service,
			Logger:  logger,
		},
	})

	return api.Start()
}

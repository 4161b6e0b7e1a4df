package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/material-atlas/pkg/runtime/app"
	"github.com/de-tools/material-atlas/pkg/runtime/terminal"
	"github.com/de-tools/material-atlas/pkg/services/config"
	"github.com/de-tools/material-atlas/pkg/services/reports"
)

func main() {
	backends := app.Backends()
	// Logs until the config file is read.
	ctx := app.NewLogger(os.Stderr, os.Getenv("MATERIAL_ATLAS_LOG_LEVEL")).WithContext(context.Background())

	var cfg *config.Config
	cli := terminal.NewCLI(terminal.Options{
		Configure: func(ctx context.Context, configPath string) (context.Context, error) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return nil, err
			}
			cfg = loaded
			return app.NewLogger(os.Stderr, cfg.Log.Level).WithContext(ctx), nil
		},
		Open: func(ctx context.Context, configPath string) (reports.Service, func() error, error) {
			if cfg == nil {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return nil, nil, err
				}
				cfg = loaded
			}
			a, err := app.New(ctx, cfg, backends)
			if err != nil {
				return nil, nil, err
			}
			return a.Service, a.Close, nil
		},
		Output: os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

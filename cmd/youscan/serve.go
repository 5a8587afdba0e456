package main

import (
	"github.com/spf13/cobra"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/api"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := cfg.Logger()

		server := api.New(cfg, log)
		log.WithField("port", cfg.Port).Info("starting api server")
		return server.App().Listen(":" + cfg.Port)
	},
}

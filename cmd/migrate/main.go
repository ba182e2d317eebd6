package main

import (
	"fmt"
	"os"

	"github.com/responsehub/backend/internal/config"
	"github.com/responsehub/backend/internal/db"
	"github.com/responsehub/backend/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			logger.Initialize(logger.Options{Level: logLevel})

			conn, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			logger.Info("Running database migrations...", nil)
			return db.AutoMigrate(conn)
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (DEBUG, INFO, WARN, ERROR)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

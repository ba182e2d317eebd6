package main

import (
	"fmt"
	"os"

	"github.com/responsehub/backend/internal/config"
	"github.com/responsehub/backend/internal/db"
	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/repository"
	"github.com/responsehub/backend/internal/seed"
	"github.com/spf13/cobra"
)

func main() {
	var (
		file    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, volunteers and incidents into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Initialize(logger.Options{Level: cfg.LogLevel})

			if file == "" {
				file = cfg.SeedFile
			}
			data, err := seed.Load(file)
			if err != nil {
				return err
			}

			conn, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			if migrate {
				if err := db.AutoMigrate(conn); err != nil {
					return err
				}
			}

			result, err := seed.Apply(cmd.Context(), repository.NewGormRepository(conn), data)
			if err != nil {
				return err
			}

			logger.Info("Database seeding completed", map[string]interface{}{
				"users_created":     result.UsersCreated,
				"users_skipped":     result.UsersSkipped,
				"incidents_created": result.IncidentsCreated,
			})
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (defaults to SEED_FILE)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run migrations before seeding")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

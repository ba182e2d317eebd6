package db

import (
	"fmt"

	"github.com/responsehub/backend/internal/config"
	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the postgres connection described by cfg.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Error
	if cfg.IsDevelopment() && cfg.LogLevel == "DEBUG" {
		level = gormlogger.Info
	}

	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
		// Maps driver errors such as unique violations onto gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully", map[string]interface{}{
		"host":     cfg.DBHost,
		"database": cfg.DBName,
	})
	return conn, nil
}

// Models lists every table the application owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Incident{},
		&models.Volunteer{},
		&models.Assignment{},
	}
}

// AutoMigrate runs database migrations
func AutoMigrate(conn *gorm.DB) error {
	for _, model := range Models() {
		if err := conn.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration of %T failed: %w", model, err)
		}
		logger.Debug("Table migrated", map[string]interface{}{"model": fmt.Sprintf("%T", model)})
	}

	logger.Info("All database migrations completed successfully", nil)
	return nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

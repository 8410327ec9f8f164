// Package database opens the relational store and migrates its schema.
package database

import (
	"context"
	"fmt"

	"github.com/Harish-hex/SIH-HealthTwin/config"
	"github.com/Harish-hex/SIH-HealthTwin/models"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver and returns the gorm
// handle together with a function that releases every underlying resource.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, func(), error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("get sql db handle: %w", err)
		}
		return db, func() { _ = sqlDB.Close() }, nil

	case "postgres", "":
		poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		if cfg.MaxConns > 0 {
			poolCfg.MaxConns = int32(cfg.MaxConns)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db pool init: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}

		sqlDB := stdlib.OpenDBFromPool(pool)
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("open gorm: %w", err)
		}
		return db, func() {
			_ = sqlDB.Close()
			pool.Close()
		}, nil
	}

	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.WaterQualityReading{},
		&models.Prediction{},
		&models.Worker{},
		&models.Alert{},
		&models.VitalsRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

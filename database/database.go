package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"terracred/config"
	"terracred/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, runs migrations and stores the handle globally
func ConnectDb() {
	cfg := config.AppConfig

	target := cfg.DBPath
	if cfg.DBDriver == "postgres" || cfg.DBDriver == "mysql" {
		target = cfg.DatabaseDSN
	}

	db, err := Open(cfg.DBDriver, target)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	Database = DbInstance{Db: db}
}

// Open connects to sqlite (a file path or ":memory:"), postgres or mysql (a DSN) and migrates the schema
func Open(driver, target string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(target), gormConfig)
	case "mysql":
		db, err = gorm.Open(mysql.Open(target), gormConfig)
	case "sqlite", "":
		if target != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(target), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	if driver == "postgres" || driver == "mysql" {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// single writer; also keeps one shared in-memory database
		sqlDB.SetMaxOpenConns(1)
		if target != ":memory:" {
			if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
				return nil, fmt.Errorf("enable WAL: %w", err)
			}
		}
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the global connection
func Close() {
	if Database.Db == nil {
		return
	}
	if sqlDB, err := Database.Db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// runMigrations creates missing tables and indices, then seeds id sequences from existing rows
func runMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Property{},
		&models.User{},
		&models.Transaction{},
		&models.Sequence{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return seedSequences(db)
}

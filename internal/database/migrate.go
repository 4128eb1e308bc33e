package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB wraps the gorm connection
type DB struct {
	*gorm.DB
}

// NewDBFromGorm wraps an already opened gorm connection
func NewDBFromGorm(db *gorm.DB) *DB {
	return &DB{DB: db}
}

// Open opens the SQLite store at path, creating its directory on first run.
// The pool is sized by the caller; one open connection keeps every statement
// serialized through a single SQLite handle.
func Open(path string, maxOpenConns, maxIdleConns int) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gormDB, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 1
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 1
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: gormDB}, nil
}

// Migrate creates all tables and indexes. Safe to run on every start.
func (db *DB) Migrate() error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range CreateTablesSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		for _, stmt := range DropIndexesSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to drop index: %w", err)
			}
		}

		for _, stmt := range CreateIndexesSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		if err := tx.Exec(
			`INSERT OR REPLACE INTO metadata (key, value, updated_at) VALUES (?, ?, ?)`,
			"schema_version",
			strconv.Itoa(SchemaVersion),
			time.Now(),
		).Error; err != nil {
			return fmt.Errorf("failed to update schema version: %w", err)
		}

		return nil
	})
}

// GetSchemaVersion returns the current schema version
func (db *DB) GetSchemaVersion() (int, error) {
	var value string
	err := db.Raw(`SELECT value FROM metadata WHERE key = ?`, "schema_version").Scan(&value).Error
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// Ping checks that the underlying connection is alive
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

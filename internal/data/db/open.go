package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver     string
	SQLitePath string
}

// Open connects the configured driver, migrates the schema and ensures indexes.
// Any failure here is a store initialization failure.
func Open(opts Options, logg *logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverSQLite:
		var svc *SQLiteService
		svc, err = NewSQLiteService(opts.SQLitePath, logg)
		if svc != nil {
			db = svc.DB()
		}
	case DriverPostgres:
		var svc *PostgresService
		svc, err = NewPostgresService(logg)
		if svc != nil {
			db = svc.DB()
		}
	default:
		return nil, fmt.Errorf("unknown catalog db driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureCatalogIndexes(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newGormLogger() gormLogger.Interface {
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

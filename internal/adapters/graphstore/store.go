// Package graphstore is the Upsert Executor (C4): a relational projection
// of the property graph over gorm, selected by driver at construction
// (§4.4, SPEC_FULL §3).
package graphstore

import (
	"fmt"

	"gorm.io/driver/clickhouse"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/arqlabs/graphcap/internal/core/ports"
)

var _ ports.GraphClient = (*Store)(nil)

// Store implements ports.GraphClient over one of four gorm dialects.
type Store struct {
	db *gorm.DB
}

// Driver selects the backing database.
type Driver string

const (
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
	DriverMySQL      Driver = "mysql"
	DriverClickHouse Driver = "clickhouse"
)

// Open connects to dsn using driver, migrates the schema, and installs
// otel tracing, following the teacher's SQLiteAdapter bootstrap shape
// (gorm.Open + AutoMigrate + tracing.NewPlugin + pragmas).
func Open(driver Driver, dsn string) (*Store, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("graphstore: open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		if err := applySQLitePragmas(db); err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("graphstore: automigrate: %w", err)
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("graphstore: otel plugin: %w", err)
	}

	return &Store{db: db}, nil
}

func dialectorFor(driver Driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite, "":
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverClickHouse:
		return clickhouse.Open(dsn), nil
	default:
		return nil, fmt.Errorf("graphstore: unknown driver %q", driver)
	}
}

// applySQLitePragmas mirrors the teacher's SQLiteAdapter: WAL journaling
// and a busy timeout so the single-writer executor doesn't contend with
// readers inspecting the graph mid-run.
func applySQLitePragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return fmt.Errorf("graphstore: pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// DB is the injected persistence handle. Repositories run every statement
// through Run or Transaction so transient failures are retried.
type DB struct {
	gorm  *gorm.DB
	retry RetryPolicy
	log   logrus.FieldLogger
}

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	if isPostgres(dsn) {
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// every new connection to :memory: is a fresh database
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Open connects with retry, as a cold database may refuse the first dials.
func Open(ctx context.Context, dsn string, policy RetryPolicy, log logrus.FieldLogger) (*DB, error) {
	if isPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
	} else {
		log.WithField("dsn", dsn).Info("using SQLite")
	}

	var g *gorm.DB
	err := policy.Do(ctx, log, func() error {
		var err error
		g, err = Connect(dsn)
		if err != nil {
			return err
		}
		sqlDB, err := g.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if err != nil {
		return nil, err
	}

	if isPostgres(dsn) {
		if sqlDB, err := g.DB(); err == nil {
			sqlDB.SetMaxOpenConns(20)
			sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		}
	}
	return New(g, policy, log), nil
}

func New(g *gorm.DB, policy RetryPolicy, log logrus.FieldLogger) *DB {
	return &DB{gorm: g, retry: policy, log: log}
}

// Run executes fn with a context-bound session, retrying transient errors.
func (d *DB) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.retry.Do(ctx, d.log, func() error {
		return fn(d.gorm.WithContext(ctx))
	})
}

// Transaction runs fn in a transaction; the whole transaction is retried.
func (d *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.retry.Do(ctx, d.log, func() error {
		return d.gorm.WithContext(ctx).Transaction(fn)
	})
}

// Gorm exposes the raw handle for startup work such as the schema guard.
func (d *DB) Gorm() *gorm.DB { return d.gorm }

func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

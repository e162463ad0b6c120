// Package database opens the gorm connection and brings the schema up to date.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"groove/internal/config"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-multierror"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}

// Setup applies pending migrations. It is called once at startup, before the
// server accepts requests, and reports whether anything was applied.
func Setup(ctx context.Context, cfg *config.Config, logger *log.Logger) (applied bool, err error) {
	src, err := Source()
	if err != nil {
		return false, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrationURL())
	if err != nil {
		return false, fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if closeErr := multierror.Append(nil, srcErr, dbErr).ErrorOrNil(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("close migrations: %w", closeErr)).ErrorOrNil()
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	before, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return false, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return false, fmt.Errorf("schema version %d is dirty; fix it by hand before starting", before)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("✅ Schema is up to date", "version", before)
			return false, nil
		}
		return false, fmt.Errorf("apply migrations: %w", err)
	}

	after, _, _ := m.Version()
	logger.Info("✅ Migrations applied", "from", before, "to", after)
	return true, nil
}

// Source exposes the embedded migrations as a golang-migrate source.
func Source() (source.Driver, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	return src, nil
}

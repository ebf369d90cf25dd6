// Package store owns the database lifecycle: opening the handle,
// running embedded migrations and seeding baseline data.
package store

import (
	"context"
	"database/sql"
	"embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/courtside/stringdesk/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

//go:embed fixtures/*.yml
var fixturesFS embed.FS

// Migrations is the discovered embedded migration set.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.Discover(migrationsFS); err != nil {
		panic(err)
	}
}

// Open connects to the database and registers every model so relations
// and fixtures resolve by name.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	db.RegisterModel(
		(*model.User)(nil),
		(*model.Client)(nil),
		(*model.ProductCategory)(nil),
		(*model.Product)(nil),
		(*model.ClientRacket)(nil),
		(*model.MaintenanceRecord)(nil),
	)

	return db, nil
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}

	return nil
}

package store

import (
	"context"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"

	"github.com/courtside/stringdesk/internal/auth"
	"github.com/courtside/stringdesk/internal/config"
	"github.com/courtside/stringdesk/internal/model"
	"github.com/courtside/stringdesk/internal/repository"
)

// SeedCategories loads the standard category taxonomy from the
// embedded fixture. Runs once: a non-empty table means an operator
// already curated the list.
func SeedCategories(ctx context.Context, db *bun.DB) error {
	exists, err := db.NewSelect().Model((*model.ProductCategory)(nil)).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	fixture := dbfixture.New(db)
	return fixture.Load(ctx, fixturesFS, "fixtures/categories.yml")
}

// BootstrapAdmin creates the first admin account from configuration
// when the users table is empty. An empty admin password disables the
// bootstrap entirely. The account id is derived from the email so
// repeated deployments converge on the same identity.
func BootstrapAdmin(ctx context.Context, users *repository.Users, hasher *auth.Hasher, cfg config.Auth) (*model.User, error) {
	if cfg.AdminPassword == "" || cfg.AdminEmail == "" {
		return nil, nil
	}

	hasAny, err := users.HasAny(ctx)
	if err != nil {
		return nil, err
	}
	if hasAny {
		return nil, nil
	}

	hash, err := hasher.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	admin := &model.User{
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		FirstName:    "Shop",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if admin.Username == "" {
		admin.Username = "admin"
	}

	if id, err := hashid.NewUUID(cfg.AdminEmail); err == nil {
		admin.ID = id
	}

	return users.Create(ctx, admin)
}

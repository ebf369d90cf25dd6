package repository

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// Users persists staff accounts. Lookups by username and email back
// the credential flow; both columns carry unique indexes.
type Users struct {
	repository.Repository[*model.User]
	db *bun.DB
}

func NewUsersRepository(db *bun.DB) *Users {
	repo := repository.NewRepository[*model.User](db, repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User { return &model.User{} },
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *model.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string { return "username" },
	})

	return &Users{Repository: repo, db: db}
}

// GetByID shadows the generic string-keyed lookup with a typed one.
func (u *Users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return u.getByColumnTx(ctx, u.db, "id", id.String())
}

func (u *Users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.GetByUsernameTx(ctx, u.db, username)
}

func (u *Users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*model.User, error) {
	return u.getByColumnTx(ctx, tx, "username", username)
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.GetByEmailTx(ctx, u.db, email)
}

func (u *Users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*model.User, error) {
	return u.getByColumnTx(ctx, tx, "email", email)
}

// CreateTx shadows the generic create with the exact shape the auth
// service consumes.
func (u *Users) CreateTx(ctx context.Context, tx bun.IDB, record *model.User) (*model.User, error) {
	return u.Repository.CreateTx(ctx, tx, record)
}

// UpdateByID persists record under the given primary key.
func (u *Users) UpdateByID(ctx context.Context, id uuid.UUID, record *model.User) (*model.User, error) {
	return u.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

// HasAny reports whether at least one account exists. Used to decide
// whether the bootstrap admin should be seeded.
func (u *Users) HasAny(ctx context.Context) (bool, error) {
	return u.db.NewSelect().Model((*model.User)(nil)).Exists(ctx)
}

func (u *Users) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*model.User, error) {
	record := &model.User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{column: value})
		}
		return nil, err
	}

	return record, nil
}

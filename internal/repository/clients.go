package repository

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// ClientFilter narrows client listings. Zero values mean "no filter";
// Limit and Offset always apply.
type ClientFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}

// Clients persists shop customers.
type Clients struct {
	repository.Repository[*model.Client]
	db *bun.DB
}

func NewClientsRepository(db *bun.DB) *Clients {
	repo := repository.NewRepository[*model.Client](db, repository.ModelHandlers[*model.Client]{
		NewRecord: func() *model.Client { return &model.Client{} },
		GetID: func(c *model.Client) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *model.Client, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string { return "email" },
	})

	return &Clients{Repository: repo, db: db}
}

func (c *Clients) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return c.GetByIDTx(ctx, c.db, id)
}

func (c *Clients) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*model.Client, error) {
	record := &model.Client{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// GetWithRackets loads a client together with their active rackets.
func (c *Clients) GetWithRackets(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	record := &model.Client{}

	err := c.db.NewSelect().
		Model(record).
		Relation("Rackets", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("rkt.is_active = ?", true).Order("rkt.brand ASC", "rkt.model ASC")
		}).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// List returns one page of clients plus the unpaged total.
func (c *Clients) List(ctx context.Context, filter ClientFilter) ([]*model.Client, int, error) {
	records := []*model.Client{}

	q := c.db.NewSelect().Model(&records)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("lower(?TableAlias.first_name) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.last_name) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.email) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.phone_number) LIKE ?", pattern)
		})
	}

	if filter.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filter.IsActive)
	}

	total, err := q.
		Order("last_name ASC", "first_name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (c *Clients) CreateTx(ctx context.Context, tx bun.IDB, record *model.Client) (*model.Client, error) {
	return c.Repository.CreateTx(ctx, tx, record)
}

func (c *Clients) UpdateByID(ctx context.Context, id uuid.UUID, record *model.Client) (*model.Client, error) {
	return c.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

// ExistsByEmail reports whether any client already owns the email.
func (c *Clients) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return c.db.NewSelect().
		Model((*model.Client)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

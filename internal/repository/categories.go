package repository

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	IsActive *bool
	Limit    int
	Offset   int
}

// Categories persists the product taxonomy.
type Categories struct {
	repository.Repository[*model.ProductCategory]
	db *bun.DB
}

func NewCategoriesRepository(db *bun.DB) *Categories {
	repo := repository.NewRepository[*model.ProductCategory](db, repository.ModelHandlers[*model.ProductCategory]{
		NewRecord: func() *model.ProductCategory { return &model.ProductCategory{} },
		GetID: func(c *model.ProductCategory) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *model.ProductCategory, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string { return "slug" },
	})

	return &Categories{Repository: repo, db: db}
}

func (c *Categories) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error) {
	return c.getByColumn(ctx, "id", id.String())
}

func (c *Categories) GetBySlug(ctx context.Context, slug string) (*model.ProductCategory, error) {
	return c.getByColumn(ctx, "slug", slug)
}

func (c *Categories) GetByName(ctx context.Context, name string) (*model.ProductCategory, error) {
	return c.getByColumn(ctx, "name", name)
}

// List returns one page ordered by sort_order then name.
func (c *Categories) List(ctx context.Context, filter CategoryFilter) ([]*model.ProductCategory, int, error) {
	records := []*model.ProductCategory{}

	q := c.db.NewSelect().Model(&records)

	if filter.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filter.IsActive)
	}

	total, err := q.
		Order("sort_order ASC", "name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (c *Categories) UpdateByID(ctx context.Context, id uuid.UUID, record *model.ProductCategory) (*model.ProductCategory, error) {
	return c.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

func (c *Categories) getByColumn(ctx context.Context, column, value string) (*model.ProductCategory, error) {
	record := &model.ProductCategory{}

	err := c.db.NewSelect().
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

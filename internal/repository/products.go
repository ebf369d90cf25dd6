package repository

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// ProductFilter narrows product listings. LowStockThreshold only
// applies when LowStock is set.
type ProductFilter struct {
	Search            string
	CategoryID        *uuid.UUID
	IsActive          *bool
	LowStock          bool
	LowStockThreshold int
	Limit             int
	Offset            int
}

// Products persists sellable inventory: rackets, strings, grips and
// the rest of the catalog.
type Products struct {
	repository.Repository[*model.Product]
	db *bun.DB
}

func NewProductsRepository(db *bun.DB) *Products {
	repo := repository.NewRepository[*model.Product](db, repository.ModelHandlers[*model.Product]{
		NewRecord: func() *model.Product { return &model.Product{} },
		GetID: func(p *model.Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *model.Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string { return "sku" },
	})

	return &Products{Repository: repo, db: db}
}

// GetByID loads a product together with its category.
func (p *Products) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	record := &model.Product{}

	err := p.db.NewSelect().
		Model(record).
		Relation("Category").
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

// Exists reports whether the product id is present, active or not.
func (p *Products) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return p.db.NewSelect().
		Model((*model.Product)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exists(ctx)
}

// List returns one page ordered by brand then name.
func (p *Products) List(ctx context.Context, filter ProductFilter) ([]*model.Product, int, error) {
	records := []*model.Product{}

	q := p.db.NewSelect().Model(&records).Relation("Category")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("lower(?TableAlias.name) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.brand) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.model) LIKE ?", pattern)
		})
	}

	if filter.CategoryID != nil {
		q = q.Where("?TableAlias.category_id = ?", filter.CategoryID.String())
	}

	if filter.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filter.IsActive)
	}

	if filter.LowStock {
		q = q.Where("?TableAlias.quantity_in_stock <= ?", filter.LowStockThreshold)
	}

	total, err := q.
		OrderExpr("?TableAlias.brand ASC, ?TableAlias.name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (p *Products) UpdateByID(ctx context.Context, id uuid.UUID, record *model.Product) (*model.Product, error) {
	return p.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

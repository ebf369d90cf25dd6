package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProductCategory organizes products (racquets, strings, grips, ...).
type ProductCategory struct {
	bun.BaseModel `bun:"table:product_categories,alias:cat"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull,unique" json:"name"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Description string    `bun:"description" json:"description,omitempty"`
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	SortOrder   int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Products []*Product `bun:"rel:has-many,join:id=category_id" json:"products,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*ProductCategory)(nil)

func (c *ProductCategory) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		now := time.Now()
		c.CreatedAt = now
		c.UpdatedAt = now
	case *bun.UpdateQuery:
		c.UpdatedAt = time.Now()
	}
	return nil
}

package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Product is an inventory item: racquets, strings, grips, dampeners...
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	CategoryID  uuid.UUID `bun:"category_id,notnull,type:uuid" json:"category_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Brand       string    `bun:"brand,notnull" json:"brand"`
	Model       string    `bun:"model" json:"model,omitempty"`
	SKU         string    `bun:"sku,nullzero,unique" json:"sku,omitempty"`
	Description string    `bun:"description" json:"description,omitempty"`
	// Retail price and cost price; cost is kept for profit tracking.
	Price     *float64 `bun:"price" json:"price,omitempty"`
	CostPrice *float64 `bun:"cost_price" json:"cost_price,omitempty"`
	Quantity  int      `bun:"quantity_in_stock,notnull,default:0" json:"quantity_in_stock"`
	ImageURL  string   `bun:"image_url" json:"image_url,omitempty"`
	// Free-form product attributes, e.g. {"gauge": "1.25mm", "material": "polyester"}.
	Specifications map[string]any `bun:"specifications" json:"specifications,omitempty"`
	IsActive       bool           `bun:"is_active,notnull" json:"is_active"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Category *ProductCategory `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Product)(nil)

func (p *Product) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		now := time.Now()
		p.CreatedAt = now
		p.UpdatedAt = now
	case *bun.UpdateQuery:
		p.UpdatedAt = time.Now()
	}
	return nil
}

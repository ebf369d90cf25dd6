package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ClientRacket is a racket owned by a client. product_id links the
// racket to the catalog when it was bought in the shop.
type ClientRacket struct {
	bun.BaseModel `bun:"table:client_rackets,alias:rkt"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	ClientID       uuid.UUID  `bun:"client_id,notnull,type:uuid" json:"client_id"`
	ProductID      *uuid.UUID `bun:"product_id,nullzero,type:uuid" json:"product_id,omitempty"`
	CustomName     string     `bun:"custom_name" json:"custom_name,omitempty"`
	Brand          string     `bun:"brand,notnull" json:"brand"`
	Model          string     `bun:"model,notnull" json:"model"`
	SerialNumber   string     `bun:"serial_number" json:"serial_number,omitempty"`
	PurchaseDate   *time.Time `bun:"purchase_date,nullzero" json:"purchase_date,omitempty"`
	WeightUnstrung *float64   `bun:"weight_unstrung" json:"weight_unstrung,omitempty"`
	GripSize       string     `bun:"grip_size,notnull" json:"grip_size"`
	Notes          string     `bun:"notes" json:"notes,omitempty"`
	// false once the client no longer owns the racket
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Client             *Client              `bun:"rel:belongs-to,join:client_id=id" json:"client,omitempty"`
	MaintenanceRecords []*MaintenanceRecord `bun:"rel:has-many,join:id=client_racket_id" json:"maintenance_records,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*ClientRacket)(nil)

func (r *ClientRacket) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		now := time.Now()
		r.CreatedAt = now
		r.UpdatedAt = now
	case *bun.UpdateQuery:
		r.UpdatedAt = time.Now()
	}
	return nil
}

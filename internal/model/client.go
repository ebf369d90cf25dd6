package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Client is a customer of the shop.
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:cli"`

	ID           uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	FirstName    string     `bun:"first_name,notnull" json:"first_name"`
	LastName     string     `bun:"last_name,notnull" json:"last_name"`
	Email        string     `bun:"email,nullzero,unique" json:"email,omitempty"`
	Phone        string     `bun:"phone_number,notnull" json:"phone_number"`
	DateOfBirth  *time.Time `bun:"date_of_birth,nullzero" json:"date_of_birth,omitempty"`
	AddressLine1 string     `bun:"address_line1" json:"address_line1,omitempty"`
	AddressLine2 string     `bun:"address_line2" json:"address_line2,omitempty"`
	City         string     `bun:"city" json:"city,omitempty"`
	PostalCode   string     `bun:"postal_code" json:"postal_code,omitempty"`
	Country      string     `bun:"country" json:"country,omitempty"`
	Notes        string     `bun:"notes" json:"notes,omitempty"`
	IsActive     bool       `bun:"is_active,notnull" json:"is_active"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Rackets []*ClientRacket `bun:"rel:has-many,join:id=client_id" json:"rackets,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Client)(nil)

func (c *Client) BeforeAppendModel(ctx context.Context, query bun.Query) error {
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

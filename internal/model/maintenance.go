package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ServiceType is the kind of work performed on a racket.
type ServiceType = string

const (
	ServiceStringing ServiceType = "stringing"
	ServiceRepair    ServiceType = "repair"
	ServiceOther     ServiceType = "other"
)

// IsValidServiceType reports whether s names a known service type.
func IsValidServiceType(s string) bool {
	switch ServiceType(s) {
	case ServiceStringing, ServiceRepair, ServiceOther:
		return true
	default:
		return false
	}
}

// MaintenanceRecord captures one stringing or service job on a racket,
// including the string/grip configuration used.
type MaintenanceRecord struct {
	bun.BaseModel `bun:"table:maintenance_records,alias:mnt"`

	ID                uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id"`
	ClientRacketID    uuid.UUID   `bun:"client_racket_id,notnull,type:uuid" json:"client_racket_id"`
	PerformedByUserID uuid.UUID   `bun:"performed_by_user_id,notnull,type:uuid" json:"performed_by_user_id"`
	ServiceDate       time.Time   `bun:"service_date,nullzero,notnull,default:current_timestamp" json:"service_date"`
	ServiceType       ServiceType `bun:"service_type,notnull" json:"service_type"`

	// String configuration; crosses may differ from mains.
	MainStringID   *uuid.UUID `bun:"main_string_id,nullzero,type:uuid" json:"main_string_id,omitempty"`
	CrossStringID  *uuid.UUID `bun:"cross_string_id,nullzero,type:uuid" json:"cross_string_id,omitempty"`
	MainTensionKg  *float64   `bun:"main_tension_kg" json:"main_tension_kg,omitempty"`
	CrossTensionKg *float64   `bun:"cross_tension_kg" json:"cross_tension_kg,omitempty"`
	StringPattern  string     `bun:"string_pattern" json:"string_pattern,omitempty"`

	// Grip configuration.
	BaseGripID        *uuid.UUID `bun:"base_grip_id,nullzero,type:uuid" json:"base_grip_id,omitempty"`
	OvergripID        *uuid.UUID `bun:"overgrip_id,nullzero,type:uuid" json:"overgrip_id,omitempty"`
	NumberOfOvergrips int        `bun:"number_of_overgrips,notnull,default:1" json:"number_of_overgrips"`

	DampenerID       *uuid.UUID `bun:"dampener_id,nullzero,type:uuid" json:"dampener_id,omitempty"`
	DampenerPosition string     `bun:"dampener_position" json:"dampener_position,omitempty"`

	ServiceCost        float64    `bun:"service_cost,notnull" json:"service_cost"`
	DurationMinutes    *int       `bun:"duration_minutes" json:"duration_minutes,omitempty"`
	Notes              string     `bun:"notes" json:"notes,omitempty"`
	IsWarrantyService  bool       `bun:"is_warranty_service,notnull" json:"is_warranty_service"`
	NextServiceDueDate *time.Time `bun:"next_service_due_date,nullzero" json:"next_service_due_date,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Racket      *ClientRacket `bun:"rel:belongs-to,join:client_racket_id=id" json:"racket,omitempty"`
	PerformedBy *User         `bun:"rel:belongs-to,join:performed_by_user_id=id" json:"performed_by,omitempty"`
}

// ProductRefs collects the referenced product IDs so callers can verify
// them in one pass before persisting.
func (m *MaintenanceRecord) ProductRefs() []uuid.UUID {
	refs := []*uuid.UUID{m.MainStringID, m.CrossStringID, m.BaseGripID, m.OvergripID, m.DampenerID}
	out := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		if ref != nil {
			out = append(out, *ref)
		}
	}
	return out
}

var _ bun.BeforeAppendModelHook = (*MaintenanceRecord)(nil)

func (m *MaintenanceRecord) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.ServiceType == "" {
			m.ServiceType = ServiceStringing
		}
		if m.ServiceDate.IsZero() {
			m.ServiceDate = time.Now()
		}
		now := time.Now()
		m.CreatedAt = now
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = time.Now()
	}
	return nil
}

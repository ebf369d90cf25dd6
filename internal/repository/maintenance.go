package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// MaintenanceFilter narrows service-history listings.
type MaintenanceFilter struct {
	RacketID    *uuid.UUID
	ServiceType string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Maintenance persists stringing and repair jobs. Unlike the other
// entities these records support hard deletion, admin-gated upstream.
type Maintenance struct {
	repository.Repository[*model.MaintenanceRecord]
	db *bun.DB
}

func NewMaintenanceRepository(db *bun.DB) *Maintenance {
	repo := repository.NewRepository[*model.MaintenanceRecord](db, repository.ModelHandlers[*model.MaintenanceRecord]{
		NewRecord: func() *model.MaintenanceRecord { return &model.MaintenanceRecord{} },
		GetID: func(m *model.MaintenanceRecord) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *model.MaintenanceRecord, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &Maintenance{Repository: repo, db: db}
}

// GetByID loads a record with its racket and the staff member that
// performed the service.
func (m *Maintenance) GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	record := &model.MaintenanceRecord{}

	err := m.db.NewSelect().
		Model(record).
		Relation("Racket").
		Relation("PerformedBy").
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

// List returns one page of service history, newest first.
func (m *Maintenance) List(ctx context.Context, filter MaintenanceFilter) ([]*model.MaintenanceRecord, int, error) {
	records := []*model.MaintenanceRecord{}

	q := m.db.NewSelect().Model(&records)

	if filter.RacketID != nil {
		q = q.Where("?TableAlias.client_racket_id = ?", filter.RacketID.String())
	}

	if filter.ServiceType != "" {
		q = q.Where("?TableAlias.service_type = ?", filter.ServiceType)
	}

	if filter.From != nil {
		q = q.Where("?TableAlias.service_date >= ?", *filter.From)
	}

	if filter.To != nil {
		q = q.Where("?TableAlias.service_date <= ?", *filter.To)
	}

	total, err := q.
		Order("service_date DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByRacket returns the full service history of one racket, newest
// first, with no paging. Backs the racket history endpoint.
func (m *Maintenance) ListByRacket(ctx context.Context, racketID uuid.UUID) ([]*model.MaintenanceRecord, error) {
	records := []*model.MaintenanceRecord{}

	err := m.db.NewSelect().
		Model(&records).
		Where("?TableAlias.client_racket_id = ?", racketID.String()).
		Order("service_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (m *Maintenance) UpdateByID(ctx context.Context, id uuid.UUID, record *model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	return m.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

// HardDelete removes a record permanently. Reports not-found when the
// id never existed.
func (m *Maintenance) HardDelete(ctx context.Context, id uuid.UUID) error {
	res, err := m.db.NewDelete().
		Model((*model.MaintenanceRecord)(nil)).
		Where("id = ?", id.String()).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

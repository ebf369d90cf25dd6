package repository

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// RacketFilter narrows racket listings.
type RacketFilter struct {
	ClientID *uuid.UUID
	Brand    string
	IsActive *bool
	Limit    int
	Offset   int
}

// Rackets persists the frames clients bring in for service.
type Rackets struct {
	repository.Repository[*model.ClientRacket]
	db *bun.DB
}

func NewRacketsRepository(db *bun.DB) *Rackets {
	repo := repository.NewRepository[*model.ClientRacket](db, repository.ModelHandlers[*model.ClientRacket]{
		NewRecord: func() *model.ClientRacket { return &model.ClientRacket{} },
		GetID: func(r *model.ClientRacket) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.ClientRacket, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string { return "serial_number" },
	})

	return &Rackets{Repository: repo, db: db}
}

// GetByID loads a racket together with its owner.
func (r *Rackets) GetByID(ctx context.Context, id uuid.UUID) (*model.ClientRacket, error) {
	record := &model.ClientRacket{}

	err := r.db.NewSelect().
		Model(record).
		Relation("Client").
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

// Exists reports whether the racket id is present, active or not.
func (r *Rackets) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.db.NewSelect().
		Model((*model.ClientRacket)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exists(ctx)
}

// List returns one page ordered by brand then model.
func (r *Rackets) List(ctx context.Context, filter RacketFilter) ([]*model.ClientRacket, int, error) {
	records := []*model.ClientRacket{}

	q := r.db.NewSelect().Model(&records).Relation("Client")

	if filter.ClientID != nil {
		q = q.Where("?TableAlias.client_id = ?", filter.ClientID.String())
	}

	if filter.Brand != "" {
		q = q.Where("lower(?TableAlias.brand) = ?", strings.ToLower(filter.Brand))
	}

	if filter.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filter.IsActive)
	}

	total, err := q.
		Order("brand ASC", "model ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *Rackets) CreateTx(ctx context.Context, tx bun.IDB, record *model.ClientRacket) (*model.ClientRacket, error) {
	return r.Repository.CreateTx(ctx, tx, record)
}

func (r *Rackets) UpdateByID(ctx context.Context, id uuid.UUID, record *model.ClientRacket) (*model.ClientRacket, error) {
	return r.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

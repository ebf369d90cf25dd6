package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/courtside/stringdesk/internal/model"
	repo "github.com/courtside/stringdesk/internal/repository"
)

// racketPayload is shared between the standalone racket endpoint and
// the combined client+rackets creation.
type racketPayload struct {
	ProductID      *uuid.UUID `json:"product_id"`
	CustomName     string     `json:"custom_name"`
	Brand          string     `json:"brand"`
	Model          string     `json:"model"`
	SerialNumber   string     `json:"serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	WeightUnstrung *float64   `json:"weight_unstrung"`
	GripSize       string     `json:"grip_size"`
	Notes          string     `json:"notes"`
}

func (r racketPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Brand, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Model, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.GripSize, validation.Required, validation.Length(1, 20)),
	)
}

func (r racketPayload) toModel() *model.ClientRacket {
	return &model.ClientRacket{
		ProductID:      r.ProductID,
		CustomName:     r.CustomName,
		Brand:          r.Brand,
		Model:          r.Model,
		SerialNumber:   r.SerialNumber,
		PurchaseDate:   r.PurchaseDate,
		WeightUnstrung: r.WeightUnstrung,
		GripSize:       r.GripSize,
		Notes:          r.Notes,
		IsActive:       true,
	}
}

type racketRequest struct {
	ClientID uuid.UUID `json:"client_id"`
	racketPayload
}

func (r racketRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required, validation.By(requireUUID)),
	); err != nil {
		return err
	}

	return r.racketPayload.Validate()
}

type racketUpdateRequest struct {
	ProductID      *uuid.UUID `json:"product_id"`
	CustomName     *string    `json:"custom_name"`
	Brand          *string    `json:"brand"`
	Model          *string    `json:"model"`
	SerialNumber   *string    `json:"serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	WeightUnstrung *float64   `json:"weight_unstrung"`
	GripSize       *string    `json:"grip_size"`
	Notes          *string    `json:"notes"`
	IsActive       *bool      `json:"is_active"`
}

func (r racketUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Brand, validation.Length(1, 100)),
		validation.Field(&r.Model, validation.Length(1, 100)),
		validation.Field(&r.GripSize, validation.Length(1, 20)),
	)
}

func (s *Server) listRackets(c *fiber.Ctx) error {
	params := s.pageParams(c)

	clientID, err := queryUUIDPtr(c, "client_id")
	if err != nil {
		return err
	}

	isActive, err := queryBoolPtr(c, "is_active")
	if err != nil {
		return err
	}

	items, total, err := s.repo.Rackets().List(c.UserContext(), repo.RacketFilter{
		ClientID: clientID,
		Brand:    c.Query("brand"),
		IsActive: isActive,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return err
	}

	return c.JSON(newPage(items, total, params))
}

func (s *Server) getRacket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	racket, err := s.repo.Rackets().GetByID(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("racket")
		}
		return err
	}

	return c.JSON(racket)
}

func (s *Server) createRacket(c *fiber.Ctx) error {
	payload := new(racketRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	if _, err := s.repo.Clients().GetByID(ctx, payload.ClientID); err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("client")
		}
		return err
	}

	if payload.ProductID != nil {
		exists, err := s.repo.Products().Exists(ctx, *payload.ProductID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("product")
		}
	}

	record := payload.toModel()
	record.ClientID = payload.ClientID

	created, err := s.repo.Rackets().Create(ctx, record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create racket")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) updateRacket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := new(racketUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	record, err := s.repo.Rackets().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("racket")
		}
		return err
	}

	if payload.ProductID != nil {
		exists, err := s.repo.Products().Exists(ctx, *payload.ProductID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("product")
		}
		record.ProductID = payload.ProductID
	}
	if payload.CustomName != nil {
		record.CustomName = *payload.CustomName
	}
	if payload.Brand != nil {
		record.Brand = *payload.Brand
	}
	if payload.Model != nil {
		record.Model = *payload.Model
	}
	if payload.SerialNumber != nil {
		record.SerialNumber = *payload.SerialNumber
	}
	if payload.PurchaseDate != nil {
		record.PurchaseDate = payload.PurchaseDate
	}
	if payload.WeightUnstrung != nil {
		record.WeightUnstrung = payload.WeightUnstrung
	}
	if payload.GripSize != nil {
		record.GripSize = *payload.GripSize
	}
	if payload.Notes != nil {
		record.Notes = *payload.Notes
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}

	record.Client = nil

	updated, err := s.repo.Rackets().UpdateByID(ctx, id, record)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *Server) deleteRacket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	record, err := s.repo.Rackets().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("racket")
		}
		return err
	}

	record.IsActive = false
	record.Client = nil
	if _, err := s.repo.Rackets().UpdateByID(ctx, id, record); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// racketHistory returns the racket's full service history, newest
// first.
func (s *Server) racketHistory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	racket, err := s.repo.Rackets().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("racket")
		}
		return err
	}

	records, err := s.repo.Maintenance().ListByRacket(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"racket":  racket,
		"history": records,
	})
}

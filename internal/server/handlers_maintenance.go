package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/courtside/stringdesk/internal/auth"
	"github.com/courtside/stringdesk/internal/model"
	repo "github.com/courtside/stringdesk/internal/repository"
)

type maintenanceRequest struct {
	ClientRacketID uuid.UUID  `json:"client_racket_id"`
	ServiceDate    *time.Time `json:"service_date"`
	ServiceType    string     `json:"service_type"`

	MainStringID   *uuid.UUID `json:"main_string_id"`
	CrossStringID  *uuid.UUID `json:"cross_string_id"`
	MainTensionKg  *float64   `json:"main_tension_kg"`
	CrossTensionKg *float64   `json:"cross_tension_kg"`
	StringPattern  string     `json:"string_pattern"`

	BaseGripID        *uuid.UUID `json:"base_grip_id"`
	OvergripID        *uuid.UUID `json:"overgrip_id"`
	NumberOfOvergrips int        `json:"number_of_overgrips"`

	DampenerID       *uuid.UUID `json:"dampener_id"`
	DampenerPosition string     `json:"dampener_position"`

	ServiceCost        float64    `json:"service_cost"`
	DurationMinutes    *int       `json:"duration_minutes"`
	Notes              string     `json:"notes"`
	IsWarrantyService  bool       `json:"is_warranty_service"`
	NextServiceDueDate *time.Time `json:"next_service_due_date"`
}

func (r maintenanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientRacketID, validation.Required, validation.By(requireUUID)),
		validation.Field(&r.ServiceType, validation.In(
			model.ServiceStringing, model.ServiceRepair, model.ServiceOther,
		)),
		validation.Field(&r.ServiceCost, validation.Min(0.0)),
		validation.Field(&r.NumberOfOvergrips, validation.Min(0)),
	)
}

type maintenanceUpdateRequest struct {
	ServiceDate *time.Time `json:"service_date"`
	ServiceType *string    `json:"service_type"`

	MainStringID   *uuid.UUID `json:"main_string_id"`
	CrossStringID  *uuid.UUID `json:"cross_string_id"`
	MainTensionKg  *float64   `json:"main_tension_kg"`
	CrossTensionKg *float64   `json:"cross_tension_kg"`
	StringPattern  *string    `json:"string_pattern"`

	BaseGripID        *uuid.UUID `json:"base_grip_id"`
	OvergripID        *uuid.UUID `json:"overgrip_id"`
	NumberOfOvergrips *int       `json:"number_of_overgrips"`

	DampenerID       *uuid.UUID `json:"dampener_id"`
	DampenerPosition *string    `json:"dampener_position"`

	ServiceCost        *float64   `json:"service_cost"`
	DurationMinutes    *int       `json:"duration_minutes"`
	Notes              *string    `json:"notes"`
	IsWarrantyService  *bool      `json:"is_warranty_service"`
	NextServiceDueDate *time.Time `json:"next_service_due_date"`
}

func (r maintenanceUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceType, validation.In(
			model.ServiceStringing, model.ServiceRepair, model.ServiceOther,
		)),
		validation.Field(&r.ServiceCost, validation.Min(0.0)),
		validation.Field(&r.NumberOfOvergrips, validation.Min(0)),
	)
}

func (s *Server) listMaintenance(c *fiber.Ctx) error {
	params := s.pageParams(c)

	racketID, err := queryUUIDPtr(c, "racket_id")
	if err != nil {
		return err
	}

	filter := repo.MaintenanceFilter{
		RacketID:    racketID,
		ServiceType: c.Query("service_type"),
		Limit:       params.Limit,
		Offset:      params.Offset(),
	}

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return malformedQueryTime("from", from)
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return malformedQueryTime("to", to)
		}
		filter.To = &parsed
	}

	items, total, err := s.repo.Maintenance().List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(newPage(items, total, params))
}

func malformedQueryTime(key, raw string) error {
	return goerrors.New("invalid "+key+" filter, expected RFC 3339 timestamp", goerrors.CategoryBadInput).
		WithCode(fiber.StatusBadRequest).
		WithTextCode("INVALID_FILTER").
		WithMetadata(map[string]any{key: raw})
}

func (s *Server) getMaintenance(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := s.repo.Maintenance().GetByID(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("maintenance record")
		}
		return err
	}

	return c.JSON(record)
}

func (s *Server) createMaintenance(c *fiber.Ctx) error {
	payload := new(maintenanceRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	principal := auth.PrincipalFromCtx(c)
	if principal == nil {
		return auth.ErrMissingBearer
	}

	ctx := c.UserContext()

	racketExists, err := s.repo.Rackets().Exists(ctx, payload.ClientRacketID)
	if err != nil {
		return err
	}
	if !racketExists {
		return notFound("racket")
	}

	record := &model.MaintenanceRecord{
		ClientRacketID:     payload.ClientRacketID,
		PerformedByUserID:  principal.ID,
		ServiceType:        payload.ServiceType,
		MainStringID:       payload.MainStringID,
		CrossStringID:      payload.CrossStringID,
		MainTensionKg:      payload.MainTensionKg,
		CrossTensionKg:     payload.CrossTensionKg,
		StringPattern:      payload.StringPattern,
		BaseGripID:         payload.BaseGripID,
		OvergripID:         payload.OvergripID,
		NumberOfOvergrips:  payload.NumberOfOvergrips,
		DampenerID:         payload.DampenerID,
		DampenerPosition:   payload.DampenerPosition,
		ServiceCost:        payload.ServiceCost,
		DurationMinutes:    payload.DurationMinutes,
		Notes:              payload.Notes,
		IsWarrantyService:  payload.IsWarrantyService,
		NextServiceDueDate: payload.NextServiceDueDate,
	}
	if payload.ServiceDate != nil {
		record.ServiceDate = *payload.ServiceDate
	}

	if err := s.verifyProductRefs(c, record); err != nil {
		return err
	}

	created, err := s.repo.Maintenance().Create(ctx, record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create maintenance record")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) updateMaintenance(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := new(maintenanceUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	record, err := s.repo.Maintenance().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("maintenance record")
		}
		return err
	}

	if payload.ServiceDate != nil {
		record.ServiceDate = *payload.ServiceDate
	}
	if payload.ServiceType != nil {
		record.ServiceType = *payload.ServiceType
	}
	if payload.MainStringID != nil {
		record.MainStringID = payload.MainStringID
	}
	if payload.CrossStringID != nil {
		record.CrossStringID = payload.CrossStringID
	}
	if payload.MainTensionKg != nil {
		record.MainTensionKg = payload.MainTensionKg
	}
	if payload.CrossTensionKg != nil {
		record.CrossTensionKg = payload.CrossTensionKg
	}
	if payload.StringPattern != nil {
		record.StringPattern = *payload.StringPattern
	}
	if payload.BaseGripID != nil {
		record.BaseGripID = payload.BaseGripID
	}
	if payload.OvergripID != nil {
		record.OvergripID = payload.OvergripID
	}
	if payload.NumberOfOvergrips != nil {
		record.NumberOfOvergrips = *payload.NumberOfOvergrips
	}
	if payload.DampenerID != nil {
		record.DampenerID = payload.DampenerID
	}
	if payload.DampenerPosition != nil {
		record.DampenerPosition = *payload.DampenerPosition
	}
	if payload.ServiceCost != nil {
		record.ServiceCost = *payload.ServiceCost
	}
	if payload.DurationMinutes != nil {
		record.DurationMinutes = payload.DurationMinutes
	}
	if payload.Notes != nil {
		record.Notes = *payload.Notes
	}
	if payload.IsWarrantyService != nil {
		record.IsWarrantyService = *payload.IsWarrantyService
	}
	if payload.NextServiceDueDate != nil {
		record.NextServiceDueDate = payload.NextServiceDueDate
	}

	if err := s.verifyProductRefs(c, record); err != nil {
		return err
	}

	record.Racket = nil
	record.PerformedBy = nil

	updated, err := s.repo.Maintenance().UpdateByID(ctx, id, record)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// deleteMaintenance removes the record permanently. The route is
// admin-gated.
func (s *Server) deleteMaintenance(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := s.repo.Maintenance().HardDelete(c.UserContext(), id); err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("maintenance record")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// verifyProductRefs confirms every referenced string, grip and
// dampener product exists before the record is persisted.
func (s *Server) verifyProductRefs(c *fiber.Ctx, record *model.MaintenanceRecord) error {
	for _, ref := range record.ProductRefs() {
		exists, err := s.repo.Products().Exists(c.UserContext(), ref)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("product")
		}
	}

	return nil
}

package server

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
	repo "github.com/courtside/stringdesk/internal/repository"
)

type clientRequest struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone_number"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	AddressLine1 string     `json:"address_line1"`
	AddressLine2 string     `json:"address_line2"`
	City         string     `json:"city"`
	PostalCode   string     `json:"postal_code"`
	Country      string     `json:"country"`
	Notes        string     `json:"notes"`
}

func (r clientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.Required),
	)
}

type clientUpdateRequest struct {
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Email        *string    `json:"email"`
	Phone        *string    `json:"phone_number"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	AddressLine1 *string    `json:"address_line1"`
	AddressLine2 *string    `json:"address_line2"`
	City         *string    `json:"city"`
	PostalCode   *string    `json:"postal_code"`
	Country      *string    `json:"country"`
	Notes        *string    `json:"notes"`
	IsActive     *bool      `json:"is_active"`
}

func (r clientUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Length(1, 100)),
		validation.Field(&r.Email, is.Email),
	)
}

func (s *Server) listClients(c *fiber.Ctx) error {
	params := s.pageParams(c)

	isActive, err := queryBoolPtr(c, "is_active")
	if err != nil {
		return err
	}

	items, total, err := s.repo.Clients().List(c.UserContext(), repo.ClientFilter{
		Search:   c.Query("search"),
		IsActive: isActive,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return err
	}

	return c.JSON(newPage(items, total, params))
}

func (s *Server) getClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	client, err := s.repo.Clients().GetWithRackets(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("client")
		}
		return err
	}

	return c.JSON(client)
}

func (s *Server) createClient(c *fiber.Ctx) error {
	payload := new(clientRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := s.clientFromRequest(c.UserContext(), payload)
	if err != nil {
		return err
	}

	created, err := s.repo.Clients().Create(c.UserContext(), record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create client")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) updateClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := new(clientUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	record, err := s.repo.Clients().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("client")
		}
		return err
	}

	if err := s.mergeClient(ctx, record, payload); err != nil {
		return err
	}

	updated, err := s.repo.Clients().UpdateByID(ctx, id, record)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *Server) deleteClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	record, err := s.repo.Clients().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("client")
		}
		return err
	}

	record.IsActive = false
	if _, err := s.repo.Clients().UpdateByID(ctx, id, record); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type clientWithRacketsRequest struct {
	clientRequest
	Rackets []racketPayload `json:"rackets"`
}

func (r clientWithRacketsRequest) Validate() error {
	if err := r.clientRequest.Validate(); err != nil {
		return err
	}

	for _, racket := range r.Rackets {
		if err := racket.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// createClientWithRackets registers a walk-in client along with the
// frames they brought, atomically.
func (s *Server) createClientWithRackets(c *fiber.Ctx) error {
	payload := new(clientWithRacketsRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	record, err := s.clientFromRequest(ctx, &payload.clientRequest)
	if err != nil {
		return err
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := s.repo.Clients().CreateTx(ctx, tx, record)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create client")
		}

		for _, item := range payload.Rackets {
			racket := item.toModel()
			racket.ClientID = created.ID

			stored, err := s.repo.Rackets().CreateTx(ctx, tx, racket)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create racket")
			}

			created.Rackets = append(created.Rackets, stored)
		}

		record = created
		return nil
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (s *Server) clientFromRequest(ctx context.Context, payload *clientRequest) (*model.Client, error) {
	phone, err := s.normalizePhone(payload.Phone)
	if err != nil {
		return nil, err
	}

	if payload.Email != "" {
		exists, err := s.repo.Clients().ExistsByEmail(ctx, payload.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflict("a client with this email already exists")
		}
	}

	return &model.Client{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		Phone:        phone,
		DateOfBirth:  payload.DateOfBirth,
		AddressLine1: payload.AddressLine1,
		AddressLine2: payload.AddressLine2,
		City:         payload.City,
		PostalCode:   payload.PostalCode,
		Country:      payload.Country,
		Notes:        payload.Notes,
		IsActive:     true,
	}, nil
}

func (s *Server) mergeClient(ctx context.Context, record *model.Client, payload *clientUpdateRequest) error {
	if payload.FirstName != nil {
		record.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		record.LastName = *payload.LastName
	}
	if payload.Email != nil && *payload.Email != record.Email {
		if *payload.Email != "" {
			exists, err := s.repo.Clients().ExistsByEmail(ctx, *payload.Email)
			if err != nil {
				return err
			}
			if exists {
				return conflict("a client with this email already exists")
			}
		}
		record.Email = *payload.Email
	}
	if payload.Phone != nil {
		phone, err := s.normalizePhone(*payload.Phone)
		if err != nil {
			return err
		}
		record.Phone = phone
	}
	if payload.DateOfBirth != nil {
		record.DateOfBirth = payload.DateOfBirth
	}
	if payload.AddressLine1 != nil {
		record.AddressLine1 = *payload.AddressLine1
	}
	if payload.AddressLine2 != nil {
		record.AddressLine2 = *payload.AddressLine2
	}
	if payload.City != nil {
		record.City = *payload.City
	}
	if payload.PostalCode != nil {
		record.PostalCode = *payload.PostalCode
	}
	if payload.Country != nil {
		record.Country = *payload.Country
	}
	if payload.Notes != nil {
		record.Notes = *payload.Notes
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}

	return nil
}

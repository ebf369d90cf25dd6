package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/courtside/stringdesk/internal/model"
	repo "github.com/courtside/stringdesk/internal/repository"
)

type productRequest struct {
	CategoryID     uuid.UUID      `json:"category_id"`
	Name           string         `json:"name"`
	Brand          string         `json:"brand"`
	Model          string         `json:"model"`
	SKU            string         `json:"sku"`
	Description    string         `json:"description"`
	Price          *float64       `json:"price"`
	CostPrice      *float64       `json:"cost_price"`
	Quantity       int            `json:"quantity_in_stock"`
	ImageURL       string         `json:"image_url"`
	Specifications map[string]any `json:"specifications"`
}

func (r productRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CategoryID, validation.Required, validation.By(requireUUID)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Brand, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Quantity, validation.Min(0)),
	)
}

func requireUUID(value any) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
}

type productUpdateRequest struct {
	CategoryID     *uuid.UUID     `json:"category_id"`
	Name           *string        `json:"name"`
	Brand          *string        `json:"brand"`
	Model          *string        `json:"model"`
	SKU            *string        `json:"sku"`
	Description    *string        `json:"description"`
	Price          *float64       `json:"price"`
	CostPrice      *float64       `json:"cost_price"`
	Quantity       *int           `json:"quantity_in_stock"`
	ImageURL       *string        `json:"image_url"`
	Specifications map[string]any `json:"specifications"`
	IsActive       *bool          `json:"is_active"`
}

func (r productUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 200)),
		validation.Field(&r.Brand, validation.Length(1, 100)),
		validation.Field(&r.Quantity, validation.Min(0)),
	)
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	params := s.pageParams(c)

	categoryID, err := queryUUIDPtr(c, "category_id")
	if err != nil {
		return err
	}

	isActive, err := queryBoolPtr(c, "is_active")
	if err != nil {
		return err
	}

	filter := repo.ProductFilter{
		Search:            c.Query("search"),
		CategoryID:        categoryID,
		IsActive:          isActive,
		LowStockThreshold: s.cfg.Inventory.LowStockThreshold,
		Limit:             params.Limit,
		Offset:            params.Offset(),
	}

	lowStock, err := queryBoolPtr(c, "low_stock")
	if err != nil {
		return err
	}
	if lowStock != nil && *lowStock {
		filter.LowStock = true
	}

	items, total, err := s.repo.Products().List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(newPage(items, total, params))
}

// listLowStockProducts is a fixed view over the list filter: active
// products at or below the restock threshold.
func (s *Server) listLowStockProducts(c *fiber.Ctx) error {
	params := s.pageParams(c)
	active := true

	items, total, err := s.repo.Products().List(c.UserContext(), repo.ProductFilter{
		IsActive:          &active,
		LowStock:          true,
		LowStockThreshold: s.cfg.Inventory.LowStockThreshold,
		Limit:             params.Limit,
		Offset:            params.Offset(),
	})
	if err != nil {
		return err
	}

	return c.JSON(newPage(items, total, params))
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := s.repo.Products().GetByID(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("product")
		}
		return err
	}

	return c.JSON(product)
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	if _, err := s.repo.Categories().GetByID(ctx, payload.CategoryID); err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("category")
		}
		return err
	}

	created, err := s.repo.Products().Create(ctx, &model.Product{
		CategoryID:     payload.CategoryID,
		Name:           payload.Name,
		Brand:          payload.Brand,
		Model:          payload.Model,
		SKU:            payload.SKU,
		Description:    payload.Description,
		Price:          payload.Price,
		CostPrice:      payload.CostPrice,
		Quantity:       payload.Quantity,
		ImageURL:       payload.ImageURL,
		Specifications: payload.Specifications,
		IsActive:       true,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create product")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := new(productUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	record, err := s.repo.Products().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("product")
		}
		return err
	}

	if payload.CategoryID != nil {
		if _, err := s.repo.Categories().GetByID(ctx, *payload.CategoryID); err != nil {
			if repository.IsRecordNotFound(err) {
				return notFound("category")
			}
			return err
		}
		record.CategoryID = *payload.CategoryID
	}
	if payload.Name != nil {
		record.Name = *payload.Name
	}
	if payload.Brand != nil {
		record.Brand = *payload.Brand
	}
	if payload.Model != nil {
		record.Model = *payload.Model
	}
	if payload.SKU != nil {
		record.SKU = *payload.SKU
	}
	if payload.Description != nil {
		record.Description = *payload.Description
	}
	if payload.Price != nil {
		record.Price = payload.Price
	}
	if payload.CostPrice != nil {
		record.CostPrice = payload.CostPrice
	}
	if payload.Quantity != nil {
		record.Quantity = *payload.Quantity
	}
	if payload.ImageURL != nil {
		record.ImageURL = *payload.ImageURL
	}
	if payload.Specifications != nil {
		record.Specifications = payload.Specifications
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}

	// drop the loaded relation so the update does not try to persist it
	record.Category = nil

	updated, err := s.repo.Products().UpdateByID(ctx, id, record)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	record, err := s.repo.Products().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("product")
		}
		return err
	}

	record.IsActive = false
	record.Category = nil
	if _, err := s.repo.Products().UpdateByID(ctx, id, record); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"

	"github.com/courtside/stringdesk/internal/model"
	repo "github.com/courtside/stringdesk/internal/repository"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (r categoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Slug, validation.Required, validation.Length(1, 100)),
	)
}

type categoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

func (r categoryUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 100)),
	)
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	params := s.pageParams(c)

	// absent filter defaults to the storefront view: active categories
	isActive, err := queryBoolPtr(c, "is_active")
	if err != nil {
		return err
	}
	if isActive == nil {
		active := true
		isActive = &active
	}

	items, total, err := s.repo.Categories().List(c.UserContext(), repo.CategoryFilter{
		IsActive: isActive,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return err
	}

	return c.JSON(newPage(items, total, params))
}

func (s *Server) getCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := s.repo.Categories().GetByID(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("category")
		}
		return err
	}

	return c.JSON(category)
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	payload := new(categoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	if _, err := s.repo.Categories().GetByName(ctx, payload.Name); err == nil {
		return conflict("a category with this name already exists")
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	if _, err := s.repo.Categories().GetBySlug(ctx, payload.Slug); err == nil {
		return conflict("a category with this slug already exists")
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	created, err := s.repo.Categories().Create(ctx, &model.ProductCategory{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		SortOrder:   payload.SortOrder,
		IsActive:    true,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create category")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) updateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := new(categoryUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	ctx := c.UserContext()

	record, err := s.repo.Categories().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("category")
		}
		return err
	}

	if payload.Name != nil && *payload.Name != record.Name {
		if _, err := s.repo.Categories().GetByName(ctx, *payload.Name); err == nil {
			return conflict("a category with this name already exists")
		} else if !repository.IsRecordNotFound(err) {
			return err
		}
		record.Name = *payload.Name
	}
	if payload.Description != nil {
		record.Description = *payload.Description
	}
	if payload.SortOrder != nil {
		record.SortOrder = *payload.SortOrder
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}

	updated, err := s.repo.Categories().UpdateByID(ctx, id, record)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *Server) deleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	record, err := s.repo.Categories().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return notFound("category")
		}
		return err
	}

	record.IsActive = false
	if _, err := s.repo.Categories().UpdateByID(ctx, id, record); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

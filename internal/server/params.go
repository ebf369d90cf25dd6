package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// parseID reads the :id route parameter as a UUID.
func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.New("invalid resource identifier", goerrors.CategoryBadInput).
			WithCode(fiber.StatusBadRequest).
			WithTextCode("INVALID_ID").
			WithMetadata(map[string]any{"id": raw})
	}

	return id, nil
}

// queryBoolPtr reads an optional boolean query parameter, nil when the
// parameter is absent.
func queryBoolPtr(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, goerrors.New("invalid "+key+" filter", goerrors.CategoryBadInput).
			WithCode(fiber.StatusBadRequest).
			WithTextCode("INVALID_FILTER").
			WithMetadata(map[string]any{key: raw})
	}

	return &val, nil
}

// queryUUIDPtr reads an optional UUID query parameter.
func queryUUIDPtr(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, goerrors.New("invalid "+key+" filter", goerrors.CategoryBadInput).
			WithCode(fiber.StatusBadRequest).
			WithTextCode("INVALID_FILTER").
			WithMetadata(map[string]any{key: raw})
	}

	return &id, nil
}

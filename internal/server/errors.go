package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// errorResponse is the uniform error envelope returned by every
// endpoint.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message  string         `json:"message"`
	Category string         `json:"category,omitempty"`
	TextCode string         `json:"text_code,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// ErrorHandler converts errors bubbling out of handlers into JSON
// responses. Rich errors carry their own status; anything unknown is
// a 500 with a generic message so internals never leak.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	if fiberErr, ok := err.(*fiber.Error); ok {
		return c.Status(fiberErr.Code).JSON(errorResponse{
			Error: errorBody{Message: fiberErr.Message},
		})
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "an unexpected server error occurred").
			WithCode(fiber.StatusInternalServerError)
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", c.Path(),
			"method", c.Method(),
			"category", richErr.Category,
			"error", richErr,
		)
		return c.Status(status).JSON(errorResponse{
			Error: errorBody{
				Message:  "an unexpected server error occurred",
				Category: string(richErr.Category),
			},
		})
	}

	body := errorBody{
		Message:  richErr.Message,
		Category: string(richErr.Category),
		TextCode: richErr.TextCode,
	}
	if len(richErr.Metadata) > 0 {
		body.Fields = richErr.Metadata
	}

	return c.Status(status).JSON(errorResponse{Error: body})
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// invalidPayload adapts an ozzo validation result into a rich error
// carrying per-field messages.
func invalidPayload(err error) error {
	fields := map[string]any{}
	if verrs, ok := err.(validation.Errors); ok {
		for name, ferr := range verrs {
			fields[name] = ferr.Error()
		}
	}

	return goerrors.New("invalid request payload", goerrors.CategoryValidation).
		WithCode(fiber.StatusBadRequest).
		WithTextCode("INVALID_PAYLOAD").
		WithMetadata(fields)
}

// malformedBody covers unparseable JSON bodies.
func malformedBody(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse request body").
		WithCode(fiber.StatusBadRequest).
		WithTextCode("MALFORMED_BODY")
}

// notFound builds the uniform 404 for a named resource.
func notFound(resource string) error {
	return goerrors.New(resource+" not found", goerrors.CategoryNotFound).
		WithCode(fiber.StatusNotFound).
		WithTextCode("NOT_FOUND")
}

// conflict builds a 409 with a caller-facing message.
func conflict(message string) error {
	return goerrors.New(message, goerrors.CategoryConflict).
		WithCode(fiber.StatusConflict).
		WithTextCode("CONFLICT")
}

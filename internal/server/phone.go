package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// normalizePhone parses a raw phone number against the configured
// default region and returns it in E.164 form.
func (s *Server) normalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, s.cfg.App.PhoneRegion)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "could not parse phone number").
			WithCode(fiber.StatusBadRequest).
			WithTextCode("INVALID_PHONE")
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", goerrors.New("invalid phone number", goerrors.CategoryValidation).
			WithCode(fiber.StatusBadRequest).
			WithTextCode("INVALID_PHONE").
			WithMetadata(map[string]any{"phone_number": raw})
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

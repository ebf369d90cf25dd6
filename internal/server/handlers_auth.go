package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/courtside/stringdesk/internal/auth"
	"github.com/courtside/stringdesk/internal/model"
)

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number"`
	Role      string `json:"role"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Role, validation.In(model.RoleStaff, model.RoleAdmin)),
	)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r refreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (s *Server) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	phone := ""
	if payload.Phone != "" {
		normalized, err := s.normalizePhone(payload.Phone)
		if err != nil {
			return err
		}
		phone = normalized
	}

	user, err := s.auther.Register(c.UserContext(), auth.RegisterInput{
		Email:     payload.Email,
		Username:  payload.Username,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     phone,
		Role:      payload.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	_, pair, err := s.auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(pair)
}

func (s *Server) refresh(c *fiber.Ctx) error {
	payload := new(refreshRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	pair, err := s.auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(pair)
}

func (s *Server) me(c *fiber.Ctx) error {
	principal := auth.PrincipalFromCtx(c)
	if principal == nil {
		return auth.ErrMissingBearer
	}

	return c.JSON(principal)
}

package rest

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// APIResponse is the body of every auth endpoint.
type APIResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// ValidationResponse reports precondition failures per field.
type ValidationResponse struct {
	APIResponse
	Errors map[string]string `json:"errors,omitempty"`
}

type MeResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func resultResponse(c *fiber.Ctx, okStatus, failStatus int, res *services.Result) error {
	status := failStatus
	if res.Success {
		status = okStatus
	}
	return c.Status(status).JSON(APIResponse{Message: res.Message, Success: res.Success, Token: res.Token})
}

func (s *HTTPServer) register(c *fiber.Ctx) error {
	var p RegisterPayload
	if err := c.BodyParser(&p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if err := p.Validate(); err != nil {
		return validationFailed(c, err)
	}

	res, err := s.service.Register(c.UserContext(), services.RegisterRequest{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Password:  p.Password,
	})
	if err != nil {
		return err
	}
	return resultResponse(c, fiber.StatusCreated, fiber.StatusConflict, res)
}

func (s *HTTPServer) verifyEmail(c *fiber.Ctx) error {
	p := VerifyPayload{Email: c.Query("email"), EmailCode: c.Query("emailCode")}
	if err := p.Validate(); err != nil {
		return validationFailed(c, err)
	}

	res, err := s.service.VerifyEmail(c.UserContext(), p.Email, p.EmailCode)
	if err != nil {
		return err
	}
	return resultResponse(c, fiber.StatusOK, fiber.StatusConflict, res)
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var p LoginPayload
	if err := c.BodyParser(&p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if err := p.Validate(); err != nil {
		return validationFailed(c, err)
	}

	res, err := s.service.Login(c.UserContext(), p.Username, p.Password)
	if err != nil {
		return err
	}
	return resultResponse(c, fiber.StatusOK, fiber.StatusUnauthorized, res)
}

func (s *HTTPServer) me(c *fiber.Ctx) error {
	p, ok := c.Locals(principalKey).(*models.Principal)
	if !ok {
		return fiber.ErrUnauthorized
	}
	return c.JSON(MeResponse{Username: p.Username, Roles: models.RoleNames(p.Roles)})
}

// bearerAuth puts the token's principal into Locals or answers 401.
func (s *HTTPServer) bearerAuth(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return c.Status(fiber.StatusUnauthorized).JSON(APIResponse{Message: "missing token"})
	}

	p, err := s.service.Authenticate(c.UserContext(), strings.TrimPrefix(h, common.BearerPrefix))
	if errors.Is(err, common.ErrTokenExpired) {
		return c.Status(fiber.StatusUnauthorized).JSON(APIResponse{Message: "token expired"})
	}
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(APIResponse{Message: "invalid token"})
	}

	c.Locals(principalKey, p)
	return c.Next()
}

func validationFailed(c *fiber.Ctx, err error) error {
	fields := map[string]string{}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for k, v := range ve {
			fields[k] = v.Error()
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(ValidationResponse{
		APIResponse: APIResponse{Message: "validation failed"},
		Errors:      fields,
	})
}

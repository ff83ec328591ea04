package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/webshop/api/http/presenter"
	"github.com/artem13815/webshop/pkg/auth"
	"github.com/artem13815/webshop/pkg/security/jwt"
)

// LoginErrorText is the single message returned for any credential mismatch.
const LoginErrorText = "Login error!"

type AccountHandler struct {
	useCase auth.AuthUseCase
	log     *slog.Logger
}

func NewAccountHandler(useCase auth.AuthUseCase, log *slog.Logger) *AccountHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AccountHandler{useCase: useCase, log: log}
}

// numericText accepts a JSON number or string and keeps its text form.
type numericText string

func (n *numericText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numericText(num.String())
	return nil
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone"`
	Age      numericText `json:"age" swaggertype:"integer"`
	FullName string      `json:"fullName"`
	Address  string      `json:"address"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    account
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 200 {object} presenter.Result
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /account/register [post]
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, presenter.CodeValidation, "Invalid JSON payload")
	}

	err := h.useCase.Register(c.UserContext(), auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Age:      string(req.Age),
		FullName: req.FullName,
		Address:  req.Address,
	})
	if err != nil {
		if ve, ok := auth.IsValidation(err); ok {
			return presenter.Fail(c, http.StatusBadRequest, presenter.CodeValidation, ve.Messages()...)
		}
		h.log.ErrorContext(c.UserContext(), "register request failed", "request_id", requestID(c), "error", err)
		return presenter.Internal(c)
	}
	return presenter.OK(c)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login handles user login.
// @Summary Login
// @Tags    account
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} loginResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /account/login [post]
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, presenter.CodeValidation, "Invalid JSON payload")
	}

	result, err := h.useCase.Login(c.UserContext(), auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		if ve, ok := auth.IsValidation(err); ok {
			return presenter.Fail(c, http.StatusBadRequest, presenter.CodeValidation, ve.Messages()...)
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Fail(c, http.StatusBadRequest, presenter.CodeValidation, LoginErrorText)
		}
		h.log.ErrorContext(c.UserContext(), "login request failed", "request_id", requestID(c), "error", err)
		return presenter.Internal(c)
	}

	return presenter.JSON(c, http.StatusOK, loginResponse{
		Code:    presenter.CodeOK,
		Message: presenter.MessageOK,
		Token:   result.Token.Value,
	})
}

type profileView struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Phone    string   `json:"phone"`
	Age      int      `json:"age"`
	Address  string   `json:"address"`
	Roles    []string `json:"roles"`
}

type profileResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	User    profileView `json:"user"`
}

// Me returns the profile of the token subject.
// @Summary  Current user
// @Tags     account
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} profileResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /account/me [get]
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(jwt.LocalUserID).(string)
	user, err := h.useCase.Profile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return presenter.Fail(c, http.StatusNotFound, http.StatusNotFound, "User not found.")
		}
		return presenter.Internal(c)
	}
	return presenter.JSON(c, http.StatusOK, profileResponse{
		Code:    presenter.CodeOK,
		Message: presenter.MessageOK,
		User: profileView{
			ID:       user.ID.String(),
			Email:    user.Email,
			FullName: user.FullName,
			Phone:    user.Phone,
			Age:      user.Age,
			Address:  user.Address,
			Roles:    user.Roles,
		},
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

package presenter

import "github.com/gofiber/fiber/v2"

// Result codes carried in the response envelope. They are independent from
// the HTTP status.
const (
	CodeOK         = 200
	CodeValidation = 405
	CodeInternal   = 500

	MessageOK    = "OK"
	MessageError = "Error"

	InternalErrorText = "Internal server error"
)

type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// OK writes the plain success envelope.
func OK(c *fiber.Ctx) error {
	return JSON(c, fiber.StatusOK, Result{Code: CodeOK, Message: MessageOK})
}

// Fail writes the error envelope with the given HTTP status and result code.
func Fail(c *fiber.Ctx, status, code int, errs ...string) error {
	if errs == nil {
		errs = []string{}
	}
	return JSON(c, status, ErrorResponse{Code: code, Message: MessageError, Errors: errs})
}

// Internal writes the generic 500 envelope; no error detail reaches the client.
func Internal(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusInternalServerError, CodeInternal, InternalErrorText)
}

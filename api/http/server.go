package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/artem13815/webshop/api/http/presenter"
)

// Options tune the Fiber app.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the Fiber app with recovery, request ids, request logging and
// an error handler that never exposes internal error text.
func NewApp(opts Options, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "webshop",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(log))
	return app
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return presenter.Fail(c, fe.Code, fe.Code, fe.Message)
		}
		log.ErrorContext(c.UserContext(), "unhandled request error",
			"request_id", c.Locals("requestid"), "path", c.Path(), "error", err)
		return presenter.Internal(c)
	}
}

func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet; report what it will send
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		log.InfoContext(c.UserContext(), "http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"request_id", c.Locals("requestid"),
		)
		return err
	}
}

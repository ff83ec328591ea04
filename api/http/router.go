package http

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/artem13815/webshop/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, account *handlers.AccountHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/account")
	a.Post("/register", account.Register)
	a.Post("/login", account.Login)
	a.Get("/me", authMW, account.Me)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)
}

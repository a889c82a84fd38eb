package route

import (
	"github.com/gofiber/fiber/v2"

	dashboardService "school-analytics-dashboard/app/service/dashboard"
	"school-analytics-dashboard/config"
	"school-analytics-dashboard/middleware"
)

func SetupDashboardRoutes(app *fiber.App, svc *dashboardService.DashboardService, cfg *config.Config) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Dashboard
	dash := api.Group("/dashboard", middleware.AuthRequired(cfg.JWTSecret))
	dash.Get("/", svc.GetDashboard)
	dash.Post("/refresh", svc.RefreshDashboard)
	dash.Get("/presence", svc.GetPresence)

	// Ops, hanya kalau OPS_PASSWORD_HASH diisi
	if cfg.OpsEnabled() {
		ops := app.Group("/ops", middleware.OpsRequired(cfg.OpsUser, cfg.OpsPasswordHash))
		ops.Get("/status", svc.GetStatus)
	}
}

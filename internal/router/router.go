package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/config"
	"github.com/meskel-dev/bethel-admin-api/internal/handler"
	"github.com/meskel-dev/bethel-admin-api/internal/middleware"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	ActivityHandler   *handler.ActivityHandler
	AdminUserHandler  *handler.AdminUserHandler
	ChurchHandler     *handler.ChurchHandler
	DepartmentHandler *handler.DepartmentHandler
	MemberHandler     *handler.MemberHandler
	SettingsHandler   *handler.SettingsHandler
	UploadHandler     *handler.UploadHandler

	DB          *gorm.DB
	JWT         fiber.Handler
	Maintenance fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
//
// The guard order is fixed: authentication first, then the maintenance gate,
// then role checks. Auth self-service and the settings read stay reachable
// during maintenance so clients can still bootstrap and sign out.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))

	jwt := deps.JWT
	if jwt == nil {
		jwt = func(c *fiber.Ctx) error { return c.Next() }
	}
	maintenance := deps.Maintenance
	if maintenance == nil {
		maintenance = func(c *fiber.Ctx) error { return c.Next() }
	}

	anyRole := middleware.RequireRole(models.RoleSuperAdmin, models.RolePastor, models.RoleServant)
	managerRole := middleware.RequireRole(models.RoleSuperAdmin, models.RolePastor)
	superAdminRole := middleware.RequireRole(models.RoleSuperAdmin)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		loginLimiter := middleware.RateLimit("auth", 10, time.Minute)
		auth.Use("/login", loginLimiter)
		deps.AuthHandler.RegisterPublic(auth)

		authProtected := api.Group("/auth", jwt)
		deps.AuthHandler.RegisterProtected(authProtected)
	}

	if deps.SettingsHandler != nil {
		settingsRead := api.Group("/settings", jwt, anyRole)
		settingsWrite := api.Group("/settings", jwt, superAdminRole)
		deps.SettingsHandler.Register(settingsRead, settingsWrite)
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwt, maintenance, anyRole)
		activities.Use("/stream", handler.StashStreamScope())
		deps.ActivityHandler.Register(activities)
	}

	if deps.AdminUserHandler != nil {
		users := api.Group("/users", jwt, maintenance, managerRole)
		deps.AdminUserHandler.Register(users)
	}

	if deps.ChurchHandler != nil {
		churchRead := api.Group("/churches", jwt, maintenance, anyRole)
		churchWrite := api.Group("/churches", jwt, maintenance, superAdminRole)
		deps.ChurchHandler.Register(churchRead, churchWrite)
	}

	if deps.DepartmentHandler != nil {
		departmentRead := api.Group("/departments", jwt, maintenance, anyRole)
		departmentWrite := api.Group("/departments", jwt, maintenance, managerRole)
		deps.DepartmentHandler.Register(departmentRead, departmentWrite)
	}

	if deps.MemberHandler != nil {
		members := api.Group("/members", jwt, maintenance, anyRole)
		deps.MemberHandler.Register(members)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwt, maintenance, anyRole)
		deps.UploadHandler.Register(uploads)
	}
}

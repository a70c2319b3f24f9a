package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// MaintenanceChecker reports whether the maintenance flag is set.
type MaintenanceChecker interface {
	Get(ctx context.Context) (models.GlobalSettings, error)
}

// Maintenance blocks everyone except super admins while the maintenance flag
// is on. It runs after authentication and before role checks, so a blocked
// token still gets 401 and a locked-out admin sees 503 rather than 403.
func Maintenance(settings MaintenanceChecker, logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "maintenance_gate").Logger()

	return func(c *fiber.Ctx) error {
		current, err := settings.Get(c.UserContext())
		if err != nil {
			// Fail open on a settings read error; the gate is a convenience,
			// not a security boundary.
			log.Warn().Err(err).Msg("maintenance check failed")
			return c.Next()
		}

		if !current.IsMaintenanceMode {
			return c.Next()
		}

		if actor, ok := c.Locals("actor").(service.Actor); ok && actor.Role == models.RoleSuperAdmin {
			return c.Next()
		}

		return utils.SendError(c, fiber.StatusServiceUnavailable, "service is under maintenance")
	}
}

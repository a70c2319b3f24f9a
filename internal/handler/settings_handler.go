package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// SettingsHandler exposes the global settings singleton and the maintenance
// switch.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches settings routes. Reading is open to any authenticated
// role; the maintenance toggle is restricted at the router level.
func (h *SettingsHandler) Register(read fiber.Router, write fiber.Router) {
	read.Get("", h.get)
	write.Put("/maintenance", h.setMaintenance)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.UserContext())
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load settings")
	}
	return utils.SendSuccess(c, "settings", settings)
}

func (h *SettingsHandler) setMaintenance(c *fiber.Ctx) error {
	var payload dto.MaintenanceToggleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Enabled == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "enabled is required")
	}

	settings, err := h.service.SetMaintenance(c.UserContext(), actorFromContext(c), *payload.Enabled)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to toggle maintenance mode")
	}

	return utils.SendSuccess(c, "maintenance mode updated", settings)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// ChurchHandler exposes branch management endpoints.
type ChurchHandler struct {
	service service.ChurchService
	logger  zerolog.Logger
}

// NewChurchHandler constructs the handler.
func NewChurchHandler(service service.ChurchService, logger zerolog.Logger) *ChurchHandler {
	return &ChurchHandler{
		service: service,
		logger:  logger.With().Str("component", "church_handler").Logger(),
	}
}

// Register attaches branch routes to the router group. Reads are open to all
// authenticated roles; writes are restricted at the router level.
func (h *ChurchHandler) Register(read fiber.Router, write fiber.Router) {
	read.Get("", h.list)
	read.Get("/:id", h.get)
	write.Post("", h.create)
	write.Patch("/:id", h.update)
	write.Delete("/:id", h.delete)
}

func (h *ChurchHandler) create(c *fiber.Ctx) error {
	var payload dto.ChurchCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	church, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to create church")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "church created", church)
}

func (h *ChurchHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	church, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load church")
	}

	return utils.SendSuccess(c, "church", church)
}

func (h *ChurchHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.UserContext(), actorFromContext(c), dto.ChurchListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list churches")
	}

	return utils.SendSuccess(c, "churches", response)
}

func (h *ChurchHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.ChurchUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	church, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to update church")
	}

	return utils.SendSuccess(c, "church updated", church)
}

func (h *ChurchHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err, "failed to delete church")
	}

	return utils.SendSuccess(c, "church deleted", nil)
}

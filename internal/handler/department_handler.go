package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// DepartmentHandler exposes department management endpoints.
type DepartmentHandler struct {
	service service.DepartmentService
	logger  zerolog.Logger
}

// NewDepartmentHandler constructs the handler.
func NewDepartmentHandler(service service.DepartmentService, logger zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: service,
		logger:  logger.With().Str("component", "department_handler").Logger(),
	}
}

// Register attaches department routes to the router group.
func (h *DepartmentHandler) Register(read fiber.Router, write fiber.Router) {
	read.Get("", h.list)
	read.Get("/:id", h.get)
	write.Post("", h.create)
	write.Patch("/:id", h.update)
	write.Delete("/:id", h.delete)
}

func (h *DepartmentHandler) create(c *fiber.Ctx) error {
	var payload dto.DepartmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	department, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to create department")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "department created", department)
}

func (h *DepartmentHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	department, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load department")
	}

	return utils.SendSuccess(c, "department", department)
}

func (h *DepartmentHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	churchID, err := parseQueryUintPtr(c, "church_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid church id")
	}

	response, err := h.service.List(c.UserContext(), actorFromContext(c), dto.DepartmentListRequest{
		Page:     page,
		PageSize: pageSize,
		ChurchID: churchID,
		Search:   c.Query("search"),
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list departments")
	}

	return utils.SendSuccess(c, "departments", response)
}

func (h *DepartmentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.DepartmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	department, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to update department")
	}

	return utils.SendSuccess(c, "department updated", department)
}

func (h *DepartmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err, "failed to delete department")
	}

	return utils.SendSuccess(c, "department deleted", nil)
}

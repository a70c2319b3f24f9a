package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// MemberHandler exposes congregation member endpoints.
type MemberHandler struct {
	service service.MemberService
	logger  zerolog.Logger
}

// NewMemberHandler constructs the handler.
func NewMemberHandler(service service.MemberService, logger zerolog.Logger) *MemberHandler {
	return &MemberHandler{
		service: service,
		logger:  logger.With().Str("component", "member_handler").Logger(),
	}
}

// Register attaches member routes to the router group.
func (h *MemberHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *MemberHandler) create(c *fiber.Ctx) error {
	var payload dto.MemberCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	member, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to create member")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "member created", member)
}

func (h *MemberHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	member, err := h.service.Get(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load member")
	}

	return utils.SendSuccess(c, "member", member)
}

func (h *MemberHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	departmentID, err := parseQueryUintPtr(c, "department_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	response, err := h.service.List(c.UserContext(), actorFromContext(c), dto.MemberListRequest{
		Page:         page,
		PageSize:     pageSize,
		DepartmentID: departmentID,
		Search:       c.Query("search"),
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list members")
	}

	return utils.SendSuccess(c, "members", response)
}

func (h *MemberHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.MemberUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	member, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to update member")
	}

	return utils.SendSuccess(c, "member updated", member)
}

func (h *MemberHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err, "failed to delete member")
	}

	return utils.SendSuccess(c, "member deleted", nil)
}

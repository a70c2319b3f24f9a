package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// AdminUserHandler exposes elevated user management: account creation,
// profile edits, block/unblock and role changes.
type AdminUserHandler struct {
	service service.AdminUserService
	logger  zerolog.Logger
}

// NewAdminUserHandler constructs the handler.
func NewAdminUserHandler(service service.AdminUserService, logger zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_user_handler").Logger(),
	}
}

// Register attaches the user management routes to the router group.
func (h *AdminUserHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/block", h.block)
	router.Post("/:id/unblock", h.unblock)
	router.Post("/:id/role", h.changeRole)
}

func (h *AdminUserHandler) create(c *fiber.Ctx) error {
	var payload dto.AdminUserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to create user")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", profile)
}

func (h *AdminUserHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	profile, err := h.service.Get(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load user")
	}

	return utils.SendSuccess(c, "user", profile)
}

func (h *AdminUserHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.UserContext(), actorFromContext(c), dto.AdminUserListRequest{
		Page:     page,
		PageSize: pageSize,
		Role:     c.Query("role"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list users")
	}

	return utils.SendSuccess(c, "users", response)
}

func (h *AdminUserHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.AdminUserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to update user")
	}

	return utils.SendSuccess(c, "user updated", profile)
}

func (h *AdminUserHandler) block(c *fiber.Ctx) error {
	return h.setBlocked(c, true, "user blocked")
}

func (h *AdminUserHandler) unblock(c *fiber.Ctx) error {
	return h.setBlocked(c, false, "user unblocked")
}

func (h *AdminUserHandler) setBlocked(c *fiber.Ctx, blocked bool, message string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	profile, err := h.service.SetBlocked(c.UserContext(), actorFromContext(c), id, blocked)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to change block state")
	}

	return utils.SendSuccess(c, message, profile)
}

func (h *AdminUserHandler) changeRole(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.AdminUserRoleChangeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.ChangeRole(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to change role")
	}

	return utils.SendSuccess(c, "role changed", profile)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// AuthHandler exposes sign-in, sign-out, session bootstrap and password
// endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated auth routes.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/password-reset", h.requestPasswordReset)
}

// RegisterProtected attaches the token-guarded auth routes.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Get("/me", h.session)
	router.Post("/change-password", h.changePassword)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "sign-in failed")
	}

	return utils.SendSuccess(c, "signed in", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	h.service.Logout(c.UserContext(), actorFromContext(c))
	return utils.SendSuccess(c, "signed out", nil)
}

func (h *AuthHandler) session(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	response, err := h.service.Session(c.UserContext(), actor.ID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load session")
	}
	return utils.SendSuccess(c, "session", response)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.UserContext(), actorFromContext(c), payload); err != nil {
		return sendServiceError(c, h.logger, err, "failed to change password")
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) requestPasswordReset(c *fiber.Ctx) error {
	var payload dto.PasswordResetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.RequestPasswordReset(c.UserContext(), payload); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to issue password reset")
	}

	// Identical response whether or not the email exists.
	return utils.SendSuccess(c, "if the account exists, a reset link has been sent", nil)
}

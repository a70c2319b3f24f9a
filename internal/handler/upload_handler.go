package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// UploadHandler exposes avatar uploads.
type UploadHandler struct {
	service service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register attaches the upload routes to the router group.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/avatar", h.uploadAvatar)
}

func (h *UploadHandler) uploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	response, err := h.service.UploadAvatar(c.UserContext(), actorFromContext(c), file)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to store avatar")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "avatar updated", response)
}

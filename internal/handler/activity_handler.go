package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	"github.com/meskel-dev/bethel-admin-api/internal/utils"
)

// ActivityHandler exposes the audit feed: flat pages, day-grouped pages, a
// bare count and the live websocket stream.
type ActivityHandler struct {
	feed   service.ActivityFeedService
	stream service.ActivityStreamService
	logger zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(feed service.ActivityFeedService, stream service.ActivityStreamService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		feed:   feed,
		stream: stream,
		logger: logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity feed routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/grouped", h.grouped)
	router.Get("/count", h.count)
	router.Get("/stream", websocket.New(h.streamConnection))
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	req, err := h.listRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.feed.List(c.UserContext(), actorFromContext(c).Scope(), req)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list activity")
	}

	return utils.SendSuccess(c, "activity", response)
}

func (h *ActivityHandler) grouped(c *fiber.Ctx) error {
	req, err := h.listRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.feed.Grouped(c.UserContext(), actorFromContext(c).Scope(), req)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to group activity")
	}

	return utils.SendSuccess(c, "activity", response)
}

func (h *ActivityHandler) count(c *fiber.Ctx) error {
	req, err := h.listRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	total, err := h.feed.Count(c.UserContext(), actorFromContext(c).Scope(), req)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to count activity")
	}

	return utils.SendSuccess(c, "activity count", fiber.Map{"total": total})
}

// streamConnection runs inside the websocket upgrade; the actor's scope was
// captured by the auth middleware before the upgrade.
func (h *ActivityHandler) streamConnection(conn *websocket.Conn) {
	scope, ok := conn.Locals("stream_scope").(repository.Scope)
	if !ok {
		_ = conn.Close()
		return
	}
	h.stream.ServeConnection(conn, scope)
}

// StashStreamScope copies the actor's scope into locals ahead of the
// websocket upgrade, which discards the fiber context.
func StashStreamScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals("stream_scope", actorFromContext(c).Scope())
		return c.Next()
	}
}

func (h *ActivityHandler) listRequest(c *fiber.Ctx) (dto.ActivityListRequest, error) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return dto.ActivityListRequest{}, err
	}

	tzOffset, err := parseQueryInt(c, "tz_offset")
	if err != nil {
		return dto.ActivityListRequest{}, err
	}

	return dto.ActivityListRequest{
		Page:            page,
		PageSize:        pageSize,
		Action:          c.Query("action"),
		EntityType:      c.Query("entity_type"),
		Search:          c.Query("search"),
		TZOffsetMinutes: tzOffset,
	}, nil
}

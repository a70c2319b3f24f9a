package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
)

type stubFeedService struct {
	lastScope repository.Scope
	lastReq   dto.ActivityListRequest
}

func (s *stubFeedService) List(_ context.Context, scope repository.Scope, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	s.lastScope = scope
	s.lastReq = req
	return dto.ActivityListResponse{
		Items:      []dto.ActivityEventResponse{{ID: 1, Action: "create", Details: "Added member Ruth"}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 20, TotalItems: 1, TotalPages: 1},
	}, nil
}

func (s *stubFeedService) Grouped(_ context.Context, scope repository.Scope, req dto.ActivityListRequest) (dto.ActivityGroupedResponse, error) {
	s.lastScope = scope
	s.lastReq = req
	return dto.ActivityGroupedResponse{}, nil
}

func (s *stubFeedService) Count(_ context.Context, scope repository.Scope, req dto.ActivityListRequest) (int64, error) {
	s.lastScope = scope
	s.lastReq = req
	return 1, nil
}

func activityTestApp(feed service.ActivityFeedService, actor service.Actor) *fiber.App {
	app := fiber.New()
	group := app.Group("/activities", func(c *fiber.Ctx) error {
		c.Locals("actor", actor)
		return c.Next()
	})
	NewActivityHandler(feed, nil, zerolog.Nop()).Register(group)
	return app
}

func TestActivityListPassesScopeAndFilters(t *testing.T) {
	feed := &stubFeedService{}
	church := uint(7)
	actor := service.Actor{ID: 3, Role: models.RolePastor, ChurchID: &church}
	app := activityTestApp(feed, actor)

	req := httptest.NewRequest(http.MethodGet, "/activities?page=2&page_size=10&action=create&search=ruth&tz_offset=-180", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, models.RolePastor, feed.lastScope.Role)
	require.Equal(t, uint(7), *feed.lastScope.ChurchID)
	require.Equal(t, 2, feed.lastReq.Page)
	require.Equal(t, "create", feed.lastReq.Action)
	require.Equal(t, "ruth", feed.lastReq.Search)
	require.Equal(t, -180, feed.lastReq.TZOffsetMinutes)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Items []dto.ActivityEventResponse `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data.Items, 1)
}

func TestActivityListRejectsBadPage(t *testing.T) {
	app := activityTestApp(&stubFeedService{}, service.Actor{ID: 1, Role: models.RoleSuperAdmin})

	req := httptest.NewRequest(http.MethodGet, "/activities?page=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestActivityCountReturnsTotal(t *testing.T) {
	app := activityTestApp(&stubFeedService{}, service.Actor{ID: 1, Role: models.RoleSuperAdmin})

	req := httptest.NewRequest(http.MethodGet, "/activities/count", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

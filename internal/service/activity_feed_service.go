package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/observability"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

// feedCacheKeyPrefix namespaces all cached feed pages so the stream can drop
// them in one sweep when a new event lands.
const feedCacheKeyPrefix = "activity:feed:v1:"

// ActivityFeedService serves the role-scoped audit feed: flat pages for the
// table view and day-grouped pages for the dashboard timeline.
type ActivityFeedService interface {
	List(ctx context.Context, scope repository.Scope, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Grouped(ctx context.Context, scope repository.Scope, req dto.ActivityListRequest) (dto.ActivityGroupedResponse, error)
	Count(ctx context.Context, scope repository.Scope, req dto.ActivityListRequest) (int64, error)
}

type activityFeedService struct {
	repo   repository.ActivityLogRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewActivityFeedService builds the feed service. The redis client may be nil
// to disable response caching.
func NewActivityFeedService(repo repository.ActivityLogRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ActivityFeedService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &activityFeedService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "activity_feed_service").Logger(),
	}
}

func (s *activityFeedService) List(ctx context.Context, scope repository.Scope, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	start := time.Now()
	defer func() {
		observability.FeedLatency().Observe(time.Since(start).Seconds())
	}()

	filter := s.filter(scope, req)

	cacheKey := s.cacheKey(filter)
	if cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.ActivityListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				observability.FeedRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		observability.FeedRequests().WithLabelValues("error").Inc()
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityEventResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityEventResponse(entry))
	}

	response := dto.ActivityListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write activity feed cache")
			}
		}
	}

	observability.FeedRequests().WithLabelValues("miss").Inc()
	return response, nil
}

func (s *activityFeedService) Grouped(ctx context.Context, scope repository.Scope, req dto.ActivityListRequest) (dto.ActivityGroupedResponse, error) {
	flat, err := s.List(ctx, scope, req)
	if err != nil {
		return dto.ActivityGroupedResponse{}, err
	}

	// Bucket by calendar day in the viewer's timezone. Events arrive newest
	// first, so buckets and their contents stay in descending order.
	location := time.FixedZone("viewer", -req.TZOffsetMinutes*60)
	groups := make([]dto.ActivityDayGroup, 0)
	index := make(map[string]int)
	for _, event := range flat.Items {
		day := event.CreatedAt.In(location).Format("2006-01-02")
		at, ok := index[day]
		if !ok {
			groups = append(groups, dto.ActivityDayGroup{Date: day})
			at = len(groups) - 1
			index[day] = at
		}
		groups[at].Events = append(groups[at].Events, event)
	}

	return dto.ActivityGroupedResponse{Groups: groups, Pagination: flat.Pagination}, nil
}

// Count returns just the filtered total. Live-update clients off page one use
// it to keep pagination controls accurate without re-fetching rows.
func (s *activityFeedService) Count(ctx context.Context, scope repository.Scope, req dto.ActivityListRequest) (int64, error) {
	return s.repo.Count(ctx, s.filter(scope, req))
}

func (s *activityFeedService) filter(scope repository.Scope, req dto.ActivityListRequest) repository.ActivityLogFilter {
	return repository.ActivityLogFilter{
		Scope:      scope,
		Action:     strings.ToLower(strings.TrimSpace(req.Action)),
		EntityType: strings.ToLower(strings.TrimSpace(req.EntityType)),
		Search:     strings.TrimSpace(req.Search),
		Page:       maxInt(req.Page, 1),
		PageSize:   clampPageSize(req.PageSize),
	}
}

func (s *activityFeedService) cacheKey(filter repository.ActivityLogFilter) string {
	if s.cache == nil {
		return ""
	}
	church := uint(0)
	if filter.Scope.ChurchID != nil {
		church = *filter.Scope.ChurchID
	}
	return fmt.Sprintf("%s%s:%d:%d:%s|%s|%s:%d:%d",
		feedCacheKeyPrefix, filter.Scope.Role, church, filter.Scope.ActorID,
		filter.Action, filter.EntityType, strings.ToLower(filter.Search),
		filter.Page, filter.PageSize)
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}

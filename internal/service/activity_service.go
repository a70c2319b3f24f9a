package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/observability"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

// ActivityEntry captures everything needed to persist one audit event.
type ActivityEntry struct {
	ActorID    uint
	Action     audit.ActionType
	EntityType audit.EntityType
	EntityID   *uint
	Details    string
	Changes    map[string]any
}

// ActivityRecorder appends audit events. Recording is best effort: it never
// returns an error, never blocks the business mutation it accompanies, and a
// failed insert means a silently lost event, not a rolled-back mutation.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// FeedPublisher fans a freshly recorded event out to live feed subscribers.
type FeedPublisher interface {
	Publish(ctx context.Context, event dto.ActivityStreamEvent)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	profiles  repository.ProfileRepository
	publisher FeedPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewActivityRecorder constructs the audit recorder. The publisher may be nil
// when no live feed is wired (tests, one-off tools).
func NewActivityRecorder(repo repository.ActivityLogRepository, profiles repository.ProfileRepository, publisher FeedPublisher, logger zerolog.Logger) ActivityRecorder {
	return &activityService{
		repo:      repo,
		profiles:  profiles,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "activity_recorder").Logger(),
		tracer:    otel.Tracer("github.com/meskel-dev/bethel-admin-api/internal/service/activity"),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	spanCtx, span := s.tracer.Start(ctx, "activity.record", trace.WithAttributes(
		attribute.String("activity.action", string(entry.Action)),
		attribute.String("activity.entity_type", string(entry.EntityType)),
	))
	defer span.End()

	if entry.ActorID == 0 {
		s.logger.Warn().
			Str("action", string(entry.Action)).
			Str("entity_type", string(entry.EntityType)).
			Msg("activity entry without resolvable actor dropped")
		observability.ActivityEventsDropped().WithLabelValues("no_actor").Inc()
		return
	}

	details := strings.TrimSpace(s.sanitizer.Sanitize(entry.Details))
	actorID := entry.ActorID

	model := models.ActivityLog{
		ActorID:    &actorID,
		Action:     string(audit.ParseAction(string(entry.Action))),
		EntityType: string(audit.ParseEntity(string(entry.EntityType))),
		EntityID:   entry.EntityID,
		Details:    details,
		Changes:    datatypes.JSONMap(audit.Redact(entry.Changes)),
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).
			Str("action", model.Action).
			Str("entity_type", model.EntityType).
			Msg("failed to persist activity event, dropping")
		observability.ActivityEventsDropped().WithLabelValues("storage").Inc()
		return
	}

	observability.ActivityEventsRecorded().WithLabelValues(model.Action).Inc()

	if s.publisher != nil {
		s.publisher.Publish(spanCtx, dto.ActivityStreamEvent{
			Event:         dto.NewActivityEventResponse(model),
			ActorChurchID: s.actorChurch(spanCtx, actorID),
		})
	}
}

// actorChurch resolves the actor's church for scope matching in the stream
// fan-out. Resolution failure degrades to nil: pastors simply won't get the
// hint, and their next full fetch reconciles.
func (s *activityService) actorChurch(ctx context.Context, actorID uint) *uint {
	if s.profiles == nil {
		return nil
	}
	profile, err := s.profiles.GetByID(ctx, actorID)
	if err != nil {
		s.logger.Debug().Err(err).Uint("actor_id", actorID).Msg("could not resolve actor church for stream event")
		return nil
	}
	return profile.ChurchID
}

package dto

import (
	"time"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// ActivityListRequest defines filters for the activity feed. All filters
// compose with the caller's role scope; none of them can widen it.
type ActivityListRequest struct {
	Page            int
	PageSize        int
	Action          string
	EntityType      string
	Search          string
	TZOffsetMinutes int
}

// ActivityEventResponse serialises one audit event, with display metadata
// resolved from the taxonomy and the changes payload tagged by shape so
// renderers can branch explicitly.
type ActivityEventResponse struct {
	ID          uint           `json:"id"`
	ActorID     *uint          `json:"actor_id"`
	Action      string         `json:"action"`
	ActionLabel string         `json:"action_label"`
	ActionColor string         `json:"action_color"`
	EntityType  string         `json:"entity_type"`
	EntityLabel string         `json:"entity_label"`
	EntityID    *uint          `json:"entity_id,omitempty"`
	Details     string         `json:"details"`
	Changes     map[string]any `json:"changes,omitempty"`
	ChangeShape string         `json:"change_shape,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ActivityListResponse wraps a paginated flat event list.
type ActivityListResponse struct {
	Items      []ActivityEventResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

// ActivityDayGroup buckets events by calendar day in the viewer's timezone.
type ActivityDayGroup struct {
	Date   string                  `json:"date"`
	Events []ActivityEventResponse `json:"events"`
}

// ActivityGroupedResponse wraps the day-grouped feed used by the dashboard.
type ActivityGroupedResponse struct {
	Groups     []ActivityDayGroup `json:"groups"`
	Pagination PaginationMeta     `json:"pagination"`
}

// ActivityStreamEvent is the envelope fanned out to live feed subscribers.
// Subscribers treat it as a re-fetch hint, not as feed content.
type ActivityStreamEvent struct {
	Event         ActivityEventResponse `json:"event"`
	ActorChurchID *uint                 `json:"actor_church_id,omitempty"`
}

// NewActivityEventResponse converts an activity row into a DTO, redacting
// password material from the changes payload.
func NewActivityEventResponse(entry models.ActivityLog) ActivityEventResponse {
	action := audit.ActionType(entry.Action)
	entity := audit.EntityType(entry.EntityType)

	response := ActivityEventResponse{
		ID:          entry.ID,
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		ActionLabel: audit.ActionLabel(action),
		ActionColor: audit.ActionColor(action),
		EntityType:  entry.EntityType,
		EntityLabel: audit.EntityLabel(entity),
		EntityID:    entry.EntityID,
		Details:     entry.Details,
		CreatedAt:   entry.CreatedAt,
	}

	if len(entry.Changes) > 0 {
		changes := audit.Redact(map[string]any(entry.Changes))
		response.Changes = changes
		response.ChangeShape = audit.Classify(changes).String()
	}

	return response
}

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// ActivityLogFilter narrows activity log queries. Scope is mandatory; the
// remaining filters compose with it via AND.
type ActivityLogFilter struct {
	Scope      Scope
	Action     string
	EntityType string
	Search     string
	Page       int
	PageSize   int
}

// ActivityLogRepository persists the append-only audit trail. There is no
// update or delete: events are immutable once written.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
	Count(ctx context.Context, filter ActivityLogFilter) (int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	query := r.filtered(ctx, filter)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.ActivityLog
	if err := query.Order("activity_logs.created_at DESC, activity_logs.id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *activityLogRepository) Count(ctx context.Context, filter ActivityLogFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *activityLogRepository) filtered(ctx context.Context, filter ActivityLogFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	query = filter.Scope.actorScoped(query)

	if filter.Action != "" {
		query = query.Where("activity_logs.action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("activity_logs.entity_type = ?", filter.EntityType)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(activity_logs.details) LIKE ?", pattern)
	}

	return query
}

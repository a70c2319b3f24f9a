package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// ChurchFilter narrows church listings.
type ChurchFilter struct {
	Scope    Scope
	Search   string
	Page     int
	PageSize int
}

// ChurchRepository persists branches of the organisation.
type ChurchRepository interface {
	Create(ctx context.Context, church *models.Church) error
	GetByID(ctx context.Context, id uint) (models.Church, error)
	Update(ctx context.Context, id uint, updates map[string]any) (models.Church, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ChurchFilter) ([]models.Church, int64, error)
}

type churchRepository struct {
	db *gorm.DB
}

// NewChurchRepository constructs the church repository.
func NewChurchRepository(db *gorm.DB) ChurchRepository {
	return &churchRepository{db: db}
}

func (r *churchRepository) Create(ctx context.Context, church *models.Church) error {
	return r.db.WithContext(ctx).Create(church).Error
}

func (r *churchRepository) GetByID(ctx context.Context, id uint) (models.Church, error) {
	var church models.Church
	err := r.db.WithContext(ctx).First(&church, id).Error
	return church, err
}

func (r *churchRepository) Update(ctx context.Context, id uint, updates map[string]any) (models.Church, error) {
	var church models.Church
	if err := r.db.WithContext(ctx).First(&church, id).Error; err != nil {
		return models.Church{}, err
	}
	if err := r.db.WithContext(ctx).Model(&church).Updates(updates).Error; err != nil {
		return models.Church{}, err
	}
	if err := r.db.WithContext(ctx).First(&church, id).Error; err != nil {
		return models.Church{}, err
	}
	return church, nil
}

func (r *churchRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Church{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *churchRepository) List(ctx context.Context, filter ChurchFilter) ([]models.Church, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Church{})
	query = filter.Scope.churchScoped(query, "churches.id")

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(churches.name) LIKE ? OR LOWER(churches.address) LIKE ?", pattern, pattern)
	}

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

	var churches []models.Church
	if err := query.Order("churches.name ASC").Find(&churches).Error; err != nil {
		return nil, 0, err
	}

	return churches, total, nil
}

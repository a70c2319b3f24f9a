package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// ProfileFilter narrows profile listings.
type ProfileFilter struct {
	Scope    Scope
	Role     models.Role
	Search   string
	Page     int
	PageSize int
}

// ProfileRepository persists login-capable identities.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile, departmentIDs []uint) error
	GetByID(ctx context.Context, id uint) (models.Profile, error)
	GetByEmail(ctx context.Context, email string) (models.Profile, error)
	Update(ctx context.Context, id uint, updates map[string]any) (models.Profile, error)
	List(ctx context.Context, filter ProfileFilter) ([]models.Profile, int64, error)
	DepartmentIDs(ctx context.Context, profileID uint) ([]uint, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs the profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts the profile and its department join rows atomically. This is
// the elevated user-creation path: the only place new login identities appear.
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile, departmentIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		for _, departmentID := range departmentIDs {
			join := models.ProfileDepartment{ProfileID: profile.ID, DepartmentID: departmentID}
			if err := tx.Create(&join).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	return profile, err
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error
	return profile, err
}

func (r *profileRepository) Update(ctx context.Context, id uint, updates map[string]any) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return models.Profile{}, err
	}
	if err := r.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		return models.Profile{}, err
	}
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter) ([]models.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})
	query = filter.Scope.churchScoped(query, "profiles.church_id")

	if filter.Role != "" {
		query = query.Where("profiles.role = ?", filter.Role)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(profiles.full_name) LIKE ? OR LOWER(profiles.email) LIKE ?", pattern, pattern)
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

	var profiles []models.Profile
	if err := query.Order("profiles.created_at DESC, profiles.id DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) DepartmentIDs(ctx context.Context, profileID uint) ([]uint, error) {
	var joins []models.ProfileDepartment
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).Find(&joins).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(joins))
	for _, join := range joins {
		ids = append(ids, join.DepartmentID)
	}
	return ids, nil
}

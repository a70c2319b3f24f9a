package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// MemberFilter narrows member listings.
type MemberFilter struct {
	Scope        Scope
	DepartmentID *uint
	Search       string
	Page         int
	PageSize     int
}

// MemberRepository persists congregation members.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (models.Member, error)
	Update(ctx context.Context, id uint, updates map[string]any) (models.Member, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository constructs the member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).First(&member, id).Error
	return member, err
}

func (r *memberRepository) Update(ctx context.Context, id uint, updates map[string]any) (models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return models.Member{}, err
	}
	if err := r.db.WithContext(ctx).Model(&member).Updates(updates).Error; err != nil {
		return models.Member{}, err
	}
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return models.Member{}, err
	}
	return member, nil
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Member{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepository) List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Member{})
	query = filter.Scope.churchScoped(query, "members.church_id")

	// Servants are additionally narrowed to their own department when they
	// have one; a servant without a department sees no members.
	if filter.Scope.Role == models.RoleServant {
		if filter.Scope.DepartmentID == nil || *filter.Scope.DepartmentID == 0 {
			query = query.Where("1 = 0")
		} else {
			query = query.Where("members.department_id = ?", *filter.Scope.DepartmentID)
		}
	}

	if filter.DepartmentID != nil && *filter.DepartmentID > 0 {
		query = query.Where("members.department_id = ?", *filter.DepartmentID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(members.full_name) LIKE ? OR members.phone LIKE ?", pattern, pattern)
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

	var members []models.Member
	if err := query.Order("members.created_at DESC, members.id DESC").Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

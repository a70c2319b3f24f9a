package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// DepartmentFilter narrows department listings.
type DepartmentFilter struct {
	Scope    Scope
	ChurchID *uint
	Search   string
	Page     int
	PageSize int
}

// DepartmentRepository persists departments within churches.
type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id uint) (models.Department, error)
	Update(ctx context.Context, id uint, updates map[string]any) (models.Department, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter DepartmentFilter) ([]models.Department, int64, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository constructs the department repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) GetByID(ctx context.Context, id uint) (models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).First(&department, id).Error
	return department, err
}

func (r *departmentRepository) Update(ctx context.Context, id uint, updates map[string]any) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return models.Department{}, err
	}
	if err := r.db.WithContext(ctx).Model(&department).Updates(updates).Error; err != nil {
		return models.Department{}, err
	}
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return models.Department{}, err
	}
	return department, nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("department_id = ?", id).Delete(&models.ProfileDepartment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Department{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *departmentRepository) List(ctx context.Context, filter DepartmentFilter) ([]models.Department, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Department{})
	query = filter.Scope.churchScoped(query, "departments.church_id")

	if filter.ChurchID != nil && *filter.ChurchID > 0 {
		query = query.Where("departments.church_id = ?", *filter.ChurchID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(departments.name) LIKE ?", pattern)
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

	var departments []models.Department
	if err := query.Order("departments.name ASC").Find(&departments).Error; err != nil {
		return nil, 0, err
	}

	return departments, total, nil
}

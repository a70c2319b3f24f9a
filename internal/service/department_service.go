package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

// ErrDepartmentNotFound indicates the department does not exist.
var ErrDepartmentNotFound = errors.New("department not found")

// DepartmentService manages departments within churches.
type DepartmentService interface {
	Create(ctx context.Context, actor Actor, req dto.DepartmentCreateRequest) (dto.DepartmentResponse, error)
	Get(ctx context.Context, id uint) (dto.DepartmentResponse, error)
	List(ctx context.Context, actor Actor, req dto.DepartmentListRequest) (dto.DepartmentListResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type departmentService struct {
	repo      repository.DepartmentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(repo repository.DepartmentRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) DepartmentService {
	return &departmentService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "department_service").Logger(),
	}
}

func (s *departmentService) Create(ctx context.Context, actor Actor, req dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.DepartmentResponse{}, err
	}

	if err := requireSameChurch(actor, req.ChurchID); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{
		ChurchID:    req.ChurchID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, &department); err != nil {
		return dto.DepartmentResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityDepartment,
		EntityID:   &department.ID,
		Details:    fmt.Sprintf("Created department %s", department.Name),
		Changes: map[string]any{
			"old": map[string]any{},
			"new": map[string]any{"name": department.Name, "church_id": department.ChurchID},
		},
	})

	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Get(ctx context.Context, id uint) (dto.DepartmentResponse, error) {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}
	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) List(ctx context.Context, actor Actor, req dto.DepartmentListRequest) (dto.DepartmentListResponse, error) {
	filter := repository.DepartmentFilter{
		Scope:    actor.Scope(),
		ChurchID: req.ChurchID,
		Search:   strings.TrimSpace(req.Search),
		Page:     maxInt(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.DepartmentListResponse{}, err
	}

	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		items = append(items, dto.NewDepartmentResponse(department))
	}

	return dto.DepartmentListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *departmentService) Update(ctx context.Context, actor Actor, id uint, req dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}

	if err := requireSameChurch(actor, department.ChurchID); err != nil {
		return dto.DepartmentResponse{}, err
	}

	before := map[string]any{"name": department.Name, "description": department.Description}
	after := map[string]any{"name": department.Name, "description": department.Description}
	if req.Name != nil {
		after["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		after["description"] = strings.TrimSpace(*req.Description)
	}

	diff := audit.Compute(before, after)
	if diff == nil {
		return dto.DepartmentResponse{}, ErrNoChanges
	}

	updated, err := s.repo.Update(ctx, id, diff.New)
	if err != nil {
		return dto.DepartmentResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntityDepartment,
		EntityID:   &updated.ID,
		Details:    fmt.Sprintf("Updated department %s", updated.Name),
		Changes:    diff.Changes(),
	})

	return dto.NewDepartmentResponse(updated), nil
}

func (s *departmentService) Delete(ctx context.Context, actor Actor, id uint) error {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	if err := requireSameChurch(actor, department.ChurchID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionDelete,
		EntityType: audit.EntityDepartment,
		EntityID:   &id,
		Details:    fmt.Sprintf("Deleted department %s", department.Name),
	})

	return nil
}

// requireSameChurch lets super admins through and pins everyone else to
// their own church.
func requireSameChurch(actor Actor, churchID uint) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.ChurchID == nil || *actor.ChurchID != churchID {
		return ErrForbidden
	}
	return nil
}

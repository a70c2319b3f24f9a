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

// ErrChurchNotFound indicates the branch does not exist.
var ErrChurchNotFound = errors.New("church not found")

// ChurchService manages branches.
type ChurchService interface {
	Create(ctx context.Context, actor Actor, req dto.ChurchCreateRequest) (dto.ChurchResponse, error)
	Get(ctx context.Context, id uint) (dto.ChurchResponse, error)
	List(ctx context.Context, actor Actor, req dto.ChurchListRequest) (dto.ChurchListResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.ChurchUpdateRequest) (dto.ChurchResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type churchService struct {
	repo      repository.ChurchRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewChurchService constructs the church service.
func NewChurchService(repo repository.ChurchRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ChurchService {
	return &churchService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "church_service").Logger(),
	}
}

func (s *churchService) Create(ctx context.Context, actor Actor, req dto.ChurchCreateRequest) (dto.ChurchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ChurchResponse{}, err
	}

	church := models.Church{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.repo.Create(ctx, &church); err != nil {
		return dto.ChurchResponse{}, err
	}

	changes := map[string]any{"name": church.Name}
	if church.Address != "" {
		changes["address"] = church.Address
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityChurch,
		EntityID:   &church.ID,
		Details:    fmt.Sprintf("Created church %s", church.Name),
		Changes:    map[string]any{"new": changes, "old": map[string]any{}},
	})

	return dto.NewChurchResponse(church), nil
}

func (s *churchService) Get(ctx context.Context, id uint) (dto.ChurchResponse, error) {
	church, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChurchResponse{}, ErrChurchNotFound
		}
		return dto.ChurchResponse{}, err
	}
	return dto.NewChurchResponse(church), nil
}

func (s *churchService) List(ctx context.Context, actor Actor, req dto.ChurchListRequest) (dto.ChurchListResponse, error) {
	filter := repository.ChurchFilter{
		Scope:    actor.Scope(),
		Search:   strings.TrimSpace(req.Search),
		Page:     maxInt(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	churches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ChurchListResponse{}, err
	}

	items := make([]dto.ChurchResponse, 0, len(churches))
	for _, church := range churches {
		items = append(items, dto.NewChurchResponse(church))
	}

	return dto.ChurchListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *churchService) Update(ctx context.Context, actor Actor, id uint, req dto.ChurchUpdateRequest) (dto.ChurchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ChurchResponse{}, err
	}

	church, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChurchResponse{}, ErrChurchNotFound
		}
		return dto.ChurchResponse{}, err
	}

	before := churchSnapshot(church)
	after := churchSnapshot(church)
	if req.Name != nil {
		after["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		after["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Latitude != nil {
		after["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		after["longitude"] = *req.Longitude
	}

	diff := audit.Compute(before, after)
	if diff == nil {
		return dto.ChurchResponse{}, ErrNoChanges
	}

	updated, err := s.repo.Update(ctx, id, diff.New)
	if err != nil {
		return dto.ChurchResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntityChurch,
		EntityID:   &updated.ID,
		Details:    fmt.Sprintf("Updated church %s", updated.Name),
		Changes:    diff.Changes(),
	})

	return dto.NewChurchResponse(updated), nil
}

func (s *churchService) Delete(ctx context.Context, actor Actor, id uint) error {
	church, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChurchNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChurchNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionDelete,
		EntityType: audit.EntityChurch,
		EntityID:   &id,
		Details:    fmt.Sprintf("Deleted church %s", church.Name),
		Changes:    map[string]any{"old": churchSnapshot(church), "new": map[string]any{}},
	})

	return nil
}

func churchSnapshot(church models.Church) map[string]any {
	snapshot := map[string]any{
		"name":    church.Name,
		"address": church.Address,
	}
	if church.Latitude != nil {
		snapshot["latitude"] = *church.Latitude
	} else {
		snapshot["latitude"] = nil
	}
	if church.Longitude != nil {
		snapshot["longitude"] = *church.Longitude
	} else {
		snapshot["longitude"] = nil
	}
	return snapshot
}

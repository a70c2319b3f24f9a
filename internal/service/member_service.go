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

// ErrMemberNotFound indicates the member does not exist.
var ErrMemberNotFound = errors.New("member not found")

// MemberService manages congregation members.
type MemberService interface {
	Create(ctx context.Context, actor Actor, req dto.MemberCreateRequest) (dto.MemberResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.MemberResponse, error)
	List(ctx context.Context, actor Actor, req dto.MemberListRequest) (dto.MemberListResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.MemberUpdateRequest) (dto.MemberResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type memberService struct {
	repo      repository.MemberRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewMemberService constructs the member service.
func NewMemberService(repo repository.MemberRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) MemberService {
	return &memberService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "member_service").Logger(),
	}
}

func (s *memberService) Create(ctx context.Context, actor Actor, req dto.MemberCreateRequest) (dto.MemberResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MemberResponse{}, err
	}

	if err := requireSameChurch(actor, req.ChurchID); err != nil {
		return dto.MemberResponse{}, err
	}

	member := models.Member{
		ChurchID:     req.ChurchID,
		DepartmentID: req.DepartmentID,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Gender:       strings.ToLower(strings.TrimSpace(req.Gender)),
	}
	if err := s.repo.Create(ctx, &member); err != nil {
		return dto.MemberResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityMember,
		EntityID:   &member.ID,
		Details:    fmt.Sprintf("Registered member %s", member.FullName),
		Changes: map[string]any{
			"old": map[string]any{},
			"new": map[string]any{"full_name": member.FullName, "church_id": member.ChurchID},
		},
	})

	return dto.NewMemberResponse(member), nil
}

func (s *memberService) Get(ctx context.Context, actor Actor, id uint) (dto.MemberResponse, error) {
	member, err := s.visibleMember(ctx, actor, id)
	if err != nil {
		return dto.MemberResponse{}, err
	}
	return dto.NewMemberResponse(member), nil
}

func (s *memberService) List(ctx context.Context, actor Actor, req dto.MemberListRequest) (dto.MemberListResponse, error) {
	filter := repository.MemberFilter{
		Scope:        actor.Scope(),
		DepartmentID: req.DepartmentID,
		Search:       strings.TrimSpace(req.Search),
		Page:         maxInt(req.Page, 1),
		PageSize:     clampPageSize(req.PageSize),
	}

	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.MemberListResponse{}, err
	}

	items := make([]dto.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, dto.NewMemberResponse(member))
	}

	return dto.MemberListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *memberService) Update(ctx context.Context, actor Actor, id uint, req dto.MemberUpdateRequest) (dto.MemberResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MemberResponse{}, err
	}

	member, err := s.visibleMember(ctx, actor, id)
	if err != nil {
		return dto.MemberResponse{}, err
	}

	before := memberSnapshot(member)
	after := memberSnapshot(member)
	if req.FullName != nil {
		after["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		after["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Gender != nil {
		after["gender"] = strings.ToLower(strings.TrimSpace(*req.Gender))
	}
	if req.DepartmentID != nil {
		after["department_id"] = *req.DepartmentID
	}

	diff := audit.Compute(before, after)
	if diff == nil {
		return dto.MemberResponse{}, ErrNoChanges
	}

	updated, err := s.repo.Update(ctx, id, diff.New)
	if err != nil {
		return dto.MemberResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntityMember,
		EntityID:   &updated.ID,
		Details:    fmt.Sprintf("Updated member %s", updated.FullName),
		Changes:    diff.Changes(),
	})

	return dto.NewMemberResponse(updated), nil
}

func (s *memberService) Delete(ctx context.Context, actor Actor, id uint) error {
	member, err := s.visibleMember(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionDelete,
		EntityType: audit.EntityMember,
		EntityID:   &id,
		Details:    fmt.Sprintf("Removed member %s", member.FullName),
		Changes:    map[string]any{"old": memberSnapshot(member), "new": map[string]any{}},
	})

	return nil
}

func (s *memberService) visibleMember(ctx context.Context, actor Actor, id uint) (models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Member{}, ErrMemberNotFound
		}
		return models.Member{}, err
	}
	if err := requireSameChurch(actor, member.ChurchID); err != nil {
		return models.Member{}, err
	}

	// Servants see only their own department, the same narrowing the list
	// query applies; a servant without a department reaches nothing.
	if actor.Role == models.RoleServant {
		if actor.DepartmentID == nil || *actor.DepartmentID == 0 {
			return models.Member{}, ErrForbidden
		}
		if member.DepartmentID == nil || *member.DepartmentID != *actor.DepartmentID {
			return models.Member{}, ErrForbidden
		}
	}

	return member, nil
}

func memberSnapshot(member models.Member) map[string]any {
	snapshot := map[string]any{
		"full_name": member.FullName,
		"phone":     member.Phone,
		"gender":    member.Gender,
	}
	if member.DepartmentID != nil {
		snapshot["department_id"] = *member.DepartmentID
	} else {
		snapshot["department_id"] = nil
	}
	return snapshot
}

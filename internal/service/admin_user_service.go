package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

// ErrEmailTaken indicates the email already belongs to a profile.
var ErrEmailTaken = errors.New("email already registered")

// AdminUserService is the elevated user-management path: the only place new
// login-capable identities are created, plus block/unblock, role changes and
// profile edits.
type AdminUserService interface {
	Create(ctx context.Context, actor Actor, req dto.AdminUserCreateRequest) (dto.ProfileResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.ProfileResponse, error)
	List(ctx context.Context, actor Actor, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.AdminUserUpdateRequest) (dto.ProfileResponse, error)
	SetBlocked(ctx context.Context, actor Actor, id uint, blocked bool) (dto.ProfileResponse, error)
	ChangeRole(ctx context.Context, actor Actor, id uint, req dto.AdminUserRoleChangeRequest) (dto.ProfileResponse, error)
}

type adminUserService struct {
	profiles  repository.ProfileRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewAdminUserService constructs the user management service.
func NewAdminUserService(profiles repository.ProfileRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		profiles:  profiles,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "admin_user_service").Logger(),
	}
}

func (s *adminUserService) Create(ctx context.Context, actor Actor, req dto.AdminUserCreateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	role := models.ParseRole(req.Role)
	if !role.Valid() {
		return dto.ProfileResponse{}, fmt.Errorf("unknown role %q", req.Role)
	}

	// Pastors may only mint servants inside their own church. Everything
	// wider is the super admin's prerogative.
	if actor.Role == models.RolePastor {
		if role != models.RoleServant {
			return dto.ProfileResponse{}, ErrForbidden
		}
		if actor.ChurchID == nil || req.ChurchID == nil || *req.ChurchID != *actor.ChurchID {
			return dto.ProfileResponse{}, ErrForbidden
		}
	}

	if role != models.RoleSuperAdmin && (req.ChurchID == nil || *req.ChurchID == 0) {
		return dto.ProfileResponse{}, fmt.Errorf("church is required for role %s", role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return dto.ProfileResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProfileResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	profile := models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		ChurchID:     req.ChurchID,
		DepartmentID: req.DepartmentID,
	}
	if role == models.RoleSuperAdmin {
		profile.ChurchID = nil
	}

	if err := s.profiles.Create(ctx, &profile, req.DepartmentIDs); err != nil {
		return dto.ProfileResponse{}, err
	}

	changes := map[string]any{
		"email":     profile.Email,
		"full_name": profile.FullName,
		"role":      profile.Role.String(),
	}
	if profile.ChurchID != nil {
		changes["church_id"] = *profile.ChurchID
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityUser,
		EntityID:   &profile.ID,
		Details:    fmt.Sprintf("Created %s account for %s", profile.Role, profile.FullName),
		Changes:    changes,
	})

	return dto.NewProfileResponse(profile), nil
}

func (s *adminUserService) Get(ctx context.Context, actor Actor, id uint) (dto.ProfileResponse, error) {
	target, err := s.managedTarget(ctx, actor, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	response := dto.NewProfileResponse(target)
	if ids, err := s.profiles.DepartmentIDs(ctx, target.ID); err == nil {
		response.DepartmentIDs = ids
	}
	return response, nil
}

func (s *adminUserService) List(ctx context.Context, actor Actor, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error) {
	filter := repository.ProfileFilter{
		Scope:    actor.Scope(),
		Role:     models.ParseRole(req.Role),
		Search:   strings.TrimSpace(req.Search),
		Page:     maxInt(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}
	if req.Role == "" {
		filter.Role = ""
	}

	profiles, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		return dto.AdminUserListResponse{}, err
	}

	items := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, dto.NewProfileResponse(profile))
	}

	return dto.AdminUserListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *adminUserService) Update(ctx context.Context, actor Actor, id uint, req dto.AdminUserUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	target, err := s.managedTarget(ctx, actor, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	before := profileSnapshot(target)
	after := profileSnapshot(target)
	if req.FullName != nil {
		after["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		after["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.ChurchID != nil {
		after["church_id"] = *req.ChurchID
	}
	if req.DepartmentID != nil {
		after["department_id"] = *req.DepartmentID
	}

	diff := audit.Compute(before, after)
	if diff == nil {
		return dto.ProfileResponse{}, ErrNoChanges
	}

	updated, err := s.profiles.Update(ctx, id, diff.New)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionUpdate,
		EntityType: entityForRole(updated.Role),
		EntityID:   &updated.ID,
		Details:    fmt.Sprintf("Updated profile of %s", updated.FullName),
		Changes:    diff.Changes(),
	})

	return dto.NewProfileResponse(updated), nil
}

func (s *adminUserService) SetBlocked(ctx context.Context, actor Actor, id uint, blocked bool) (dto.ProfileResponse, error) {
	target, err := s.managedTarget(ctx, actor, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	if target.IsBlocked == blocked {
		return dto.ProfileResponse{}, ErrNoChanges
	}

	updated, err := s.profiles.Update(ctx, id, map[string]any{"is_blocked": blocked})
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	action := audit.ActionBlock
	verb := "Blocked"
	if !blocked {
		action = audit.ActionUnblock
		verb = "Unblocked"
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: entityForRole(updated.Role),
		EntityID:   &updated.ID,
		Details:    fmt.Sprintf("%s %s", verb, updated.FullName),
		Changes: map[string]any{
			"is_blocked": map[string]any{"old": target.IsBlocked, "new": blocked},
		},
	})

	return dto.NewProfileResponse(updated), nil
}

func (s *adminUserService) ChangeRole(ctx context.Context, actor Actor, id uint, req dto.AdminUserRoleChangeRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	// Only super admins move people between tiers.
	if actor.Role != models.RoleSuperAdmin {
		return dto.ProfileResponse{}, ErrForbidden
	}

	target, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	newRole := models.ParseRole(req.Role)
	if target.Role == newRole {
		return dto.ProfileResponse{}, ErrNoChanges
	}

	updated, err := s.profiles.Update(ctx, id, map[string]any{"role": newRole})
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionRoleChange,
		EntityType: audit.EntityProfile,
		EntityID:   &updated.ID,
		Details:    fmt.Sprintf("Changed role of %s from %s to %s", updated.FullName, target.Role, newRole),
		Changes: map[string]any{
			"role": map[string]any{"old": target.Role.String(), "new": newRole.String()},
		},
	})

	return dto.NewProfileResponse(updated), nil
}

// managedTarget loads the target profile and checks the actor may manage it:
// super admins manage everyone, pastors manage servants of their own church.
func (s *adminUserService) managedTarget(ctx context.Context, actor Actor, id uint) (models.Profile, error) {
	target, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}

	switch actor.Role {
	case models.RoleSuperAdmin:
		return target, nil
	case models.RolePastor:
		if target.Role != models.RoleServant {
			return models.Profile{}, ErrForbidden
		}
		if actor.ChurchID == nil || target.ChurchID == nil || *actor.ChurchID != *target.ChurchID {
			return models.Profile{}, ErrForbidden
		}
		return target, nil
	default:
		return models.Profile{}, ErrForbidden
	}
}

func profileSnapshot(profile models.Profile) map[string]any {
	snapshot := map[string]any{
		"full_name": profile.FullName,
		"email":     profile.Email,
	}
	if profile.ChurchID != nil {
		snapshot["church_id"] = *profile.ChurchID
	} else {
		snapshot["church_id"] = nil
	}
	if profile.DepartmentID != nil {
		snapshot["department_id"] = *profile.DepartmentID
	} else {
		snapshot["department_id"] = nil
	}
	return snapshot
}

func entityForRole(role models.Role) audit.EntityType {
	switch role {
	case models.RolePastor:
		return audit.EntityPastor
	case models.RoleServant:
		return audit.EntityServant
	default:
		return audit.EntityProfile
	}
}

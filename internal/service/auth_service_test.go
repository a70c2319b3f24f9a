package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

func TestLoginSuccessRecordsOneEvent(t *testing.T) {
	db := newTestDB(t)
	church := seedChurch(t, db, "Addis Branch")
	profile := seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, &church.ID)

	stub := &recorderStub{}
	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), stub, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "pastor@bethel.org", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Equal(t, profile.ID, response.Profile.ID)

	require.Len(t, stub.entries, 1)
	require.Equal(t, "login", string(stub.entries[0].Action))
	require.Equal(t, profile.ID, stub.entries[0].ActorID)
}

func TestLoginWrongPasswordIsIndistinguishableFromUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, nil)

	stub := &recorderStub{}
	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), stub, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	_, wrongPassword := svc.Login(context.Background(), dto.LoginRequest{Email: "pastor@bethel.org", Password: "wrongpass"})
	_, unknownEmail := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@bethel.org", Password: "secret123"})

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Empty(t, stub.entries, "failed sign-ins must not land in the log")
}

func TestLoginBlockedAccountRejected(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db, "blocked@bethel.org", "secret123", models.RoleServant, nil)
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", profile.ID).Update("is_blocked", true).Error)

	stub := &recorderStub{}
	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), stub, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "blocked@bethel.org", Password: "secret123"})
	require.ErrorIs(t, err, ErrAccountBlocked)
	require.Empty(t, stub.entries)
}

func TestLogoutRecordsEvent(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db, "servant@bethel.org", "secret123", models.RoleServant, nil)

	stub := &recorderStub{}
	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), stub, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	svc.Logout(context.Background(), actorFor(profile))

	require.Len(t, stub.entries, 1)
	require.Equal(t, "logout", string(stub.entries[0].Action))
}

func TestSessionBundlesProfileAndSettings(t *testing.T) {
	db := newTestDB(t)
	church := seedChurch(t, db, "Addis Branch")
	profile := seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, &church.ID)

	settingsRepo := repository.NewSettingsRepository(db)
	_, err := settingsRepo.SetMaintenanceMode(context.Background(), true)
	require.NoError(t, err)

	svc := NewAuthService(repository.NewProfileRepository(db), settingsRepo, &recorderStub{}, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	session, err := svc.Session(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Equal(t, profile.Email, session.Profile.Email)
	require.True(t, session.Settings.IsMaintenanceMode)
}

func TestResolveActorRejectsBlockedProfile(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db, "servant@bethel.org", "secret123", models.RoleServant, nil)
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", profile.ID).Update("is_blocked", true).Error)

	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), &recorderStub{}, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	_, err := svc.ResolveActor(context.Background(), profile.ID)
	require.ErrorIs(t, err, ErrAccountBlocked)
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, nil)

	stub := &recorderStub{}
	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), stub, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	err := svc.ChangePassword(context.Background(), actorFor(profile), dto.ChangePasswordRequest{
		CurrentPassword: "wrongpass",
		NewPassword:     "newsecret123",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Empty(t, stub.entries)

	err = svc.ChangePassword(context.Background(), actorFor(profile), dto.ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret123",
	})
	require.NoError(t, err)
	require.Len(t, stub.entries, 1)
	require.Equal(t, "password_change", string(stub.entries[0].Action))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "pastor@bethel.org", Password: "newsecret123"})
	require.NoError(t, err)
}

func TestPasswordResetDoesNotRevealAccountExistence(t *testing.T) {
	db := newTestDB(t)
	seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, nil)

	stub := &recorderStub{}
	svc := NewAuthService(repository.NewProfileRepository(db), repository.NewSettingsRepository(db), stub, newValidator(), "test-secret", time.Hour, 30*time.Minute, nopLogger())

	require.NoError(t, svc.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "pastor@bethel.org"}))
	require.NoError(t, svc.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "nobody@bethel.org"}))

	// Only the real account leaves a trace; the unknown email records nothing.
	require.Len(t, stub.entries, 1)
	require.Equal(t, "password_change", string(stub.entries[0].Action))
	require.Equal(t, "requested a password reset", stub.entries[0].Details)
}

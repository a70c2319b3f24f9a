package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Church{},
		&models.Department{},
		&models.ProfileDepartment{},
		&models.Profile{},
		&models.Member{},
		&models.ActivityLog{},
		&models.GlobalSettings{},
	))
	return db
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func seedChurch(t *testing.T, db *gorm.DB, name string) models.Church {
	t.Helper()
	church := models.Church{Name: name}
	require.NoError(t, db.Create(&church).Error)
	return church
}

func seedDepartment(t *testing.T, db *gorm.DB, churchID uint, name string) models.Department {
	t.Helper()
	department := models.Department{ChurchID: churchID, Name: name}
	require.NoError(t, db.Create(&department).Error)
	return department
}

func seedProfile(t *testing.T, db *gorm.DB, email, password string, role models.Role, churchID *uint) models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	profile := models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test " + email,
		Role:         role,
		ChurchID:     churchID,
	}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func actorFor(profile models.Profile) Actor {
	return Actor{
		ID:           profile.ID,
		Role:         profile.Role,
		ChurchID:     profile.ChurchID,
		DepartmentID: profile.DepartmentID,
	}
}

// recorderStub captures recorded entries for assertions.
type recorderStub struct {
	entries []ActivityEntry
}

func (r *recorderStub) Record(_ context.Context, entry ActivityEntry) {
	r.entries = append(r.entries, entry)
}

func (r *recorderStub) last(t *testing.T) ActivityEntry {
	t.Helper()
	require.NotEmpty(t, r.entries)
	return r.entries[len(r.entries)-1]
}

// realRecorder wires the production recorder against the test database so
// tests can assert on what actually lands in the log.
func realRecorder(db *gorm.DB) (ActivityRecorder, repository.ActivityLogRepository) {
	repo := repository.NewActivityLogRepository(db)
	return NewActivityRecorder(repo, repository.NewProfileRepository(db), nil, nopLogger()), repo
}

func allActivity(t *testing.T, repo repository.ActivityLogRepository) []models.ActivityLog {
	t.Helper()
	entries, _, err := repo.List(context.Background(), repository.ActivityLogFilter{
		Scope:    repository.Scope{Role: models.RoleSuperAdmin},
		PageSize: 100,
	})
	require.NoError(t, err)
	return entries
}

// capturePublisher records stream events handed to it.
type capturePublisher struct {
	events []dto.ActivityStreamEvent
}

func (p *capturePublisher) Publish(_ context.Context, event dto.ActivityStreamEvent) {
	p.events = append(p.events, event)
}

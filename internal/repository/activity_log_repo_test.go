package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

func ptrUint(v uint) *uint {
	return &v
}

func seedActivityFixtures(t *testing.T, db *gorm.DB) (pastorA, pastorB, servantA models.Profile) {
	t.Helper()

	churchA := models.Church{Name: "Addis Branch", Address: "Addis Ababa"}
	churchB := models.Church{Name: "Adama Branch", Address: "Adama"}
	require.NoError(t, db.Create(&churchA).Error)
	require.NoError(t, db.Create(&churchB).Error)

	pastorA = models.Profile{Email: "pastor.a@bethel.org", PasswordHash: "x", FullName: "Pastor A", Role: models.RolePastor, ChurchID: &churchA.ID}
	pastorB = models.Profile{Email: "pastor.b@bethel.org", PasswordHash: "x", FullName: "Pastor B", Role: models.RolePastor, ChurchID: &churchB.ID}
	servantA = models.Profile{Email: "servant.a@bethel.org", PasswordHash: "x", FullName: "Servant A", Role: models.RoleServant, ChurchID: &churchA.ID}
	require.NoError(t, db.Create(&pastorA).Error)
	require.NoError(t, db.Create(&pastorB).Error)
	require.NoError(t, db.Create(&servantA).Error)

	base := time.Now().Add(-time.Hour)
	events := []models.ActivityLog{
		{ActorID: &pastorA.ID, Action: "create", EntityType: "member", Details: "Added member Ruth", CreatedAt: base},
		{ActorID: &servantA.ID, Action: "update", EntityType: "member", Details: "Updated member Ruth", CreatedAt: base.Add(time.Minute)},
		{ActorID: &pastorB.ID, Action: "create", EntityType: "department", Details: "Added choir department", CreatedAt: base.Add(2 * time.Minute)},
		{ActorID: &pastorA.ID, Action: "delete", EntityType: "member", Details: "Removed member Caleb", CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range events {
		require.NoError(t, db.Create(&events[i]).Error)
	}

	return pastorA, pastorB, servantA
}

func TestActivityListSuperAdminSeesEverything(t *testing.T) {
	db := setupTestDB(t)
	seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    Scope{Role: models.RoleSuperAdmin},
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, entries, 4)
	require.Equal(t, "Removed member Caleb", entries[0].Details, "expected newest event first")
}

func TestActivityListPastorScopedToOwnChurch(t *testing.T) {
	db := setupTestDB(t)
	pastorA, _, _ := seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    Scope{Role: models.RolePastor, ChurchID: pastorA.ChurchID, ActorID: pastorA.ID},
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	for _, entry := range entries {
		require.NotEqual(t, "Added choir department", entry.Details)
	}
}

func TestActivityListPastorWithoutChurchFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    Scope{Role: models.RolePastor, ChurchID: nil, ActorID: 99},
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, entries)
}

func TestActivityListServantSeesOnlyOwnEvents(t *testing.T) {
	db := setupTestDB(t)
	_, _, servantA := seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    Scope{Role: models.RoleServant, ChurchID: servantA.ChurchID, ActorID: servantA.ID},
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, servantA.ID, *entries[0].ActorID)
}

func TestActivityListUnknownRoleFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	_, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    Scope{Role: models.Role("auditor"), ActorID: 1},
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestActivityListFiltersComposeWithScope(t *testing.T) {
	db := setupTestDB(t)
	pastorA, _, _ := seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	scope := Scope{Role: models.RolePastor, ChurchID: pastorA.ChurchID, ActorID: pastorA.ID}

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    scope,
		Action:   "create",
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Added member Ruth", entries[0].Details)

	// The search filter narrows but never widens the scope: a pastor
	// searching for the other church's event still gets nothing.
	entries, total, err = repo.List(context.Background(), ActivityLogFilter{
		Scope:    scope,
		Search:   "CHOIR",
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, entries)
}

func TestActivityListSearchIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	seedActivityFixtures(t, db)
	repo := NewActivityLogRepository(db)

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		Scope:    Scope{Role: models.RoleSuperAdmin},
		Search:   "ruth",
		PageSize: 50,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
}

func TestActivityListPaginationIsConsistent(t *testing.T) {
	db := setupTestDB(t)
	church := models.Church{Name: "Bole Branch"}
	require.NoError(t, db.Create(&church).Error)
	actor := models.Profile{Email: "admin@bethel.org", PasswordHash: "x", FullName: "Admin", Role: models.RoleSuperAdmin}
	require.NoError(t, db.Create(&actor).Error)

	// Same timestamp on every row: ordering must fall back to id desc so no
	// event repeats or disappears across pages.
	stamp := time.Now()
	for i := 0; i < 7; i++ {
		entry := models.ActivityLog{ActorID: &actor.ID, Action: "create", EntityType: "member", Details: "seed", CreatedAt: stamp}
		require.NoError(t, db.Create(&entry).Error)
	}

	repo := NewActivityLogRepository(db)
	seen := map[uint]bool{}
	fetched := 0
	for page := 1; page <= 3; page++ {
		entries, total, err := repo.List(context.Background(), ActivityLogFilter{
			Scope:    Scope{Role: models.RoleSuperAdmin},
			Page:     page,
			PageSize: 3,
		})
		require.NoError(t, err)
		require.Equal(t, int64(7), total)
		for _, entry := range entries {
			require.False(t, seen[entry.ID], "event %d appeared on two pages", entry.ID)
			seen[entry.ID] = true
		}
		fetched += len(entries)
	}
	require.Equal(t, 7, fetched)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

func TestChurchCreateRecordsEventWithSnapshot(t *testing.T) {
	db := newTestDB(t)
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)

	recorder, activityRepo := realRecorder(db)
	svc := NewChurchService(repository.NewChurchRepository(db), newValidator(), recorder, nopLogger())

	church, err := svc.Create(context.Background(), actorFor(admin), dto.ChurchCreateRequest{
		Name:    "Bole Branch",
		Address: "Bole, Addis Ababa",
	})
	require.NoError(t, err)
	require.NotZero(t, church.ID)

	entries := allActivity(t, activityRepo)
	require.Len(t, entries, 1)
	require.Equal(t, "create", entries[0].Action)
	require.Equal(t, "church", entries[0].EntityType)
	require.Equal(t, admin.ID, *entries[0].ActorID)
	require.Equal(t, church.ID, *entries[0].EntityID)
	require.Contains(t, entries[0].Details, "Bole Branch")

	newSide, ok := entries[0].Changes["new"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Bole Branch", newSide["name"])
}

func TestChurchUpdateRejectsNoChanges(t *testing.T) {
	db := newTestDB(t)
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)
	church := seedChurch(t, db, "Bole Branch")

	stub := &recorderStub{}
	svc := NewChurchService(repository.NewChurchRepository(db), newValidator(), stub, nopLogger())

	sameName := church.Name
	_, err := svc.Update(context.Background(), actorFor(admin), church.ID, dto.ChurchUpdateRequest{Name: &sameName})
	require.ErrorIs(t, err, ErrNoChanges)
	require.Empty(t, stub.entries)
}

func TestChurchUpdateRecordsOnlyChangedFields(t *testing.T) {
	db := newTestDB(t)
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)
	church := seedChurch(t, db, "Bole Branch")

	stub := &recorderStub{}
	svc := NewChurchService(repository.NewChurchRepository(db), newValidator(), stub, nopLogger())

	newName := "Bole Main Branch"
	updated, err := svc.Update(context.Background(), actorFor(admin), church.ID, dto.ChurchUpdateRequest{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)

	entry := stub.last(t)
	require.Contains(t, entry.Changes, "name")
	require.NotContains(t, entry.Changes, "address")
	pair, ok := entry.Changes["name"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Bole Branch", pair["old"])
	require.Equal(t, newName, pair["new"])
}

func TestChurchDeleteRecordsOldSnapshot(t *testing.T) {
	db := newTestDB(t)
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)
	church := seedChurch(t, db, "Bole Branch")

	stub := &recorderStub{}
	svc := NewChurchService(repository.NewChurchRepository(db), newValidator(), stub, nopLogger())

	require.NoError(t, svc.Delete(context.Background(), actorFor(admin), church.ID))

	entry := stub.last(t)
	require.Equal(t, "delete", string(entry.Action))
	oldSide, ok := entry.Changes["old"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Bole Branch", oldSide["name"])

	_, err := svc.Get(context.Background(), church.ID)
	require.ErrorIs(t, err, ErrChurchNotFound)
}

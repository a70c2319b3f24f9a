package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

func TestMemberCreateOutsideOwnChurchForbidden(t *testing.T) {
	db := newTestDB(t)
	churchA := seedChurch(t, db, "Addis Branch")
	churchB := seedChurch(t, db, "Adama Branch")
	pastor := seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, &churchA.ID)

	stub := &recorderStub{}
	svc := NewMemberService(repository.NewMemberRepository(db), newValidator(), stub, nopLogger())

	_, err := svc.Create(context.Background(), actorFor(pastor), dto.MemberCreateRequest{
		ChurchID: churchB.ID,
		FullName: "Ruth Alemu",
	})
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, stub.entries)

	member, err := svc.Create(context.Background(), actorFor(pastor), dto.MemberCreateRequest{
		ChurchID: churchA.ID,
		FullName: "Ruth Alemu",
	})
	require.NoError(t, err)
	require.Equal(t, churchA.ID, member.ChurchID)
	require.Equal(t, "create", string(stub.last(t).Action))
}

func TestMemberUpdateDiffDriven(t *testing.T) {
	db := newTestDB(t)
	church := seedChurch(t, db, "Addis Branch")
	pastor := seedProfile(t, db, "pastor@bethel.org", "secret123", models.RolePastor, &church.ID)

	stub := &recorderStub{}
	svc := NewMemberService(repository.NewMemberRepository(db), newValidator(), stub, nopLogger())

	member, err := svc.Create(context.Background(), actorFor(pastor), dto.MemberCreateRequest{
		ChurchID: church.ID,
		FullName: "Ruth Alemu",
		Phone:    "0911000000",
	})
	require.NoError(t, err)

	samePhone := "0911000000"
	_, err = svc.Update(context.Background(), actorFor(pastor), member.ID, dto.MemberUpdateRequest{Phone: &samePhone})
	require.ErrorIs(t, err, ErrNoChanges)

	newPhone := "0911999999"
	updated, err := svc.Update(context.Background(), actorFor(pastor), member.ID, dto.MemberUpdateRequest{Phone: &newPhone})
	require.NoError(t, err)
	require.Equal(t, newPhone, updated.Phone)

	entry := stub.last(t)
	require.Equal(t, "update", string(entry.Action))
	require.Contains(t, entry.Changes, "phone")
	require.NotContains(t, entry.Changes, "full_name")
}

func TestMemberGetScopedByChurch(t *testing.T) {
	db := newTestDB(t)
	churchA := seedChurch(t, db, "Addis Branch")
	churchB := seedChurch(t, db, "Adama Branch")
	pastorB := seedProfile(t, db, "pastor.b@bethel.org", "secret123", models.RolePastor, &churchB.ID)
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)

	svc := NewMemberService(repository.NewMemberRepository(db), newValidator(), &recorderStub{}, nopLogger())

	member, err := svc.Create(context.Background(), actorFor(admin), dto.MemberCreateRequest{
		ChurchID: churchA.ID,
		FullName: "Ruth Alemu",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), actorFor(pastorB), member.ID)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(context.Background(), actorFor(admin), member.ID)
	require.NoError(t, err)
	require.Equal(t, member.ID, got.ID)
}

func TestMemberAccessScopedToServantDepartment(t *testing.T) {
	db := newTestDB(t)
	church := seedChurch(t, db, "Addis Branch")
	choir := seedDepartment(t, db, church.ID, "Choir")
	ushers := seedDepartment(t, db, church.ID, "Ushers")
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)
	servant := seedProfile(t, db, "servant@bethel.org", "secret123", models.RoleServant, &church.ID)

	svc := NewMemberService(repository.NewMemberRepository(db), newValidator(), &recorderStub{}, nopLogger())

	inChoir, err := svc.Create(context.Background(), actorFor(admin), dto.MemberCreateRequest{
		ChurchID:     church.ID,
		DepartmentID: &choir.ID,
		FullName:     "Ruth Alemu",
	})
	require.NoError(t, err)
	inUshers, err := svc.Create(context.Background(), actorFor(admin), dto.MemberCreateRequest{
		ChurchID:     church.ID,
		DepartmentID: &ushers.ID,
		FullName:     "Hanna Bekele",
	})
	require.NoError(t, err)

	actor := Actor{ID: servant.ID, Role: models.RoleServant, ChurchID: &church.ID, DepartmentID: &choir.ID}

	// Direct access must hide exactly what the list hides.
	list, err := svc.List(context.Background(), actor, dto.MemberListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, inChoir.ID, list.Items[0].ID)

	_, err = svc.Get(context.Background(), actor, inUshers.ID)
	require.ErrorIs(t, err, ErrForbidden)

	newName := "Renamed"
	_, err = svc.Update(context.Background(), actor, inUshers.ID, dto.MemberUpdateRequest{FullName: &newName})
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, svc.Delete(context.Background(), actor, inUshers.ID), ErrForbidden)

	got, err := svc.Get(context.Background(), actor, inChoir.ID)
	require.NoError(t, err)
	require.Equal(t, inChoir.ID, got.ID)

	// A servant without a department reaches nothing.
	bare := Actor{ID: servant.ID, Role: models.RoleServant, ChurchID: &church.ID}
	_, err = svc.Get(context.Background(), bare, inChoir.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestMemberDeleteRecordsSnapshot(t *testing.T) {
	db := newTestDB(t)
	church := seedChurch(t, db, "Addis Branch")
	admin := seedProfile(t, db, "root@bethel.org", "secret123", models.RoleSuperAdmin, nil)

	stub := &recorderStub{}
	svc := NewMemberService(repository.NewMemberRepository(db), newValidator(), stub, nopLogger())

	member, err := svc.Create(context.Background(), actorFor(admin), dto.MemberCreateRequest{
		ChurchID: church.ID,
		FullName: "Ruth Alemu",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), actorFor(admin), member.ID))

	entry := stub.last(t)
	require.Equal(t, "delete", string(entry.Action))
	oldSide, ok := entry.Changes["old"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Ruth Alemu", oldSide["full_name"])

	_, err = svc.Get(context.Background(), actorFor(admin), member.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

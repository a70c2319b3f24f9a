package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

func TestMemberListScopesByChurchAndDepartment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)

	churchA := models.Church{Name: "Addis Branch"}
	churchB := models.Church{Name: "Adama Branch"}
	require.NoError(t, db.Create(&churchA).Error)
	require.NoError(t, db.Create(&churchB).Error)

	choir := models.Department{ChurchID: churchA.ID, Name: "Choir"}
	require.NoError(t, db.Create(&choir).Error)

	members := []models.Member{
		{ChurchID: churchA.ID, DepartmentID: &choir.ID, FullName: "Ruth Bekele"},
		{ChurchID: churchA.ID, FullName: "Caleb Tesfaye"},
		{ChurchID: churchB.ID, FullName: "Hanna Alemu"},
	}
	for i := range members {
		require.NoError(t, db.Create(&members[i]).Error)
	}

	_, total, err := repo.List(context.Background(), MemberFilter{
		Scope:    Scope{Role: models.RoleSuperAdmin},
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	_, total, err = repo.List(context.Background(), MemberFilter{
		Scope:    Scope{Role: models.RolePastor, ChurchID: &churchA.ID},
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	listed, total, err := repo.List(context.Background(), MemberFilter{
		Scope:    Scope{Role: models.RoleServant, ChurchID: &churchA.ID, DepartmentID: &choir.ID},
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Ruth Bekele", listed[0].FullName)

	// Servant without a department sees nothing.
	_, total, err = repo.List(context.Background(), MemberFilter{
		Scope:    Scope{Role: models.RoleServant, ChurchID: &churchA.ID},
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestScopeAdmitsMatchesQuerySemantics(t *testing.T) {
	churchA := uint(1)
	churchB := uint(2)
	actor := uint(7)

	superAdmin := Scope{Role: models.RoleSuperAdmin}
	require.True(t, superAdmin.Admits(&actor, &churchA))
	require.True(t, superAdmin.Admits(nil, nil))

	pastor := Scope{Role: models.RolePastor, ChurchID: &churchA}
	require.True(t, pastor.Admits(&actor, &churchA))
	require.False(t, pastor.Admits(&actor, &churchB))
	require.False(t, pastor.Admits(&actor, nil))

	noChurch := Scope{Role: models.RolePastor}
	require.False(t, noChurch.Admits(&actor, &churchA))

	servant := Scope{Role: models.RoleServant, ActorID: actor}
	require.True(t, servant.Admits(&actor, &churchA))
	other := uint(8)
	require.False(t, servant.Admits(&other, &churchA))
	require.False(t, servant.Admits(nil, &churchA))
}

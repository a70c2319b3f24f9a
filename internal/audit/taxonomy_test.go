package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionLookups(t *testing.T) {
	require.Equal(t, "Created", ActionLabel(ActionCreate))
	require.Equal(t, "green", ActionColor(ActionCreate))
	require.Equal(t, "Role changed", ActionLabel(ActionRoleChange))
	require.Equal(t, "purple", ActionColor(ActionRoleChange))
}

func TestEntityLookups(t *testing.T) {
	require.Equal(t, "Church", EntityLabel(EntityChurch))
	require.Equal(t, "Settings", EntityLabel(EntitySettings))
}

func TestUnknownValuesDegradeToPassthrough(t *testing.T) {
	require.Equal(t, "archive", ActionLabel(ActionType("ARCHIVE")))
	require.Equal(t, "gray", ActionColor(ActionType("archive")))
	require.Equal(t, "campaign", EntityLabel(EntityType("Campaign")))
}

func TestParseNormalisation(t *testing.T) {
	require.Equal(t, ActionCreate, ParseAction("  CREATE "))
	require.Equal(t, EntityMember, ParseEntity("Member"))
	require.True(t, KnownAction(ActionToggle))
	require.False(t, KnownAction(ParseAction("archive")))
}

package audit

import "strings"

// ActionType enumerates the kinds of administrative actions the log records.
// The set is closed at runtime; values arriving from newer writers degrade to
// a lower-cased passthrough instead of erroring.
type ActionType string

const (
	ActionCreate         ActionType = "create"
	ActionUpdate         ActionType = "update"
	ActionDelete         ActionType = "delete"
	ActionBlock          ActionType = "block"
	ActionUnblock        ActionType = "unblock"
	ActionRoleChange     ActionType = "role_change"
	ActionLogin          ActionType = "login"
	ActionLogout         ActionType = "logout"
	ActionUpload         ActionType = "upload"
	ActionToggle         ActionType = "toggle"
	ActionPasswordChange ActionType = "password_change"
)

// EntityType enumerates the kinds of records an action can target.
type EntityType string

const (
	EntityServant    EntityType = "servant"
	EntityPastor     EntityType = "pastor"
	EntityMember     EntityType = "member"
	EntityChurch     EntityType = "church"
	EntityDepartment EntityType = "department"
	EntityProfile    EntityType = "profile"
	EntitySettings   EntityType = "settings"
	EntityUser       EntityType = "user"
	EntitySystem     EntityType = "system"
)

type actionInfo struct {
	label string
	color string
}

var actionTable = map[ActionType]actionInfo{
	ActionCreate:         {label: "Created", color: "green"},
	ActionUpdate:         {label: "Updated", color: "blue"},
	ActionDelete:         {label: "Deleted", color: "red"},
	ActionBlock:          {label: "Blocked", color: "red"},
	ActionUnblock:        {label: "Unblocked", color: "green"},
	ActionRoleChange:     {label: "Role changed", color: "purple"},
	ActionLogin:          {label: "Signed in", color: "gray"},
	ActionLogout:         {label: "Signed out", color: "gray"},
	ActionUpload:         {label: "Uploaded", color: "cyan"},
	ActionToggle:         {label: "Toggled", color: "amber"},
	ActionPasswordChange: {label: "Password changed", color: "amber"},
}

var entityTable = map[EntityType]string{
	EntityServant:    "Servant",
	EntityPastor:     "Pastor",
	EntityMember:     "Member",
	EntityChurch:     "Church",
	EntityDepartment: "Department",
	EntityProfile:    "Profile",
	EntitySettings:   "Settings",
	EntityUser:       "User",
	EntitySystem:     "System",
}

// ParseAction normalises a raw action string.
func ParseAction(raw string) ActionType {
	return ActionType(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseEntity normalises a raw entity string.
func ParseEntity(raw string) EntityType {
	return EntityType(strings.ToLower(strings.TrimSpace(raw)))
}

// KnownAction reports whether the action belongs to the closed enumeration.
func KnownAction(action ActionType) bool {
	_, ok := actionTable[action]
	return ok
}

// ActionLabel returns the display label for an action. Unknown actions fall
// back to the lower-cased raw value.
func ActionLabel(action ActionType) string {
	if info, ok := actionTable[action]; ok {
		return info.label
	}
	return strings.ToLower(string(action))
}

// ActionColor returns the colour tag used when rendering an action. Unknown
// actions get the neutral tag.
func ActionColor(action ActionType) string {
	if info, ok := actionTable[action]; ok {
		return info.color
	}
	return "gray"
}

// EntityLabel returns the display label for an entity kind, falling back to
// the lower-cased raw value for forward compatibility.
func EntityLabel(entity EntityType) string {
	if label, ok := entityTable[entity]; ok {
		return label
	}
	return strings.ToLower(string(entity))
}

package repository

import (
	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// Scope is the three-tier visibility filter derived from the caller:
// super admins see everything, pastors see their own church, servants see
// only their own records. The same shape applies to every query that carries
// a direct or joined church column; additional filters always AND with it and
// can never widen it.
type Scope struct {
	Role         models.Role
	ChurchID     *uint
	DepartmentID *uint
	ActorID      uint
}

// Unrestricted reports whether the scope admits every row.
func (s Scope) Unrestricted() bool {
	return s.Role == models.RoleSuperAdmin
}

// churchScoped narrows a query on a table with a direct church column.
// A pastor or servant without a church resolves to the empty set: the filter
// fails closed, never open.
func (s Scope) churchScoped(query *gorm.DB, column string) *gorm.DB {
	switch s.Role {
	case models.RoleSuperAdmin:
		return query
	case models.RolePastor, models.RoleServant:
		if s.ChurchID == nil || *s.ChurchID == 0 {
			return query.Where("1 = 0")
		}
		return query.Where(column+" = ?", *s.ChurchID)
	default:
		return query.Where("1 = 0")
	}
}

// actorScoped narrows activity queries: pastors see events whose actor
// belongs to their church (via an inner join on profiles), servants only
// their own events.
func (s Scope) actorScoped(query *gorm.DB) *gorm.DB {
	switch s.Role {
	case models.RoleSuperAdmin:
		return query
	case models.RolePastor:
		if s.ChurchID == nil || *s.ChurchID == 0 {
			return query.Where("1 = 0")
		}
		return query.
			Joins("INNER JOIN profiles ON profiles.id = activity_logs.actor_id").
			Where("profiles.church_id = ?", *s.ChurchID)
	case models.RoleServant:
		return query.Where("activity_logs.actor_id = ?", s.ActorID)
	default:
		return query.Where("1 = 0")
	}
}

// Admits evaluates the scope against an event's actor without touching the
// database. The live stream fan-out uses this to decide which subscribers
// should be told to re-fetch.
func (s Scope) Admits(actorID *uint, actorChurchID *uint) bool {
	switch s.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RolePastor:
		if s.ChurchID == nil || *s.ChurchID == 0 {
			return false
		}
		return actorChurchID != nil && *actorChurchID == *s.ChurchID
	case models.RoleServant:
		return actorID != nil && *actorID == s.ActorID
	default:
		return false
	}
}

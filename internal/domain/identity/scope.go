package identity

import (
	"github.com/google/uuid"
)

// ScopeKind tags the closed set of access-scope variants. The resolver is a
// total function over roles: an unknown role degrades to ScopeNone, which
// matches no rows, never to unrestricted access.
type ScopeKind int

const (
	// ScopeNone matches no rows
	ScopeNone ScopeKind = iota
	// ScopeAll is unrestricted (platform superadmin)
	ScopeAll
	// ScopeSchool restricts rows to the actor's school
	ScopeSchool
	// ScopeTeacher restricts rows to those linked to the teacher through a
	// supervised class or a taught lesson, within the teacher's school
	ScopeTeacher
	// ScopeGuardian restricts rows to those linked to the parent through
	// guardianship of a student
	ScopeGuardian
)

// AccessScope is the resolved visibility predicate for an actor. It is a
// pure value; the persistence layer translates it into query predicates per
// resource. Every scope is intersected (AND) with the request's own filters,
// so an out-of-scope id reads as "not found" rather than "forbidden".
type AccessScope struct {
	Kind     ScopeKind
	SchoolID uuid.UUID
	UserID   uuid.UUID
}

// ResolveScope maps an actor to its access scope. No error conditions: a
// role outside the enumeration yields the most restrictive scope.
func ResolveScope(actor Actor) AccessScope {
	switch actor.Role {
	case RoleSuperAdmin:
		return AccessScope{Kind: ScopeAll}
	case RoleSchoolAdmin, RolePrincipal:
		if actor.SchoolID == uuid.Nil {
			return AccessScope{Kind: ScopeNone}
		}
		return AccessScope{Kind: ScopeSchool, SchoolID: actor.SchoolID}
	case RoleTeacher:
		if actor.SchoolID == uuid.Nil {
			return AccessScope{Kind: ScopeNone}
		}
		return AccessScope{Kind: ScopeTeacher, SchoolID: actor.SchoolID, UserID: actor.UserID}
	case RoleParent:
		return AccessScope{Kind: ScopeGuardian, UserID: actor.UserID}
	default:
		return AccessScope{Kind: ScopeNone}
	}
}

// CanAccessSchool reports whether the scope permits rows of the given school
// without considering row-level links. Teacher and guardian scopes still
// need their relationship predicates on top of this.
func (s AccessScope) CanAccessSchool(schoolID uuid.UUID) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeSchool, ScopeTeacher:
		return s.SchoolID == schoolID
	case ScopeGuardian:
		return true // guardianship is row-level, not school-level
	default:
		return false
	}
}

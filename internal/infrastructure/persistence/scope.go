package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/identity"
)

type scopeKey struct{}

// WithScope stores the actor's access scope in the context. The auth
// middleware installs it after resolving the token; repositories apply it
// to tenant-scoped tables.
func WithScope(ctx context.Context, scope identity.AccessScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the stored access scope. Contexts without one
// (background jobs, migrations, tests) read unscoped.
func ScopeFromContext(ctx context.Context) identity.AccessScope {
	if scope, ok := ctx.Value(scopeKey{}).(identity.AccessScope); ok {
		return scope
	}
	return identity.AccessScope{Kind: identity.ScopeAll}
}

// tenantScoped resolves the transaction-aware handle and applies the
// context scope against the table's school_id column.
func tenantScoped(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	return dbFromContext(ctx, fallback).Scopes(SchoolScope(ScopeFromContext(ctx)))
}

// ErrScopeDenied flags queries issued with an empty access scope. The HTTP
// layer reports these as not-found so resource existence never leaks.
var ErrScopeDenied = errors.New("access scope permits no rows")

// SchoolScope filters a school-scoped table down to what the actor may
// see. ScopeAll passes through; ScopeNone poisons the query so it can
// never return rows. Guardian reach is row-level (through guardianship
// links), so ScopeGuardian passes here and is narrowed by the service's
// link predicates. Tables where a teacher's reach is narrower than the
// school use ClassScope or StudentScope instead.
func SchoolScope(scope identity.AccessScope) func(db *gorm.DB) *gorm.DB {
	return SchoolScopeColumn(scope, "school_id")
}

// SchoolScopeColumn is SchoolScope with a custom tenant column, for tables
// that reference the school indirectly.
func SchoolScopeColumn(scope identity.AccessScope, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch scope.Kind {
		case identity.ScopeAll, identity.ScopeGuardian:
			return db
		case identity.ScopeSchool, identity.ScopeTeacher:
			return db.Where(column+" = ?", scope.SchoolID)
		default:
			_ = db.AddError(ErrScopeDenied)
			return db
		}
	}
}

// ClassScope is SchoolScope narrowed for the classes table: a teacher
// reaches only classes they supervise or teach a lesson in.
func ClassScope(scope identity.AccessScope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.Kind != identity.ScopeTeacher {
			return SchoolScope(scope)(db)
		}
		return db.Where(
			"school_id = ? AND (supervisor_id = ? OR id IN (SELECT class_id FROM lessons WHERE teacher_user_id = ?))",
			scope.SchoolID, scope.UserID, scope.UserID)
	}
}

// StudentScope is SchoolScope narrowed for the students table: a teacher
// reaches only students enrolled in a class they supervise or teach.
func StudentScope(scope identity.AccessScope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.Kind != identity.ScopeTeacher {
			return SchoolScope(scope)(db)
		}
		return db.Where(
			"school_id = ? AND class_id IN (SELECT id FROM classes WHERE supervisor_id = ? UNION SELECT class_id FROM lessons WHERE teacher_user_id = ?)",
			scope.SchoolID, scope.UserID, scope.UserID)
	}
}

// classScoped and studentScoped mirror tenantScoped for the two tables
// with a teacher relationship predicate.
func classScoped(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	return dbFromContext(ctx, fallback).Scopes(ClassScope(ScopeFromContext(ctx)))
}

func studentScoped(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	return dbFromContext(ctx, fallback).Scopes(StudentScope(ScopeFromContext(ctx)))
}

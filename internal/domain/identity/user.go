package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Role is the closed set of actor roles. There is no role table; the
// authorization policy is a static allow-list per operation.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleSchoolAdmin Role = "SCHOOL_ADMIN"
	RolePrincipal   Role = "PRINCIPAL"
	RoleTeacher     Role = "TEACHER"
	RoleParent      Role = "PARENT"
)

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RolePrincipal, RoleTeacher, RoleParent:
		return true
	default:
		return false
	}
}

// IsSchoolScoped reports whether the role is bound to a single school.
// SUPER_ADMIN is platform-wide; PARENT may have children in several schools.
func (r Role) IsSchoolScoped() bool {
	switch r {
	case RoleSchoolAdmin, RolePrincipal, RoleTeacher:
		return true
	default:
		return false
	}
}

// User is the authentication aggregate. Staff users carry a SchoolID;
// platform admins and parents do not.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         Role
	SchoolID     *uuid.UUID
	IsActive     bool
	LastLoginAt  *time.Time
}

// TableName maps the aggregate to its table
func (User) TableName() string { return "users" }

// NewUser creates a user with a hashed password
func NewUser(email, password, fullName string, role Role, schoolID *uuid.UUID) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if !ValidRole(role) {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role.IsSchoolScoped() && schoolID == nil {
		return nil, shared.NewDomainError("MISSING_SCHOOL", "A school-scoped role requires a school")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		FullName:          fullName,
		Role:              role,
		SchoolID:          schoolID,
		IsActive:          true,
	}, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.Touch()
}

// Deactivate disables the user account
func (u *User) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.IsActive = false
	u.Touch()
	u.IncrementVersion()
	return nil
}

// Activate re-enables the user account
func (u *User) Activate() error {
	if u.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.IsActive = true
	u.Touch()
	u.IncrementVersion()
	return nil
}

// Actor is the authenticated caller as seen by services: identity, role
// and, for school-scoped roles, the owning school.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	SchoolID uuid.UUID // uuid.Nil for SUPER_ADMIN and PARENT
}

// SameSchool reports whether the actor belongs to the given school
func (a Actor) SameSchool(schoolID uuid.UUID) bool {
	return a.SchoolID != uuid.Nil && a.SchoolID == schoolID
}

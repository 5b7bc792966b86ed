package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a sort field against a whitelist; anything not
// whitelisted falls back to defaultField. Sort fields reach ORDER BY as raw
// SQL, so the whitelist is the injection boundary.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields are present on every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields are the allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"full_name":     true,
	"role":          true,
	"is_active":     true,
	"last_login_at": true,
}

// SchoolSortFields are the allowed sort fields for schools
var SchoolSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"status":      true,
	"verified_at": true,
}

// ClassSortFields are the allowed sort fields for classes
var ClassSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"grade_level": true,
	"capacity":    true,
}

// StudentSortFields are the allowed sort fields for students
var StudentSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"registration_number": true,
	"first_name":          true,
	"last_name":           true,
	"class_id":            true,
	"is_active":           true,
}

// TeacherSortFields are the allowed sort fields for teacher profiles
var TeacherSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"staff_number": true,
	"status":       true,
	"verified_at":  true,
}

// EventSortFields are the allowed sort fields for events
var EventSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"starts_at":  true,
}

// MaterialSortFields are the allowed sort fields for store materials
var MaterialSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"price":          true,
	"stock_quantity": true,
	"is_listed":      true,
}

// OrderSortFields are the allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"reference":  true,
	"status":     true,
	"total":      true,
	"paid_at":    true,
}

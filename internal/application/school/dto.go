package school

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/school"
)

// RegisterSchoolInput carries a school registration: the school profile
// plus its first SCHOOL_ADMIN account, created together.
type RegisterSchoolInput struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Code          string `json:"code" binding:"required,min=2,max=50"`
	Address       string `json:"address" binding:"max=500"`
	ContactEmail  string `json:"contact_email" binding:"required,email"`
	ContactPhone  string `json:"contact_phone" binding:"max=50"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	AdminFullName string `json:"admin_full_name" binding:"required,min=1,max=200"`
}

// UpdateSchoolInput carries profile changes
type UpdateSchoolInput struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Address      string `json:"address" binding:"max=500"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"max=50"`
}

// RejectSchoolInput carries the rejection reason
type RejectSchoolInput struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SettlementInput carries the payout destination. The account name and
// subaccount code come back from the gateway, not the caller.
type SettlementInput struct {
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
}

// SchoolResponse is a school in API responses
type SchoolResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Code         string     `json:"code"`
	Address      string     `json:"address"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone"`
	LogoURL      string     `json:"logo_url,omitempty"`
	Status       string     `json:"status"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	RejectedFor  string     `json:"rejected_for,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToSchoolResponse maps a domain school to its API shape. Settlement
// details stay out of the general response.
func ToSchoolResponse(s *school.School) SchoolResponse {
	return SchoolResponse{
		ID:           s.ID,
		Name:         s.Name,
		Code:         s.Code,
		Address:      s.Address,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		LogoURL:      s.LogoURL,
		Status:       string(s.Status),
		VerifiedAt:   s.VerifiedAt,
		RejectedFor:  s.RejectedFor,
		CreatedAt:    s.CreatedAt,
	}
}

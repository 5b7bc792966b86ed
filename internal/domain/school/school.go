// Package school holds the tenant aggregate. A School is the unit of data
// isolation: every scoped entity carries its id.
package school

import (
	"strings"
	"time"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// VerificationStatus is the school's platform verification state
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// SettlementAccount holds the school's payout destination at the payment
// gateway. SubaccountCode is assigned by the gateway once onboarded.
type SettlementAccount struct {
	BankCode       string `json:"bank_code"`
	AccountNumber  string `json:"account_number"`
	AccountName    string `json:"account_name"`
	SubaccountCode string `json:"subaccount_code"`
}

// School is the tenant aggregate root
type School struct {
	shared.BaseAggregateRoot
	Name         string
	Code         string // unique registration code, uppercased
	Address      string
	ContactEmail string
	ContactPhone string
	LogoURL      string
	Status       VerificationStatus
	VerifiedAt   *time.Time
	RejectedFor  string
	Settlement   SettlementAccount `gorm:"embedded;embeddedPrefix:settlement_"`
}

// TableName maps the aggregate to its table
func (School) TableName() string { return "schools" }

// NewSchool creates a school pending verification
func NewSchool(name, code, address, contactEmail string) (*School, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "School name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "School name cannot exceed 200 characters")
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if contactEmail == "" || !strings.Contains(contactEmail, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid contact email is required")
	}

	return &School{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              strings.ToUpper(code),
		Address:           address,
		ContactEmail:      strings.ToLower(contactEmail),
		Status:            VerificationPending,
	}, nil
}

// Approve marks the school verified. Approving twice is a conflict.
func (s *School) Approve() error {
	if s.Status == VerificationApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "School is already approved")
	}
	now := time.Now()
	s.Status = VerificationApproved
	s.VerifiedAt = &now
	s.RejectedFor = ""
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Reject declines verification with a reason
func (s *School) Reject(reason string) error {
	if s.Status == VerificationRejected {
		return shared.NewDomainError("ALREADY_REJECTED", "School is already rejected")
	}
	if reason == "" {
		return shared.NewDomainError("MISSING_REASON", "A rejection reason is required")
	}
	s.Status = VerificationRejected
	s.VerifiedAt = nil
	s.RejectedFor = reason
	s.Touch()
	s.IncrementVersion()
	return nil
}

// IsApproved reports whether the school passed verification
func (s *School) IsApproved() bool {
	return s.Status == VerificationApproved
}

// Update applies basic profile changes
func (s *School) Update(name, address, contactEmail, contactPhone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "School name cannot be empty")
	}
	if contactEmail != "" && !strings.Contains(contactEmail, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "A valid contact email is required")
	}
	s.Name = name
	s.Address = address
	if contactEmail != "" {
		s.ContactEmail = strings.ToLower(contactEmail)
	}
	s.ContactPhone = contactPhone
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetLogoURL stores the uploaded logo location
func (s *School) SetLogoURL(url string) {
	s.LogoURL = url
	s.Touch()
	s.IncrementVersion()
}

// SetSettlement records the gateway payout destination
func (s *School) SetSettlement(account SettlementAccount) error {
	if account.BankCode == "" || account.AccountNumber == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Bank code and account number are required")
	}
	s.Settlement = account
	s.Touch()
	s.IncrementVersion()
	return nil
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "School code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "School code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_CODE", "School code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

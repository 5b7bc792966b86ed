package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchool(t *testing.T) {
	s, err := NewSchool("Hillcrest Academy", "hillcrest-01", "12 Hill Rd", "Admin@Hillcrest.edu")
	require.NoError(t, err)
	assert.Equal(t, VerificationPending, s.Status)
	assert.Equal(t, "HILLCREST-01", s.Code)
	assert.Equal(t, "admin@hillcrest.edu", s.ContactEmail)
	assert.Nil(t, s.VerifiedAt)
}

func TestNewSchoolValidation(t *testing.T) {
	_, err := NewSchool("", "CODE", "", "a@b.c")
	assert.Error(t, err)

	_, err = NewSchool("Name", "bad code!", "", "a@b.c")
	assert.Error(t, err)

	_, err = NewSchool("Name", "CODE", "", "not-an-email")
	assert.Error(t, err)
}

func TestSchoolVerificationLifecycle(t *testing.T) {
	s, err := NewSchool("Hillcrest Academy", "HILL", "", "admin@hillcrest.edu")
	require.NoError(t, err)

	require.NoError(t, s.Approve())
	assert.Equal(t, VerificationApproved, s.Status)
	require.NotNil(t, s.VerifiedAt)
	assert.True(t, s.IsApproved())

	// duplicate approval is a conflict
	assert.Error(t, s.Approve())

	// rejection clears the verified timestamp
	require.NoError(t, s.Reject("documents expired"))
	assert.Equal(t, VerificationRejected, s.Status)
	assert.Nil(t, s.VerifiedAt)
	assert.Equal(t, "documents expired", s.RejectedFor)

	assert.Error(t, s.Reject("again"), "duplicate rejection is a conflict")
	assert.Error(t, func() error {
		fresh, _ := NewSchool("X", "X1", "", "x@y.z")
		return fresh.Reject("")
	}(), "rejection requires a reason")
}

func TestSetSettlement(t *testing.T) {
	s, _ := NewSchool("Hillcrest Academy", "HILL", "", "admin@hillcrest.edu")

	assert.Error(t, s.SetSettlement(SettlementAccount{}))

	acct := SettlementAccount{BankCode: "058", AccountNumber: "0123456789", AccountName: "Hillcrest"}
	require.NoError(t, s.SetSettlement(acct))
	assert.Equal(t, acct, s.Settlement)
}

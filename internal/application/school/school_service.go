// Package school implements school registration and platform verification.
package school

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/school"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/email"
	"github.com/schoolhub/backend/internal/infrastructure/storage"
)

// platformSettlementShare is the platform's percentage cut on settlements
// routed through a school's subaccount.
var platformSettlementShare = decimal.NewFromFloat(2.5)

// SchoolService handles school registration, verification and profile
// management
type SchoolService struct {
	schoolRepo school.Repository
	userRepo   identity.UserRepository
	tx         shared.TxManager
	storage    storage.ObjectStorage
	mailer     email.Sender
	gateway    commerce.Gateway
	logger     *zap.Logger
}

// NewSchoolService creates a new SchoolService
func NewSchoolService(
	schoolRepo school.Repository,
	userRepo identity.UserRepository,
	tx shared.TxManager,
	objectStorage storage.ObjectStorage,
	mailer email.Sender,
	gateway commerce.Gateway,
	logger *zap.Logger,
) *SchoolService {
	return &SchoolService{
		schoolRepo: schoolRepo,
		userRepo:   userRepo,
		tx:         tx,
		storage:    objectStorage,
		mailer:     mailer,
		gateway:    gateway,
		logger:     logger,
	}
}

// Register creates a pending school together with its first admin account.
// Both rows commit or neither does.
func (s *SchoolService) Register(ctx context.Context, input RegisterSchoolInput) (*SchoolResponse, error) {
	exists, err := s.schoolRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "A school with this code already exists")
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.AdminEmail)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "An account with this email already exists")
	}

	newSchool, err := school.NewSchool(input.Name, input.Code, input.Address, input.ContactEmail)
	if err != nil {
		return nil, err
	}
	newSchool.ContactPhone = input.ContactPhone

	admin, err := identity.NewUser(input.AdminEmail, input.AdminPassword, input.AdminFullName,
		identity.RoleSchoolAdmin, &newSchool.ID)
	if err != nil {
		return nil, err
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.schoolRepo.Save(ctx, newSchool); err != nil {
			return err
		}
		return s.userRepo.Save(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("School registered",
		zap.String("school_id", newSchool.ID.String()),
		zap.String("code", newSchool.Code))

	s.notify(ctx, newSchool, "Welcome to SchoolHub",
		fmt.Sprintf("%s has been registered and is awaiting verification. We will notify you once it is reviewed.", newSchool.Name))

	resp := ToSchoolResponse(newSchool)
	return &resp, nil
}

// Get returns one school
func (s *SchoolService) Get(ctx context.Context, id uuid.UUID) (*SchoolResponse, error) {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSchoolResponse(found)
	return &resp, nil
}

// List returns schools matching the filter. Platform admins only.
func (s *SchoolService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[SchoolResponse], error) {
	page, err := s.schoolRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SchoolResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToSchoolResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Approve verifies a school and notifies its contact address
func (s *SchoolService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SchoolResponse, error) {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := found.Approve(); err != nil {
		return nil, err
	}
	if err := s.schoolRepo.Save(ctx, found); err != nil {
		return nil, err
	}

	s.logger.Info("School approved",
		zap.String("school_id", found.ID.String()),
		zap.String("by", actor.UserID.String()))

	s.notify(ctx, found, "Your school has been verified",
		fmt.Sprintf("%s is now verified on SchoolHub. Staff and parents can start using the platform.", found.Name))

	resp := ToSchoolResponse(found)
	return &resp, nil
}

// Reject declines a school's verification with a reason
func (s *SchoolService) Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, input RejectSchoolInput) (*SchoolResponse, error) {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := found.Reject(input.Reason); err != nil {
		return nil, err
	}
	if err := s.schoolRepo.Save(ctx, found); err != nil {
		return nil, err
	}

	s.logger.Info("School rejected",
		zap.String("school_id", found.ID.String()),
		zap.String("by", actor.UserID.String()))

	s.notify(ctx, found, "Your school verification was declined",
		fmt.Sprintf("Verification for %s was declined: %s", found.Name, input.Reason))

	resp := ToSchoolResponse(found)
	return &resp, nil
}

// Update applies profile changes to a school
func (s *SchoolService) Update(ctx context.Context, id uuid.UUID, input UpdateSchoolInput) (*SchoolResponse, error) {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := found.Update(input.Name, input.Address, input.ContactEmail, input.ContactPhone); err != nil {
		return nil, err
	}
	if err := s.schoolRepo.Save(ctx, found); err != nil {
		return nil, err
	}
	resp := ToSchoolResponse(found)
	return &resp, nil
}

// SetSettlement resolves the payout account with the gateway, registers
// a settlement subaccount for the school and stores the result
func (s *SchoolService) SetSettlement(ctx context.Context, id uuid.UUID, input SettlementInput) error {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	account, err := s.gateway.ResolveBankAccount(ctx, input.BankCode, input.AccountNumber)
	if err != nil {
		s.logger.Warn("Bank account resolution failed",
			zap.String("school_id", found.ID.String()), zap.Error(err))
		return shared.NewDomainError("GATEWAY_ERROR", "Could not verify the bank account")
	}

	subaccountCode, err := s.gateway.CreateSubaccount(ctx, commerce.SubaccountRequest{
		BusinessName:     found.Name,
		BankCode:         account.BankCode,
		AccountNumber:    account.AccountNumber,
		PercentageCharge: platformSettlementShare,
	})
	if err != nil {
		s.logger.Warn("Subaccount creation failed",
			zap.String("school_id", found.ID.String()), zap.Error(err))
		return shared.NewDomainError("GATEWAY_ERROR", "Could not register the settlement account")
	}

	err = found.SetSettlement(school.SettlementAccount{
		BankCode:       account.BankCode,
		AccountNumber:  account.AccountNumber,
		AccountName:    account.AccountName,
		SubaccountCode: subaccountCode,
	})
	if err != nil {
		return err
	}
	if err := s.schoolRepo.Save(ctx, found); err != nil {
		return err
	}

	s.logger.Info("Settlement account registered",
		zap.String("school_id", found.ID.String()),
		zap.String("subaccount_code", subaccountCode))
	return nil
}

// Delete removes a school with no academic records left
func (s *SchoolService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	classes, err := s.schoolRepo.CountClasses(ctx, found.ID)
	if err != nil {
		return err
	}
	if classes > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"School still has classes; remove them first")
	}
	students, err := s.schoolRepo.CountStudents(ctx, found.ID)
	if err != nil {
		return err
	}
	if students > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"School still has students; remove them first")
	}

	if err := s.schoolRepo.Delete(ctx, found.ID); err != nil {
		return err
	}
	s.logger.Info("School deleted", zap.String("school_id", found.ID.String()))
	return nil
}

// UploadLogo stores the school's logo and records its URL
func (s *SchoolService) UploadLogo(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*SchoolResponse, error) {
	found, err := s.schoolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("schools/%s/logo", found.ID)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	found.SetLogoURL(url)
	if err := s.schoolRepo.Save(ctx, found); err != nil {
		return nil, err
	}
	resp := ToSchoolResponse(found)
	return &resp, nil
}

// notify sends a best-effort email to the school contact
func (s *SchoolService) notify(ctx context.Context, target *school.School, subject, body string) {
	err := s.mailer.Send(ctx, email.Message{
		ToAddress: target.ContactEmail,
		ToName:    target.Name,
		Subject:   subject,
		PlainText: body,
	})
	if err != nil {
		s.logger.Error("Failed to send school notification email",
			zap.String("school_id", target.ID.String()),
			zap.Error(err))
	}
}

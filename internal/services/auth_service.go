package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/waveshare/waveshare-api/internal/constants"
	"github.com/waveshare/waveshare-api/internal/models"
	"github.com/waveshare/waveshare-api/internal/notify"
	"github.com/waveshare/waveshare-api/internal/repository"
	"github.com/waveshare/waveshare-api/internal/storage"
	"github.com/waveshare/waveshare-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrOrganizationExists   = errors.New("organization with this email or domain already exists")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrgCodeExhausted     = errors.New("failed to generate a unique organization code")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrOTPExpired           = errors.New("one-time code has expired")
	ErrInvalidOTP           = errors.New("invalid one-time code")
	ErrInvalidTransition    = errors.New("verification step out of order")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFullyVerified     = errors.New("organization is not fully verified")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrCodeGeneration       = errors.New("failed to generate verification code")
)

// deliveryTimeout bounds a single notification attempt so a hung gateway
// cannot leak goroutines indefinitely.
const deliveryTimeout = 10 * time.Second

// AuthService owns the organization verification state machine: registration,
// the email and phone OTP lifecycles, the document step and admin login.
type AuthService struct {
	orgRepo  repository.OrganizationRepository
	notifier notify.Notifier
	blobs    storage.BlobStore
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(orgRepo repository.OrganizationRepository, notifier notify.Notifier, blobs storage.BlobStore, logger zerolog.Logger) *AuthService {
	return &AuthService{
		orgRepo:  orgRepo,
		notifier: notifier,
		blobs:    blobs,
		logger:   logger,
	}
}

// RegisterInput represents the required information to onboard an organization.
type RegisterInput struct {
	OrgName     string
	OrgType     models.OrgType
	EmailDomain string
	AdminEmail  string
	AdminName   string
	AdminPhone  string
	Password    string
}

// Register creates the organization in state pending, issues the email OTP
// and requests delivery. Delivery failure never fails the registration; the
// code is already persisted and can be resent.
func (s *AuthService) Register(input RegisterInput) (*models.Organization, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.orgRepo.FindByEmailOrDomain(input.AdminEmail, input.EmailDomain); err == nil {
		return nil, ErrOrganizationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing organization: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	orgID, err := utils.NewOrgID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization id: %w", err)
	}

	orgCode, err := s.uniqueOrgCode(input.OrgName)
	if err != nil {
		return nil, err
	}

	emailOTP, err := s.newOTP()
	if err != nil {
		return nil, err
	}

	org := &models.Organization{
		OrgID:              orgID,
		OrgCode:            orgCode,
		OrgName:            input.OrgName,
		OrgType:            input.OrgType,
		EmailDomain:        input.EmailDomain,
		AdminID:            utils.NewAdminID(orgCode),
		AdminEmail:         input.AdminEmail,
		AdminName:          input.AdminName,
		AdminPhone:         input.AdminPhone,
		AdminPasswordHash:  string(hashedPassword),
		VerificationStatus: models.StatusPending,
		EmailOTP:           emailOTP,
	}

	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	s.deliverEmailOTP(org)
	return org, nil
}

// uniqueOrgCode re-rolls the random suffix on store conflicts before giving up.
func (s *AuthService) uniqueOrgCode(orgName string) (string, error) {
	for attempt := 0; attempt < constants.OrgCodeMaxAttempts; attempt++ {
		code, err := utils.NewOrgCode(orgName)
		if err != nil {
			return "", fmt.Errorf("failed to generate organization code: %w", err)
		}
		taken, err := s.orgRepo.ExistsByOrgCode(code)
		if err != nil {
			return "", fmt.Errorf("failed to check organization code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrOrgCodeExhausted
}

func (s *AuthService) newOTP() (models.OTP, error) {
	code, err := utils.NewOTPCode()
	if err != nil {
		return models.OTP{}, ErrCodeGeneration
	}
	return models.OTP{
		Code:      code,
		ExpiresAt: time.Now().Add(constants.OTPTTL),
	}, nil
}

// VerifyEmailOTP checks the emailed code and, on success, advances the
// organization to email_verified and issues the phone OTP. Expiry is checked
// before equality; a failed check leaves the stored code untouched.
func (s *AuthService) VerifyEmailOTP(orgID, code string) (*models.Organization, error) {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	next, ok := org.VerificationStatus.Next(models.EventEmailConfirmed)
	if !ok {
		return nil, ErrInvalidTransition
	}

	if org.EmailOTP.Expired(time.Now()) {
		return nil, ErrOTPExpired
	}
	if !org.EmailOTP.Matches(code) {
		return nil, ErrInvalidOTP
	}

	phoneOTP, err := s.newOTP()
	if err != nil {
		return nil, err
	}

	org.VerificationStatus = next
	org.PhoneOTP = phoneOTP
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	s.deliverPhoneOTP(org)
	return org, nil
}

// VerifyPhoneOTP checks the SMS code and, on success, advances the
// organization to phone_verified.
func (s *AuthService) VerifyPhoneOTP(orgID, code string) (*models.Organization, error) {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	next, ok := org.VerificationStatus.Next(models.EventPhoneConfirmed)
	if !ok {
		return nil, ErrInvalidTransition
	}

	if org.PhoneOTP.Expired(time.Now()) {
		return nil, ErrOTPExpired
	}
	if !org.PhoneOTP.Matches(code) {
		return nil, ErrInvalidOTP
	}

	org.VerificationStatus = next
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// ResendEmailOTP issues a fresh email code regardless of the current
// verification state. The previous code stops matching immediately.
func (s *AuthService) ResendEmailOTP(orgID string) error {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return err
	}

	otp, err := s.newOTP()
	if err != nil {
		return err
	}
	org.EmailOTP = otp
	if err := s.orgRepo.Update(org); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	s.deliverEmailOTP(org)
	return nil
}

// ResendPhoneOTP issues a fresh SMS code regardless of the current
// verification state.
func (s *AuthService) ResendPhoneOTP(orgID string) error {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return err
	}

	otp, err := s.newOTP()
	if err != nil {
		return err
	}
	org.PhoneOTP = otp
	if err := s.orgRepo.Update(org); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	s.deliverPhoneOTP(org)
	return nil
}

// UploadDocument stores the verification document and advances the
// organization to fully_verified. The blob write happens before the record
// update so a stored URL always points at real bytes.
func (s *AuthService) UploadDocument(ctx context.Context, orgID, documentType, filename, contentType string, data []byte) (*models.Organization, error) {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	next, ok := org.VerificationStatus.Next(models.EventDocumentAccepted)
	if !ok {
		return nil, ErrInvalidTransition
	}

	_, url, err := s.blobs.Put(ctx, "documents/"+org.OrgID, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	org.DocumentURL = url
	org.DocumentType = documentType
	org.VerificationStatus = next
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// SkipDocument bypasses the document step and advances the organization to
// fully_verified.
func (s *AuthService) SkipDocument(orgID string) (*models.Organization, error) {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	next, ok := org.VerificationStatus.Next(models.EventDocumentAccepted)
	if !ok {
		return nil, ErrInvalidTransition
	}

	org.VerificationStatus = next
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// LoginInput holds the credentials for admin authentication. Identifier is
// the admin email or the admin ID.
type LoginInput struct {
	Identifier string
	Password   string
}

// Login verifies credentials for a fully verified organization and returns
// the record snapshot.
func (s *AuthService) Login(input LoginInput) (*models.Organization, error) {
	org, err := s.orgRepo.FindByAdminEmail(input.Identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		org, err = s.orgRepo.FindByAdminID(input.Identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.VerificationStatus != models.StatusFullyVerified {
		return nil, ErrNotFullyVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(org.AdminPasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return org, nil
}

// VerifyOrgCode resolves a shareable organization code to its organization.
// Matching is exact and case-sensitive after trimming surrounding whitespace.
func (s *AuthService) VerifyOrgCode(orgCode string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByOrgCode(strings.TrimSpace(orgCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// GetOrganization returns the record snapshot for an organization ID.
func (s *AuthService) GetOrganization(orgID string) (*models.Organization, error) {
	return s.findByOrgID(orgID)
}

func (s *AuthService) findByOrgID(orgID string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByOrgID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// deliverEmailOTP requests delivery in the background. The OTP row is already
// persisted; a failed or timed-out send is logged and left for a resend.
func (s *AuthService) deliverEmailOTP(org *models.Organization) {
	email, name, code, orgID := org.AdminEmail, org.OrgName, org.EmailOTP.Code, org.OrgID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := s.notifier.SendEmailOTP(ctx, email, name, code); err != nil {
			s.logger.Error().Err(err).Str("org_id", orgID).Msg("email OTP delivery failed")
		}
	}()
}

func (s *AuthService) deliverPhoneOTP(org *models.Organization) {
	phone, name, code, orgID := org.AdminPhone, org.OrgName, org.PhoneOTP.Code, org.OrgID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := s.notifier.SendSMSOTP(ctx, phone, name, code); err != nil {
			s.logger.Error().Err(err).Str("org_id", orgID).Msg("phone OTP delivery failed")
		}
	}()
}

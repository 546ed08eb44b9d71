package repository

import (
	"github.com/waveshare/waveshare-api/internal/models"
)

// OrganizationRepository defines the interface for organization data access.
// Every lookup is by one of the globally unique keys of the aggregate.
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByOrgID finds an organization by its opaque organization ID
	FindByOrgID(orgID string) (*models.Organization, error)

	// FindByOrgCode finds an organization by its shareable code
	FindByOrgCode(orgCode string) (*models.Organization, error)

	// FindByAdminEmail finds an organization by its admin email
	FindByAdminEmail(email string) (*models.Organization, error)

	// FindByAdminID finds an organization by its admin identifier
	FindByAdminID(adminID string) (*models.Organization, error)

	// FindByEmailOrDomain finds an organization matching either the admin
	// email or the email domain; used for the registration conflict check
	FindByEmailOrDomain(adminEmail, emailDomain string) (*models.Organization, error)

	// ExistsByOrgCode reports whether a code is already taken
	ExistsByOrgCode(orgCode string) (bool, error)

	// Update persists the full organization record
	Update(org *models.Organization) error
}

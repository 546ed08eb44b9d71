package repository

import (
	"github.com/waveshare/waveshare-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByOrgID finds an organization by its opaque organization ID
func (r *GormOrganizationRepository) FindByOrgID(orgID string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("org_id = ?", orgID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByOrgCode finds an organization by its shareable code
func (r *GormOrganizationRepository) FindByOrgCode(orgCode string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("org_code = ?", orgCode).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByAdminEmail finds an organization by its admin email
func (r *GormOrganizationRepository) FindByAdminEmail(email string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("admin_email = ?", email).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByAdminID finds an organization by its admin identifier
func (r *GormOrganizationRepository) FindByAdminID(adminID string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("admin_id = ?", adminID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByEmailOrDomain finds an organization matching either unique key.
func (r *GormOrganizationRepository) FindByEmailOrDomain(adminEmail, emailDomain string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("admin_email = ? OR email_domain = ?", adminEmail, emailDomain).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ExistsByOrgCode reports whether a code is already taken
func (r *GormOrganizationRepository) ExistsByOrgCode(orgCode string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Organization{}).Where("org_code = ?", orgCode).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists the full organization record
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

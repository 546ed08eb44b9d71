package dto

import (
	"time"

	"github.com/waveshare/waveshare-api/internal/models"
)

// RegistrationDTO is returned on successful registration.
type RegistrationDTO struct {
	OrgID   string `json:"org_id"`
	OrgCode string `json:"org_code"`
	AdminID string `json:"admin_id"`
	OrgName string `json:"org_name"`
}

// VerificationStepDTO is returned by the verification-step endpoints.
type VerificationStepDTO struct {
	OrgCode            string                    `json:"org_code"`
	AdminID            string                    `json:"admin_id"`
	OrgName            string                    `json:"org_name"`
	VerificationStatus models.VerificationStatus `json:"verification_status"`
	AdminPhone         string                    `json:"admin_phone,omitempty"`
	DocumentURL        string                    `json:"document_url,omitempty"`
}

// OrgCodeDTO is the public resolution of a shareable organization code.
type OrgCodeDTO struct {
	OrgID   string         `json:"org_id"`
	OrgName string         `json:"org_name"`
	OrgCode string         `json:"org_code"`
	OrgType models.OrgType `json:"org_type"`
}

// OrganizationDTO is the full record snapshot returned at login. Member
// totals are derived from the hierarchy tree, the single source of truth in
// hierarchy mode.
type OrganizationDTO struct {
	OrgID              string                    `json:"org_id"`
	OrgCode            string                    `json:"org_code"`
	OrgName            string                    `json:"org_name"`
	OrgType            models.OrgType            `json:"org_type"`
	EmailDomain        string                    `json:"email_domain"`
	AdminID            string                    `json:"admin_id"`
	AdminEmail         string                    `json:"admin_email"`
	AdminName          string                    `json:"admin_name"`
	AdminPhone         string                    `json:"admin_phone"`
	VerificationStatus models.VerificationStatus `json:"verification_status"`
	DocumentURL        string                    `json:"document_url,omitempty"`
	DocumentType       string                    `json:"document_type,omitempty"`
	MembersCSVURL      string                    `json:"members_csv_url,omitempty"`
	CSVUploadedAt      *time.Time                `json:"csv_uploaded_at,omitempty"`
	HasCSVUploaded     bool                      `json:"has_csv_uploaded"`
	Hierarchy          *models.Hierarchy         `json:"hierarchy,omitempty"`
	TotalMembers       int                       `json:"total_members"`
	TotalStudents      int                       `json:"total_students"`
	TotalFaculty       int                       `json:"total_faculty"`
	TotalStaff         int                       `json:"total_staff"`
	StudentsCSVURL     string                    `json:"students_csv_url,omitempty"`
	StudentsCount      int                       `json:"students_count,omitempty"`
	TeachersCSVURL     string                    `json:"teachers_csv_url,omitempty"`
	TeachersCount      int                       `json:"teachers_count,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// ToRegistrationDTO converts a freshly created organization.
func ToRegistrationDTO(org models.Organization) RegistrationDTO {
	return RegistrationDTO{
		OrgID:   org.OrgID,
		OrgCode: org.OrgCode,
		AdminID: org.AdminID,
		OrgName: org.OrgName,
	}
}

// ToVerificationStepDTO converts an organization after a verification step.
func ToVerificationStepDTO(org models.Organization) VerificationStepDTO {
	return VerificationStepDTO{
		OrgCode:            org.OrgCode,
		AdminID:            org.AdminID,
		OrgName:            org.OrgName,
		VerificationStatus: org.VerificationStatus,
		DocumentURL:        org.DocumentURL,
	}
}

// ToOrgCodeDTO converts an organization resolved by its shareable code.
func ToOrgCodeDTO(org models.Organization) OrgCodeDTO {
	return OrgCodeDTO{
		OrgID:   org.OrgID,
		OrgName: org.OrgName,
		OrgCode: org.OrgCode,
		OrgType: org.OrgType,
	}
}

// ToOrganizationDTO converts an organization to its full snapshot.
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	out := OrganizationDTO{
		OrgID:              org.OrgID,
		OrgCode:            org.OrgCode,
		OrgName:            org.OrgName,
		OrgType:            org.OrgType,
		EmailDomain:        org.EmailDomain,
		AdminID:            org.AdminID,
		AdminEmail:         org.AdminEmail,
		AdminName:          org.AdminName,
		AdminPhone:         org.AdminPhone,
		VerificationStatus: org.VerificationStatus,
		DocumentURL:        org.DocumentURL,
		DocumentType:       org.DocumentType,
		MembersCSVURL:      org.MembersCSVURL,
		CSVUploadedAt:      org.CSVUploadedAt,
		HasCSVUploaded:     org.HasCSVUploaded,
		Hierarchy:          org.Hierarchy,
		StudentsCSVURL:     org.StudentsCSVURL,
		StudentsCount:      org.StudentsCount,
		TeachersCSVURL:     org.TeachersCSVURL,
		TeachersCount:      org.TeachersCount,
		CreatedAt:          org.CreatedAt,
	}

	if org.Hierarchy != nil {
		out.TotalMembers = org.Hierarchy.TotalMembers
		out.TotalStudents = org.Hierarchy.TotalStudents
		out.TotalFaculty = org.Hierarchy.TotalFaculty
		out.TotalStaff = org.Hierarchy.TotalStaff
	}

	return out
}

package models

import (
	"time"
)

type OrgType string

const (
	OrgTypeEducation  OrgType = "education"
	OrgTypeMining     OrgType = "mining"
	OrgTypeHealthcare OrgType = "healthcare"
	OrgTypeCorporate  OrgType = "corporate"
	OrgTypeOther      OrgType = "other"
)

// OTP is a one-time verification code with its validity window.
// It is persisted but never serialized into API responses.
type OTP struct {
	Code      string    `gorm:"type:varchar(6)" json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the code is past its validity window at t.
func (o OTP) Expired(t time.Time) bool {
	return t.After(o.ExpiresAt)
}

// Matches reports whether the supplied code equals the stored one.
func (o OTP) Matches(code string) bool {
	return o.Code != "" && o.Code == code
}

type Organization struct {
	ID uint64 `gorm:"primarykey" json:"-"`

	// Identity
	OrgID       string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"org_id"`
	OrgCode     string  `gorm:"type:varchar(32);uniqueIndex;not null" json:"org_code"`
	OrgName     string  `gorm:"type:varchar(255);not null" json:"org_name"`
	OrgType     OrgType `gorm:"type:varchar(32);not null" json:"org_type"`
	EmailDomain string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email_domain"`

	// Admin identity
	AdminID           string `gorm:"type:varchar(32);not null" json:"admin_id"`
	AdminEmail        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"admin_email"`
	AdminName         string `gorm:"type:varchar(255);not null" json:"admin_name"`
	AdminPhone        string `gorm:"type:varchar(32);not null" json:"admin_phone"`
	AdminPasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// Verification
	VerificationStatus VerificationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"verification_status"`
	EmailOTP           OTP                `gorm:"embedded;embeddedPrefix:email_otp_" json:"-"`
	PhoneOTP           OTP                `gorm:"embedded;embeddedPrefix:phone_otp_" json:"-"`
	DocumentURL        string             `gorm:"type:varchar(512)" json:"document_url,omitempty"`
	DocumentType       string             `gorm:"type:varchar(64)" json:"document_type,omitempty"`

	// Roster artifacts, hierarchy mode
	MembersCSVURL  string     `gorm:"type:varchar(512)" json:"members_csv_url,omitempty"`
	MembersCSVKey  string     `gorm:"type:varchar(128)" json:"-"`
	CSVUploadedAt  *time.Time `json:"csv_uploaded_at,omitempty"`
	HasCSVUploaded bool       `gorm:"not null;default:false" json:"has_csv_uploaded"`
	Hierarchy      *Hierarchy `gorm:"serializer:json" json:"hierarchy,omitempty"`

	// Roster artifacts, typed mode
	StudentsCSVURL string `gorm:"type:varchar(512)" json:"students_csv_url,omitempty"`
	StudentsCSVKey string `gorm:"type:varchar(128)" json:"-"`
	StudentsCount  int    `gorm:"not null;default:0" json:"students_count,omitempty"`
	TeachersCSVURL string `gorm:"type:varchar(512)" json:"teachers_csv_url,omitempty"`
	TeachersCSVKey string `gorm:"type:varchar(128)" json:"-"`
	TeachersCount  int    `gorm:"not null;default:0" json:"teachers_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

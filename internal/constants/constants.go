package constants

import "time"

// Session
const (
	SessionCookieName = "waveshare_session"
	ContextKeyOrgID   = "org_id"
)

// Verification codes
const (
	// OTPTTL is the validity window of a one-time code from issuance.
	OTPTTL = 10 * time.Minute

	// OrgCodePrefixLength is the number of letters taken from the organization name.
	OrgCodePrefixLength = 3

	// OrgCodeSuffixLength is the number of hex characters after the dash.
	OrgCodeSuffixLength = 5

	// OrgCodeMaxAttempts bounds re-rolls when a generated code collides.
	OrgCodeMaxAttempts = 5
)

// Passwords
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

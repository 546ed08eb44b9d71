package models

type VerificationStatus string

const (
	StatusPending       VerificationStatus = "pending"
	StatusEmailVerified VerificationStatus = "email_verified"
	StatusPhoneVerified VerificationStatus = "phone_verified"
	StatusFullyVerified VerificationStatus = "fully_verified"
)

// VerificationEvent advances an organization through the verification flow.
type VerificationEvent string

const (
	EventEmailConfirmed   VerificationEvent = "email_confirmed"
	EventPhoneConfirmed   VerificationEvent = "phone_confirmed"
	EventDocumentAccepted VerificationEvent = "document_accepted"
)

// transitions is the only legal ordering. fully_verified is terminal.
var transitions = map[VerificationStatus]map[VerificationEvent]VerificationStatus{
	StatusPending: {
		EventEmailConfirmed: StatusEmailVerified,
	},
	StatusEmailVerified: {
		EventPhoneConfirmed: StatusPhoneVerified,
	},
	StatusPhoneVerified: {
		EventDocumentAccepted: StatusFullyVerified,
	},
}

// Next returns the status after applying event, or false when the event is
// not legal from the current status.
func (s VerificationStatus) Next(event VerificationEvent) (VerificationStatus, bool) {
	next, ok := transitions[s][event]
	return next, ok
}

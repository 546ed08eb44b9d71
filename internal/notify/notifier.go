package notify

import (
	"context"
)

// Notifier delivers one-time codes over an external channel. Delivery is
// best-effort: the code is already persisted when a send is attempted, so a
// failed send leaves the user to request a resend.
type Notifier interface {
	// SendEmailOTP delivers a verification code to the admin email.
	SendEmailOTP(ctx context.Context, email, orgName, code string) error

	// SendSMSOTP delivers a verification code to the admin phone.
	SendSMSOTP(ctx context.Context, phone, orgName, code string) error
}

package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes codes to the log instead of delivering them. Used in
// development and whenever no delivery webhook is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier returns a Notifier that only logs.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendEmailOTP implements Notifier.
func (n *LogNotifier) SendEmailOTP(ctx context.Context, email, orgName, code string) error {
	n.logger.Info().
		Str("channel", "email").
		Str("to", email).
		Str("org_name", orgName).
		Str("code", code).
		Msg("one-time code issued")
	return nil
}

// SendSMSOTP implements Notifier.
func (n *LogNotifier) SendSMSOTP(ctx context.Context, phone, orgName, code string) error {
	n.logger.Info().
		Str("channel", "sms").
		Str("to", phone).
		Str("org_name", orgName).
		Str("code", code).
		Msg("one-time code issued")
	return nil
}

var _ Notifier = (*LogNotifier)(nil)

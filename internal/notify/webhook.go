package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier POSTs delivery requests as JSON to external email/SMS
// gateway endpoints. The client carries a bounded timeout so a hung gateway
// cannot stall a caller indefinitely.
type WebhookNotifier struct {
	client   *http.Client
	emailURL string
	smsURL   string
}

// WebhookNotifierOption configures WebhookNotifier.
type WebhookNotifierOption func(*WebhookNotifier)

// WithClient sets the HTTP client (default: 10s timeout).
func WithClient(c *http.Client) WebhookNotifierOption {
	return func(n *WebhookNotifier) {
		n.client = c
	}
}

// NewWebhookNotifier returns a Notifier backed by gateway webhooks.
func NewWebhookNotifier(emailURL, smsURL string, opts ...WebhookNotifierOption) *WebhookNotifier {
	n := &WebhookNotifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		emailURL: emailURL,
		smsURL:   smsURL,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type deliveryRequest struct {
	To      string `json:"to"`
	OrgName string `json:"org_name"`
	Code    string `json:"code"`
}

// SendEmailOTP implements Notifier.
func (n *WebhookNotifier) SendEmailOTP(ctx context.Context, email, orgName, code string) error {
	return n.post(ctx, n.emailURL, deliveryRequest{To: email, OrgName: orgName, Code: code})
}

// SendSMSOTP implements Notifier.
func (n *WebhookNotifier) SendSMSOTP(ctx context.Context, phone, orgName, code string) error {
	return n.post(ctx, n.smsURL, deliveryRequest{To: phone, OrgName: orgName, Code: code})
}

func (n *WebhookNotifier) post(ctx context.Context, url string, payload deliveryRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delivery gateway returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Notifier = (*WebhookNotifier)(nil)

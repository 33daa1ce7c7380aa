package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"avoidxray/internal/config"
)

// Notifier alerts administrators that a new moderation submission is waiting.
// Implementations must be safe to call from request goroutines; failures are
// logged by callers and never propagated to the submitting user.
type Notifier interface {
	NotifyModeration(ctx context.Context, resourceType, resourceName string, brand *string, submitter, resourceID string) error
}

// MailtrapNotifier sends admin notification emails through the Mailtrap
// send API.
type MailtrapNotifier struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewMailtrap creates a MailtrapNotifier
func NewMailtrap(cfg config.MailConfig) *MailtrapNotifier {
	return &MailtrapNotifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

const mailtrapSendURL = "https://send.api.mailtrap.io/api/send"

type mailtrapAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailtrapPayload struct {
	From    mailtrapAddress   `json:"from"`
	To      []mailtrapAddress `json:"to"`
	Subject string            `json:"subject"`
	Text    string            `json:"text"`
}

// NotifyModeration emails every configured admin about a pending submission
func (n *MailtrapNotifier) NotifyModeration(ctx context.Context, resourceType, resourceName string, brand *string, submitter, resourceID string) error {
	if n.cfg.APIKey == "" || len(n.cfg.AdminEmails) == 0 {
		return nil
	}

	displayName := resourceName
	if brand != nil && *brand != "" {
		displayName = *brand + " " + resourceName
	}

	to := make([]mailtrapAddress, 0, len(n.cfg.AdminEmails))
	for _, email := range n.cfg.AdminEmails {
		to = append(to, mailtrapAddress{Email: email})
	}

	payload := mailtrapPayload{
		From: mailtrapAddress{
			Email: n.cfg.FromEmail,
			Name:  n.cfg.FromName,
		},
		To:      to,
		Subject: fmt.Sprintf("New %s edit awaiting review: %s", resourceType, displayName),
		Text: fmt.Sprintf(
			"%s submitted an edit to %s %q (id %s).\n\nReview it here: %s/admin/moderation\n",
			submitter, resourceType, displayName, resourceID, n.cfg.BaseURL,
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mailtrapSendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}
	return nil
}

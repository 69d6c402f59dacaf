package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mailer sends transactional email through the Resend HTTP API. With
// an empty API key Send becomes a logged no-op so local development
// works without credentials.
type Mailer struct {
	APIKey  string
	From    string
	BaseURL string
	HTTP    *http.Client
}

func NewMailer(apiKey string) *Mailer {
	return &Mailer{
		APIKey:  apiKey,
		From:    "HEKAYATY <noreply@hekayaty.com>",
		BaseURL: "https://api.resend.com",
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one HTML email. Callers treat failures as non-fatal.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if m.APIKey == "" {
		return nil
	}
	body, err := json.Marshal(emailRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("resend: %s: %s", resp.Status, string(b))
	}
	return nil
}

// SendVIPCode emails a freshly generated VIP code to its recipient.
func (m *Mailer) SendVIPCode(ctx context.Context, to, code string, expiresAt time.Time) error {
	html := fmt.Sprintf(
		`<h2>Your HEKAYATY VIP code</h2><p>Redeem <strong>%s</strong> before %s to activate your VIP subscription.</p>`,
		code, expiresAt.Format("Jan 2, 2006"))
	return m.Send(ctx, to, "Your HEKAYATY VIP code", html)
}

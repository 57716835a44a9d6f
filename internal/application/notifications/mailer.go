package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// Mailer mirrors notifications to email via Brevo transactional API.
// An empty APIKey makes every send a no-op.
type Mailer struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (m *Mailer) from() string {
	if m.MailFrom != "" {
		return m.MailFrom
	}
	return "noreply@proact.community"
}

// Send delivers one transactional email.
func (m *Mailer) Send(ctx context.Context, toEmail, notificationType, message string) error {
	if m.APIKey == "" {
		return nil
	}
	body := brevoSendRequest{
		Sender:      brevoAddress{Email: m.from(), Name: "ProAct"},
		To:          []brevoAddress{{Email: toEmail}},
		Subject:     subjectFor(notificationType),
		HTMLContent: emailBody(message),
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", m.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if m.Client == nil {
		m.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

func subjectFor(notificationType string) string {
	switch notificationType {
	case TypeProjectUpdate:
		return "New update on a project you follow"
	case TypeReportStatus:
		return "Your report status has changed"
	default:
		return "ProAct notification"
	}
}

func emailBody(message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0;padding:0;background-color:#F3F4F6;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%%" border="0" cellspacing="0" cellpadding="0">
    <tr><td align="center" style="padding:40px 0;">
      <table role="presentation" width="600" style="width:600px;background-color:#FFFFFF;border-radius:8px;">
        <tr><td style="padding:40px 48px;">
          <h1 style="color:#111827;font-size:22px;margin:0 0 16px 0;">ProAct</h1>
          <p style="margin:0 0 24px 0;font-size:16px;line-height:1.6;color:#374151;">%s</p>
          <p style="margin:0;font-size:13px;color:#6B7280;">You are receiving this because of activity on a project you are involved with.</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, escapeHTML(message))
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

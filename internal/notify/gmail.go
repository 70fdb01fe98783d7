package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	gmailSendURL   = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

// LogMailer is the dev fallback when no Gmail credentials are configured:
// it logs the message instead of delivering it.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) SendMail(_ context.Context, to, subject, _ string) error {
	m.Log.Info("email suppressed (no mailer configured)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// GmailMailer sends through the Gmail REST API, authenticating with an
// OAuth refresh token for the sending account.
type GmailMailer struct {
	from   string
	client *http.Client
}

func NewGmailMailer(ctx context.Context, clientID, clientSecret, refreshToken, from string) *GmailMailer {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.send"},
	}
	token := &oauth2.Token{RefreshToken: refreshToken}

	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))
	client.Timeout = 20 * time.Second

	return &GmailMailer{from: from, client: client}
}

func (m *GmailMailer) SendMail(ctx context.Context, to, subject, html string) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	payload, err := json.Marshal(map[string]string{
		"raw": base64.RawURLEncoding.EncodeToString(msg.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gmailSendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gmail api: %s: %s", resp.Status, body)
	}
	return nil
}

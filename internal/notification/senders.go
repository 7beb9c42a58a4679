package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// EmailSender delivers intents through an SMTP relay.
type EmailSender struct {
	cfg config.SMTPConfig

	// send is smtp.SendMail outside of tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg, send: smtp.SendMail}
}

func (s *EmailSender) Send(ctx context.Context, intent models.NotificationIntent) error {
	if len(intent.Recipients) == 0 {
		return ErrNoRecipients
	}
	if s.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}

	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	from := s.cfg.From
	if from == "" {
		from = "alerts@sensorhub.local"
	}

	msg := buildEmail(from, intent.Recipients, intent.Subject, intent.Body)

	errCh := make(chan error, 1)
	go func() { errCh <- s.send(addr, auth, from, intent.Recipients, msg) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildEmail(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	headers := [][2]string{
		{"From", from},
		{"To", strings.Join(to, ", ")},
		{"Subject", subject},
		{"Date", time.Now().UTC().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/plain; charset="utf-8"`},
	}
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// SMSSender posts messages to an HTTP SMS gateway. When a token URL is
// configured the gateway is called with an OAuth2 client-credentials token.
type SMSSender struct {
	gatewayURL string
	from       string
	client     *http.Client
}

func NewSMSSender(ctx context.Context, cfg config.SMSConfig) *SMSSender {
	base := &http.Client{Timeout: 10 * time.Second}
	client := base

	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		client = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
		client.Timeout = 10 * time.Second
	}

	return &SMSSender{gatewayURL: cfg.GatewayURL, from: cfg.Sender, client: client}
}

type smsMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

func (s *SMSSender) Send(ctx context.Context, intent models.NotificationIntent) error {
	if len(intent.Recipients) == 0 {
		return ErrNoRecipients
	}
	if s.gatewayURL == "" {
		return errors.New("sms gateway not configured")
	}

	text := intent.Subject
	if intent.Body != "" && intent.Body != intent.Subject {
		text += ": " + intent.Body
	}

	var errs []error
	for _, to := range intent.Recipients {
		if err := postJSON(ctx, s.client, s.gatewayURL, nil, smsMessage{From: s.from, To: to, Message: text}); err != nil {
			errs = append(errs, fmt.Errorf("sms to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

// WebhookSender posts intents to the webhook channels of the channels file.
type WebhookSender struct {
	channels []WebhookChannel
	client   *http.Client
}

func NewWebhookSender(channels []WebhookChannel) *WebhookSender {
	return &WebhookSender{
		channels: channels,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WebhookSender) Send(ctx context.Context, intent models.NotificationIntent) error {
	var errs []error
	for _, ch := range s.channels {
		if !ch.Accepts(intent) {
			continue
		}
		if err := postJSON(ctx, s.client, ch.URL, ch.Headers, webhookPayload(ch.Format, intent)); err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", ch.Name, err))
		}
	}
	return errors.Join(errs...)
}

func webhookPayload(format string, intent models.NotificationIntent) interface{} {
	switch strings.ToLower(format) {
	case "slack":
		return map[string]interface{}{
			"text": fmt.Sprintf("*%s*\n%s\n_Severity: %s_", intent.Subject, intent.Body, intent.Severity),
		}
	case "discord":
		return map[string]interface{}{
			"content": fmt.Sprintf("**%s**\n%s", intent.Subject, intent.Body),
		}
	default:
		return intent
	}
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}
	return nil
}

// RealtimeSender publishes intents on the event bus.
type RealtimeSender struct {
	bus events.Bus
}

func NewRealtimeSender(bus events.Bus) *RealtimeSender {
	return &RealtimeSender{bus: bus}
}

func (s *RealtimeSender) Send(_ context.Context, intent models.NotificationIntent) error {
	event := intent.Event
	if event == "" {
		event = models.EventAlert
	}

	var payload interface{} = intent
	if intent.Data != nil {
		payload = intent.Data
	}

	s.bus.Publish(intent.TenantID, event, payload)
	return nil
}

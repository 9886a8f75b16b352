// Package sendgrid delivers notification emails through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/domain"
)

const (
	defaultHost    = "https://api.sendgrid.com"
	sendEndpoint   = "/v3/mail/send"
	defaultTimeout = 10 * time.Second
)

// Config holds the SendGrid settings.
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	Host      string // defaults to the public API
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Mailer implements domain.Mailer.
type Mailer struct {
	apiKey  string
	host    string
	from    *mail.Email
	timeout time.Duration
	logger  *zap.Logger
}

// NewMailer creates a SendGrid mailer.
func NewMailer(cfg *Config) *Mailer {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		apiKey:  cfg.APIKey,
		host:    host,
		from:    mail.NewEmail(cfg.FromName, cfg.FromEmail),
		timeout: timeout,
		logger:  logger,
	}
}

// Send delivers msg. Any non-2xx reply is a transport failure.
func (m *Mailer) Send(ctx context.Context, msg domain.Email) error {
	if msg.To == "" {
		return fmt.Errorf("recipient is required: %w", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req := sg.GetRequest(m.apiKey, sendEndpoint, m.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(m.build(msg))

	resp, err := sg.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("send email: %w: %w", domain.ErrTransportFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send email: status %d: %s: %w", resp.StatusCode, resp.Body, domain.ErrTransportFailure)
	}

	m.logger.Debug("Email accepted", zap.String("to", msg.To), zap.Int("status", resp.StatusCode))
	return nil
}

func (m *Mailer) build(msg domain.Email) *mail.SGMailV3 {
	name := msg.ToName
	if name == "" {
		name = msg.To
	}

	message := mail.NewV3Mail()
	message.SetFrom(m.from)
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(name, msg.To))
	message.AddPersonalizations(p)

	if msg.Text != "" {
		message.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}
	return message
}

// LogMailer logs messages instead of delivering them. Used when no API key is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg and reports success.
func (l *LogMailer) Send(_ context.Context, msg domain.Email) error {
	l.logger.Info("Email delivery disabled, message dropped",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

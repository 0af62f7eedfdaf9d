// Package email delivers follower notifications through Resend. When
// delivery is disabled messages are only logged.
package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/config"
	"github.com/Togather-Foundation/eventhub/internal/sanitize"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrInvalidAddress = errors.New("invalid email address")

// Message is one rendered notification.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EventChangeData is the template input for event notifications.
type EventChangeData struct {
	EventName string
	EventURL  string
}

type Service struct {
	config    config.EmailConfig
	client    *resend.Client
	templates *template.Template
	logger    zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	s := &Service{
		config:    cfg,
		templates: templates,
		logger:    logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		s.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return s, nil
}

// WithClient swaps the Resend client. Tests point it at a fake server.
func (s *Service) WithClient(client *resend.Client) *Service {
	s.client = client
	return s
}

// Enabled reports whether messages leave the process.
func (s *Service) Enabled() bool {
	return s.config.Enabled
}

// RenderEventChange builds the message for a single follower. change is
// "updated" or "deleted".
func (s *Service) RenderEventChange(to, change string, data EventChangeData) (Message, error) {
	if err := validateEmailAddress(to); err != nil {
		return Message{}, err
	}

	var name, subject string
	switch change {
	case "updated":
		name, subject = "event_updated.html", "Event updated: "+data.EventName
	case "deleted":
		name, subject = "event_deleted.html", "Event cancelled: "+data.EventName
	default:
		return Message{}, fmt.Errorf("unknown event change %q", change)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("execute template %s: %w", name, err)
	}
	return Message{
		To:      to,
		Subject: subject,
		HTML:    buf.String(),
		Text:    sanitize.PlainText(buf.String()),
	}, nil
}

// Send delivers msg, or logs it when email is disabled.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if !s.config.Enabled {
		s.logger.Info().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("email disabled, skipping delivery")
		return nil
	}
	return s.sendViaResend(ctx, msg)
}

func (s *Service) sendViaResend(ctx context.Context, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("resend client not initialized")
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Str("to", msg.To).
		Msg("email sent via Resend")
	return nil
}

func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("%w: contains newline characters", ErrInvalidAddress)
	}
	return nil
}

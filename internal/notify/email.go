package notify

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/care-portal/internal/privacy"
	"github.com/wolfman30/care-portal/pkg/logging"
)

const defaultFromName = "Care Portal"

// EmailSender delivers a single message. SendGrid, SES and the logging stub
// implement it.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one outbound email. HTML may be empty.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
	HTML    string
}

// sender is the From identity shared by the provider-backed senders.
type sender struct {
	Name  string
	Email string
}

func newSender(name, email string) sender {
	if name == "" {
		name = defaultFromName
	}
	return sender{Name: name, Email: email}
}

// String renders the identity as an RFC 5322 address, quoting the name.
func (s sender) String() string {
	return (&netmail.Address{Name: s.Name, Address: s.Email}).String()
}

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridConfig configures NewSendGridSender.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender delivers through the SendGrid v3 API.
type SendGridSender struct {
	client sendgridAPI
	from   sender
	logger *logging.Logger
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   newSender(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

// From returns the formatted From address.
func (s *SendGridSender) From() string {
	return s.from.String()
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return errors.New("notify: sendgrid client not configured")
	}
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Email),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Body,
		html,
	)

	toHash := privacy.Hash(msg.To)
	resp, err := s.client.SendWithContext(ctx, message)
	switch {
	case err != nil:
		s.logger.Error("sendgrid send failed", "error", err, "to_hash", toHash)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	case resp.StatusCode >= 400:
		s.logger.Error("sendgrid rejected message", "status", resp.StatusCode, "to_hash", toHash)
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}
	s.logger.Info("email sent via sendgrid", "to_hash", toHash, "subject", msg.Subject, "status", resp.StatusCode)
	return nil
}

// StubEmailSender logs instead of sending. It backs the report mailer when
// no provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email provider disabled; message not sent", "to_hash", privacy.Hash(msg.To), "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)

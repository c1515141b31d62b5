package notify

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	netmail "net/mail"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/care-portal/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if got := sender.From(); got != `"Care Portal" <test@example.com>` {
		t.Errorf("expected default from name, got %q", got)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})

	if err == nil {
		t.Error("expected error when client is nil")
	}
}

type fakeSendGrid struct {
	status int
	err    error
	sent   *mail.SGMailV3
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestSendGridSender_Send(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeSendGrid
		wantErr bool
	}{
		{"accepted", &fakeSendGrid{status: http.StatusAccepted}, false},
		{"error status", &fakeSendGrid{status: http.StatusBadRequest}, true},
		{"transport error", &fakeSendGrid{err: errors.New("boom")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &SendGridSender{client: tt.fake, from: newSender("", "from@example.com"), logger: logging.Default()}
			err := sender.Send(context.Background(), EmailMessage{To: "to@example.com", Subject: "Hi", Body: "text"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if tt.fake.sent == nil || tt.fake.sent.Subject != "Hi" {
				t.Fatalf("expected message to reach client")
			}
			if tt.fake.sent.From.Name != "Care Portal" || tt.fake.sent.From.Address != "from@example.com" {
				t.Fatalf("unexpected from %+v", tt.fake.sent.From)
			}
		})
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{FromEmail: "a@example.com"}, nil); sender != nil {
		t.Fatal("expected nil sender for nil client")
	}
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	sender := NewSESSender(fake, SESConfig{FromEmail: "noreply@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "patient@example.com",
		Subject: "Report",
		Body:    "plain",
		HTML:    "<p>html</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	from, err := netmail.ParseAddress(aws.ToString(fake.input.FromEmailAddress))
	if err != nil {
		t.Fatalf("from address does not parse: %v", err)
	}
	if from.Name != "Care Portal" || from.Address != "noreply@example.com" {
		t.Fatalf("unexpected from address %+v", from)
	}
	body := fake.input.Content.Simple.Body
	if aws.ToString(body.Text.Data) != "plain" || aws.ToString(body.Html.Data) != "<p>html</p>" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "noreply@example.com"}, nil)
	if err := sender.Send(context.Background(), EmailMessage{To: "x@example.com", Subject: "s"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})

	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}

func TestStubEmailSender_DoesNotLogAddress(t *testing.T) {
	var buf bytes.Buffer
	sender := NewStubEmailSender(logging.NewWithWriter(&buf, "info"))

	if err := sender.Send(context.Background(), EmailMessage{To: "patient@example.com", Subject: "s"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "patient@example.com") {
		t.Fatalf("log line leaked the recipient address: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "to_hash") {
		t.Fatalf("expected hashed recipient in log line: %s", buf.String())
	}
}

func TestSenderQuotesDisplayName(t *testing.T) {
	from := newSender("Smith, Clinic", "noreply@example.com")
	parsed, err := netmail.ParseAddress(from.String())
	if err != nil {
		t.Fatalf("from address does not parse: %v", err)
	}
	if parsed.Name != "Smith, Clinic" {
		t.Fatalf("unexpected name %q", parsed.Name)
	}
}

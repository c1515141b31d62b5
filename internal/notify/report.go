package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"github.com/wolfman30/care-portal/pkg/logging"
)

var (
	// ErrInvalidRecipient is returned when a report copy is requested for an
	// address that does not parse.
	ErrInvalidRecipient = errors.New("notify: invalid recipient address")
	// ErrRecipientNotAllowed is returned when the address is outside the
	// allowed domains. With no domains configured every address is refused.
	ErrRecipientNotAllowed = errors.New("notify: recipient domain not allowed")
)

// Report is a rendered analysis ready to be mailed to the patient.
type Report struct {
	CheckID      string
	To           string
	Analysis     string
	AnalysisHTML template.HTML
	ImageHTML    template.HTML
}

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html><body>
<h2>Your symptom analysis</h2>
<p>Reference: {{ .CheckID }}</p>
{{ .AnalysisHTML }}
{{- if .ImageHTML }}
<h3>Image analysis</h3>
{{ .ImageHTML }}
{{- end }}
</body></html>`))

// ReportMailer sends a copy of a completed analysis to addresses in an
// allow-listed set of domains.
type ReportMailer struct {
	sender  EmailSender
	domains map[string]struct{}
	logger  *logging.Logger
}

// NewReportMailer wraps sender. A nil sender falls back to the stub. Copies
// go only to addresses whose domain is in allowedDomains; an empty list
// disables copies.
func NewReportMailer(sender EmailSender, allowedDomains []string, logger *logging.Logger) *ReportMailer {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	domains := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" {
			domains[d] = struct{}{}
		}
	}
	return &ReportMailer{sender: sender, domains: domains, logger: logger}
}

// Enabled reports whether any recipient domain is allowed.
func (m *ReportMailer) Enabled() bool {
	return len(m.domains) > 0
}

func (m *ReportMailer) allowed(address string) bool {
	at := strings.LastIndexByte(address, '@')
	if at < 0 {
		return false
	}
	_, ok := m.domains[strings.ToLower(address[at+1:])]
	return ok
}

// SendReport emails r to r.To.
func (m *ReportMailer) SendReport(ctx context.Context, r Report) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(r.To))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	if !m.allowed(addr.Address) {
		return ErrRecipientNotAllowed
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return fmt.Errorf("notify: render report email: %w", err)
	}

	msg := EmailMessage{
		To:      addr.Address,
		Subject: "Your symptom analysis",
		Body:    r.Analysis,
		HTML:    buf.String(),
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send report %s: %w", r.CheckID, err)
	}
	m.logger.Info("analysis report emailed", "check_id", r.CheckID)
	return nil
}

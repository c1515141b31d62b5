package symptoms

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/care-portal/internal/analysis"
	"github.com/wolfman30/care-portal/internal/notify"
	"github.com/wolfman30/care-portal/internal/observability/metrics"
	"github.com/wolfman30/care-portal/internal/privacy"
	"github.com/wolfman30/care-portal/pkg/logging"
)

var symptomsTracer = otel.Tracer("careportal.internal.symptoms")

// ReportSender emails a copy of a completed check.
type ReportSender interface {
	SendReport(ctx context.Context, r notify.Report) error
}

// Config tunes the service.
type Config struct {
	// Provider labels metrics and logs, e.g. "gemini" or "bedrock".
	Provider    string
	TextModel   string
	VisionModel string
	MaxTokens   int32
	// Temperature is passed through; negative leaves the provider default.
	Temperature float32

	MaxImageBytes int
	// Timeout bounds each model call; zero means no extra bound.
	Timeout       time.Duration
	EmptySection  analysis.EmptySectionPolicy
}

// Service runs symptom checks against an LLM and renders the results.
type Service struct {
	llm     LLMClient
	prompts *PromptBuilder
	text    *analysis.Renderer
	image   *analysis.Renderer
	mailer  ReportSender
	metrics *metrics.AnalysisMetrics
	cfg     Config
	logger  *logging.Logger
	newID   func() string
}

// Option customises a Service.
type Option func(*Service)

// WithReportSender enables email copies of completed checks.
func WithReportSender(sender ReportSender) Option {
	return func(s *Service) { s.mailer = sender }
}

// WithMetrics records check outcomes and model latency.
func WithMetrics(m *metrics.AnalysisMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a symptom check service.
func NewService(llm LLMClient, cfg Config, logger *logging.Logger, opts ...Option) *Service {
	if llm == nil {
		panic("symptoms: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Provider == "" {
		cfg.Provider = "unknown"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.TextModel
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	s := &Service{
		llm:     llm,
		prompts: NewPromptBuilder(),
		text:    analysis.NewRenderer(analysis.SymptomVariant(), analysis.WithEmptySections(cfg.EmptySection)),
		image:   analysis.NewRenderer(analysis.ImageVariant(), analysis.WithEmptySections(cfg.EmptySection)),
		cfg:     cfg,
		logger:  logger,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check analyses req. A failed image analysis is logged and the check
// still succeeds with the text analysis alone.
func (s *Service) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	ctx, span := symptomsTracer.Start(ctx, "symptoms.check")
	defer span.End()

	hasImage := req.HasImage()
	result, err := s.check(ctx, req, hasImage)
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrSymptomsRequired), errors.Is(err, ErrInvalidImage), errors.Is(err, ErrImageTooLarge):
		outcome = "invalid"
	case errors.Is(err, ErrEmptyAnalysis):
		outcome = "empty"
	default:
		outcome = "error"
	}
	s.metrics.ObserveCheck(outcome, hasImage)
	span.SetAttributes(
		attribute.String("careportal.check.outcome", outcome),
		attribute.Bool("careportal.check.has_image", hasImage),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("careportal.check.id", result.CheckID))
	return result, nil
}

func (s *Service) check(ctx context.Context, req CheckRequest, hasImage bool) (*CheckResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var img Image
	if hasImage {
		var err error
		img, err = ParseImageDataURL(req.ImageData, s.cfg.MaxImageBytes)
		if err != nil {
			return nil, err
		}
	}

	prompt, err := s.prompts.TextPrompt(req)
	if err != nil {
		return nil, err
	}
	text, err := s.complete(ctx, "text", s.cfg.TextModel, ChatMessage{Role: ChatRoleUser, Content: prompt})
	if err != nil {
		return nil, err
	}

	report := analysis.Normalize(text, analysis.SymptomTitles)
	rendered := s.text.Render(analysis.Input{Report: report})
	s.metrics.ObserveRenderedSections("symptom", len(rendered.Sections()))

	result := &CheckResult{
		CheckID:      s.newID(),
		Analysis:     report,
		AnalysisHTML: s.text.Wrap(rendered),
		HasImage:     hasImage,
	}

	if hasImage {
		if err := s.analyzeImage(ctx, req, img, result); err != nil {
			s.logger.Error("image analysis failed", "error", err, "check_id", result.CheckID)
		}
	}

	if to := strings.TrimSpace(req.EmailCopyTo); to != "" && s.mailer != nil {
		copyErr := s.mailer.SendReport(ctx, notify.Report{
			CheckID:      result.CheckID,
			To:           to,
			Analysis:     result.Analysis,
			AnalysisHTML: template.HTML(result.AnalysisHTML),
			ImageHTML:    template.HTML(result.ImageAnalysisHTML),
		})
		switch {
		case errors.Is(copyErr, notify.ErrRecipientNotAllowed):
			s.logger.Info("report email copy refused", "check_id", result.CheckID)
		case copyErr != nil:
			s.logger.Warn("report email copy failed", "error", copyErr, "check_id", result.CheckID)
		}
	}

	s.logger.Info("symptom check completed",
		"check_id", result.CheckID,
		"has_image", hasImage,
		"image_analyzed", result.ImageAnalysis != "",
	)
	return result, nil
}

func (s *Service) analyzeImage(ctx context.Context, req CheckRequest, img Image, result *CheckResult) error {
	prompt, err := s.prompts.ImagePrompt(req)
	if err != nil {
		return err
	}
	text, err := s.complete(ctx, "image", s.cfg.VisionModel, ChatMessage{
		Role:    ChatRoleUser,
		Content: prompt,
		Images:  []Image{img},
	})
	if err != nil {
		return err
	}

	rendered := s.image.Render(analysis.Input{Report: text, ImageURL: strings.TrimSpace(req.ImageData)})
	s.metrics.ObserveRenderedSections("image", len(rendered.Sections()))

	result.ImageAnalysis = text
	result.ImageAnalysisHTML = s.image.Wrap(rendered)
	result.ImageSections = analysis.SplitStructured(text, analysis.ImageTitles)
	return nil
}

func (s *Service) complete(ctx context.Context, kind, model string, msg ChatMessage) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:       model,
		Messages:    []ChatMessage{msg},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start)
	s.metrics.ObserveLLMLatency(s.cfg.Provider, kind, status, elapsed.Seconds())
	if err != nil {
		return "", fmt.Errorf("symptoms: %s analysis: %w", kind, err)
	}

	s.logger.Debug("llm completion",
		"provider", s.cfg.Provider,
		"kind", kind,
		"duration_ms", elapsed.Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
		"preview", privacy.Preview(resp.Text, 120),
	)
	if strings.TrimSpace(resp.Text) == "" {
		return "", ErrEmptyAnalysis
	}
	return resp.Text, nil
}

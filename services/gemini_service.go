package services

import (
	"FairShare/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini engine. An empty BaseURL keeps the SDK
// default endpoint.
type GeminiConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Timeout          time.Duration
	StructuredOutput bool
}

// GeminiService runs receipt prompts against Google's Gemini models.
type GeminiService struct {
	client    *genai.Client
	model     string
	maxTokens int32
	timeout   time.Duration
	mimeType  string
	log       *zap.SugaredLogger
}

func NewGeminiService(ctx context.Context, cfg GeminiConfig, log *zap.SugaredLogger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/")},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	svc := &GeminiService{
		client:    client,
		model:     strings.TrimSpace(cfg.Model),
		maxTokens: int32(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		log:       log.With("provider", "gemini"),
	}
	if cfg.StructuredOutput {
		svc.mimeType = "application/json"
	}
	return svc, nil
}

func (s *GeminiService) Name() string { return "gemini" }

// Complete sends the prompt and the inline image in one user turn. The call
// is made exactly once.
func (s *GeminiService) Complete(ctx context.Context, img models.ImageInput, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}},
		},
	}}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  s.maxTokens,
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: s.mimeType,
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", s.classify(err)
	}

	text, ok := firstCandidateText(resp)
	if !ok {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrVisionMalformed)
	}
	s.log.Debugw("gemini completion received",
		"model", s.model,
		"latency", time.Since(start),
		"content", text,
	)
	return text, nil
}

func (s *GeminiService) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return s.statusError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return s.statusError(*apiErrPtr)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: gemini timed out after %s", ErrVisionTransport, s.timeout)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: gemini: %v", ErrVisionMalformed, err)
	}
	return fmt.Errorf("%w: gemini: %v", ErrVisionTransport, err)
}

func (s *GeminiService) statusError(e genai.APIError) *VisionStatusError {
	msg := e.Message
	if msg == "" {
		msg = e.Status
	}
	return &VisionStatusError{Provider: s.Name(), StatusCode: e.Code, Message: msg}
}

// firstCandidateText joins the text parts of the first candidate.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), true
}

package services

import (
	"FairShare/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

// OpenAIConfig configures the chat completions engine.
type OpenAIConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Timeout          time.Duration
	StructuredOutput bool
}

// OpenAIService handles image processing with OpenAI API
type OpenAIService struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	format    *openai.ChatCompletionResponseFormat
	log       *zap.SugaredLogger
}

// NewOpenAIService creates a new instance of OpenAIService
func NewOpenAIService(cfg OpenAIConfig, log *zap.SugaredLogger) *OpenAIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	svc := &OpenAIService{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       log.With("provider", "openai"),
	}
	if cfg.StructuredOutput {
		format, err := receiptResponseFormat()
		if err != nil {
			svc.log.Warnw("structured output disabled", "error", err)
		}
		svc.format = format
	}
	return svc
}

func (s *OpenAIService) Name() string { return "openai" }

// Complete sends the prompt and the image as a single user message.
func (s *OpenAIService) Complete(ctx context.Context, img models.ImageInput, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    img.DataURI(),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		MaxTokens: s.maxTokens,
	}
	if s.format != nil {
		req.ResponseFormat = s.format
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", s.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrVisionMalformed)
	}

	content := resp.Choices[0].Message.Content
	s.log.Debugw("openai completion received",
		"model", resp.Model,
		"finish_reason", resp.Choices[0].FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
		"latency", time.Since(start),
		"content", content,
	)
	return content, nil
}

func (s *OpenAIService) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &VisionStatusError{Provider: s.Name(), StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &VisionStatusError{Provider: s.Name(), StatusCode: reqErr.HTTPStatusCode, Message: http.StatusText(reqErr.HTTPStatusCode)}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: openai: %v", ErrVisionMalformed, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: openai timed out after %s", ErrVisionTransport, s.timeout)
	}
	return fmt.Errorf("%w: openai: %v", ErrVisionTransport, err)
}

// receiptResponseFormat constrains the answer to {"items": [LineItem...]}.
func receiptResponseFormat() (*openai.ChatCompletionResponseFormat, error) {
	item, err := jsonschema.GenerateSchemaForType(models.LineItem{})
	if err != nil {
		return nil, fmt.Errorf("line item schema: %w", err)
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name: "receipt_items",
			Schema: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"items": {Type: jsonschema.Array, Items: item},
				},
				Required:             []string{"items"},
				AdditionalProperties: false,
			},
			Strict: true,
		},
	}, nil
}

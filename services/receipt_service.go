package services

import (
	"FairShare/models"
	"FairShare/utils"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ReceiptService turns receipt images into line item lists.
type ReceiptService struct {
	engine VisionEngine
	prompt string
	log    *zap.SugaredLogger
}

func NewReceiptService(engine VisionEngine, log *zap.SugaredLogger) *ReceiptService {
	return &ReceiptService{
		engine: engine,
		prompt: ReceiptPrompt,
		log:    log,
	}
}

// ProcessImage reads an uploaded image and extracts its items.
func (s *ReceiptService) ProcessImage(ctx context.Context, file io.Reader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("error reading image: %w", err)
	}
	img := models.ImageInput{Data: data, MIMEType: utils.PickImageMIME("", data)}
	return s.ProcessImageData(ctx, img)
}

// ProcessImageData calls the vision engine and returns the items as a JSON
// array string, exactly as the model produced it. Engine failures are
// returned; unparseable model output is reported as "[]".
func (s *ReceiptService) ProcessImageData(ctx context.Context, img models.ImageInput) (string, error) {
	content, err := s.engine.Complete(ctx, img, s.prompt)
	if err != nil {
		s.log.Errorw("vision request failed", "provider", s.engine.Name(), "error", err)
		return "", err
	}

	result, err := ExtractItems(content)
	if err != nil {
		s.log.Warnw("could not parse items from model output",
			"provider", s.engine.Name(),
			"error", err,
			"content", content,
		)
	}
	s.log.Infow("receipt processed",
		"provider", s.engine.Name(),
		"mime", img.MIMEType,
		"bytes", len(img.Data),
		"items", countItems(result),
	)
	return result, nil
}

package services

import (
	"FairShare/models"
	"context"
	"errors"
	"fmt"
)

// ReceiptPrompt is the instruction sent alongside every receipt image.
const ReceiptPrompt = `Analyze this receipt image. Get the store name and extract each item's name, quantity, and price. ` +
	`Format the data as a JSON array of objects, each with "item_name" (string), "item_count" (number), and "items_price" (number) fields. ` +
	`Example: [{"item_name": "garlic bread", "item_count": 2, "items_price": 12.95}, {"item_name": "coke", "item_count": 4, "items_price": 32}]. ` +
	`If no items are found, return an empty array []. Respond ONLY with the JSON array, no other text.`

// VisionEngine sends one image and one instruction to a hosted multimodal
// model and returns the model's raw text answer.
type VisionEngine interface {
	Name() string
	Complete(ctx context.Context, img models.ImageInput, prompt string) (string, error)
}

var (
	// ErrVisionTransport covers network failures and timeouts.
	ErrVisionTransport = errors.New("vision request failed")
	// ErrVisionMalformed covers undecodable or empty upstream responses.
	ErrVisionMalformed = errors.New("malformed vision response")
)

// VisionStatusError is returned when the upstream answers with a non-success status.
type VisionStatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *VisionStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("error processing image: %s status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("error processing image: %s status %d: %s", e.Provider, e.StatusCode, e.Message)
}

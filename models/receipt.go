package models

import "encoding/base64"

// LineItem is one purchased entry read off a receipt.
type LineItem struct {
	ItemName   string  `json:"item_name"`
	ItemCount  float64 `json:"item_count"`
	ItemsPrice float64 `json:"items_price"`
}

// ImageInput is a decoded receipt image plus the MIME type it is sent with.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// DataURI renders the image as an inline data URI.
func (i ImageInput) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ProcessReceiptRequest is the JSON body variant of process-receipt. Image is
// raw base64 or a data URI; nil means the key was absent.
type ProcessReceiptRequest struct {
	Image *string `json:"image"`
}

// ProcessReceiptResponse is the success body of the process-receipt endpoint.
// Result holds the JSON-encoded item array as a string.
type ProcessReceiptResponse struct {
	Result string `json:"result"`
}

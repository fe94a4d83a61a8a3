package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// emptyItems is the result whenever no usable array can be found.
const emptyItems = "[]"

var errNoArray = errors.New("no JSON array in model output")

// ExtractItems pulls the item list out of free-form model text. The span from
// the first '[' to the last ']' must be one valid JSON array; it is returned
// as the model wrote it, minus insignificant whitespace. Anything else yields
// "[]" together with the reason.
func ExtractItems(content string) (string, error) {
	start := strings.IndexByte(content, '[')
	end := strings.LastIndexByte(content, ']')
	if start < 0 || end < 0 || end < start {
		return emptyItems, errNoArray
	}

	span := []byte(content[start : end+1])
	if !json.Valid(span) {
		return emptyItems, errors.New("bracketed span is not a single JSON array")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, span); err != nil {
		return emptyItems, err
	}
	return buf.String(), nil
}

// countItems reports how many elements a result array holds.
func countItems(result string) int {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(result), &elems); err != nil {
		return 0
	}
	return len(elems)
}

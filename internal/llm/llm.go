package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Message is a single role-tagged prompt message.
type Message struct {
	Role    string
	Content string
}

// Roles understood by chat-style completion providers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Client abstracts generative text providers. Implementations return the raw
// text payload, which callers parse with ParseObject/DecodeObject.
type Client interface {
	Complete(ctx context.Context, messages []Message, temperature float32) (string, error)
}

var (
	// ErrUnavailable wraps provider timeouts, rate limits, and service errors.
	ErrUnavailable = errors.New("oracle unavailable")
	// ErrMalformedOutput marks payloads that do not parse as a single JSON object.
	ErrMalformedOutput = errors.New("malformed oracle output")
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not implemented")
)

// ParseObject strips surrounding code-fence markup and parses the payload as a
// single JSON object. Anything else fails with ErrMalformedOutput.
func ParseObject(raw string) (map[string]any, error) {
	extracted, err := extractObject(raw)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(extracted), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// DecodeObject is ParseObject into a typed destination.
func DecodeObject(raw string, v any) error {
	extracted, err := extractObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extracted), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

func extractObject(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", ErrMalformedOutput
	}
	return cleaned[start : end+1], nil
}

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, messages []Message, temperature float32) (string, error) {
	_ = ctx
	_ = messages
	_ = temperature
	return "", ErrNotImplemented
}

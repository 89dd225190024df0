package llm

import (
	"errors"
	"testing"
)

func TestParseObjectStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"status\": \"GRANT_READY\"}\n```"
	out, err := ParseObject(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["status"] != "GRANT_READY" {
		t.Fatalf("unexpected status: %v", out["status"])
	}
}

func TestParseObjectExtractsEmbeddedObject(t *testing.T) {
	raw := "Here is the result:\n{\"score\": 70}\nThanks!"
	out, err := ParseObject(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["score"].(float64) != 70 {
		t.Fatalf("unexpected score: %v", out["score"])
	}
}

func TestParseObjectFailsOnGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2,3]", "{broken"} {
		if _, err := ParseObject(raw); !errors.Is(err, ErrMalformedOutput) {
			t.Fatalf("input %q: expected ErrMalformedOutput, got %v", raw, err)
		}
	}
}

func TestDecodeObjectTyped(t *testing.T) {
	var dest struct {
		Status string `json:"status"`
	}
	if err := DecodeObject("```\n{\"status\":\"NOT_READY\"}\n```", &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Status != "NOT_READY" {
		t.Fatalf("unexpected status: %q", dest.Status)
	}
}

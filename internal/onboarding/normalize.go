package onboarding

import (
	"fmt"
	"strings"
)

// NormalizeProfile coerces a parsed oracle object into an OrganizationProfile.
// Missing fields default to empty strings; programs and achievements accept a
// string, a list of strings, or a list of {name, description} records. The
// coercion is idempotent: normalizing an already-flattened string changes
// nothing.
func NormalizeProfile(raw map[string]any) OrganizationProfile {
	return OrganizationProfile{
		MissionStatement: coerceText(raw["mission_statement"]),
		Programs:         coerceJoined(raw["programs"]),
		Achievements:     coerceJoined(raw["achievements"]),
		BudgetStatement:  coerceText(raw["budget_statement"]),
		Evaluation:       coerceText(raw["evaluation"]),
	}
}

// NormalizeReadiness coerces a parsed oracle object into a ReadinessResult.
// Status is case-folded against the closed set and clamped to
// NEEDS_MINOR_IMPROVEMENTS when unrecognized; score is clamped to [0,100].
func NormalizeReadiness(raw map[string]any) ReadinessResult {
	return ReadinessResult{
		Status:          clampStatus(coerceText(raw["status"])),
		Score:           clampScore(raw["score"]),
		Gaps:            coerceStringList(raw["gaps"]),
		Recommendations: coerceStringList(raw["recommendations"]),
	}
}

func clampStatus(raw string) string {
	status := strings.ToUpper(strings.TrimSpace(raw))
	switch status {
	case StatusGrantReady, StatusNeedsMinorImprovements, StatusNotReady:
		return status
	default:
		return StatusNeedsMinorImprovements
	}
}

func clampScore(raw any) int {
	var score int
	switch v := raw.(type) {
	case float64:
		score = int(v)
	case int:
		score = v
	case string:
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &parsed); err == nil {
			score = parsed
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// coerceText flattens scalars to strings. Lists are joined with commas so a
// stray list-shaped answer still reads as prose.
func coerceText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, coerceText(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// coerceJoined flattens the polymorphic programs/achievements shapes: a
// string passes through; a list of records becomes newline-joined
// "name: description" lines; any other list joins its items with newlines.
func coerceJoined(raw any) string {
	list, ok := raw.([]any)
	if !ok {
		return coerceText(raw)
	}
	if len(list) > 0 && allRecords(list) {
		lines := make([]string, 0, len(list))
		for _, item := range list {
			record := item.(map[string]any)
			lines = append(lines, fmt.Sprintf("%s: %s", coerceText(record["name"]), coerceText(record["description"])))
		}
		return strings.Join(lines, "\n")
	}
	lines := make([]string, 0, len(list))
	for _, item := range list {
		lines = append(lines, coerceText(item))
	}
	return strings.Join(lines, "\n")
}

func allRecords(list []any) bool {
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func coerceStringList(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		if s := coerceText(raw); s != "" {
			return []string{s}
		}
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, coerceText(item))
	}
	return out
}

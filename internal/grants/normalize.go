package grants

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NormalizeOpportunities maps the oracle's grant list onto Opportunity
// records. Each gets a fresh grant_id; all share the organization's session
// id. The list is sliced to topN even if the oracle over-produces.
func NormalizeOpportunities(raw map[string]any, orgSessionID string, topN int) []Opportunity {
	list, _ := raw["grants"].([]any)
	opportunities := make([]Opportunity, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		opportunities = append(opportunities, Opportunity{
			GrantID:       uuid.NewString(),
			SessionID:     orgSessionID,
			Title:         text(record, "title"),
			FocusArea:     text(record, "focus"),
			Eligibility:   text(record, "funder"),
			FundingAmount: text(record, "award"),
			Duration:      text(record, "deadline"),
			Rationale:     text(record, "alignment"),
		})
	}
	if topN > 0 && len(opportunities) > topN {
		opportunities = opportunities[:topN]
	}
	return opportunities
}

// NormalizeAnalysis maps the oracle's alignment verdict onto an
// OpportunityAnalysis. An unrecognized status clamps to POSSIBLY_ALIGNED;
// NOT_ALIGNED forces every dependent field empty regardless of what the
// oracle produced.
func NormalizeAnalysis(raw map[string]any) OpportunityAnalysis {
	details, _ := raw["extracted_details"].(map[string]any)
	analysis := OpportunityAnalysis{
		KeyStrengths:        text(raw, "key_strengths"),
		AreasForImprovement: text(raw, "areas_for_improvement"),
		ExtractedDetails: OpportunityDetails{
			FunderName:         text(details, "funder_name"),
			FocusArea:          text(details, "focus_area"),
			Deadline:           text(details, "deadline"),
			Eligibility:        text(details, "eligibility"),
			AttachmentRequired: text(details, "attachment_required"),
			ApplicationFormat:  text(details, "application_format"),
		},
		Status: clampAlignment(text(raw, "status")),
	}
	if analysis.Status == StatusNotAligned {
		analysis.KeyStrengths = ""
		analysis.AreasForImprovement = ""
		analysis.ExtractedDetails = OpportunityDetails{}
	}
	return analysis
}

func clampAlignment(raw string) string {
	status := strings.ToUpper(strings.TrimSpace(raw))
	switch status {
	case StatusNotAligned, StatusPossiblyAligned, StatusStrongFit:
		return status
	default:
		return StatusPossiblyAligned
	}
}

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// CleanText collapses newline and whitespace runs so extracted document text
// prompts compactly.
func CleanText(s string) string {
	s = newlineRuns.ReplaceAllString(s, "\n")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func text(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

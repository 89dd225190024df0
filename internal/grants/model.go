// Package grants covers the opportunity stages: generating candidate
// opportunities for an organization, analyzing a single real opportunity, and
// combining a selected opportunity with the organization session.
package grants

// Alignment statuses form a closed set; anything else is clamped.
const (
	StatusNotAligned      = "NOT_ALIGNED"
	StatusPossiblyAligned = "POSSIBLY_ALIGNED"
	StatusStrongFit       = "STRONG_FIT"
)

// DefaultTopN is how many opportunities one generation batch produces.
const DefaultTopN = 3

// Opportunity is one synthesized funding opportunity. All opportunities in a
// batch share the organization's session_id; each carries its own grant_id.
type Opportunity struct {
	GrantID       string `json:"grant_id"`
	SessionID     string `json:"session_id"`
	Title         string `json:"title"`
	FocusArea     string `json:"focus_area"`
	Eligibility   string `json:"eligibility"`
	FundingAmount string `json:"funding_amount"`
	Duration      string `json:"duration"`
	Rationale     string `json:"rationale"`
}

// OpportunityDetails holds the factual details extracted from a real
// opportunity. Every field is optional text.
type OpportunityDetails struct {
	FunderName         string `json:"funder_name"`
	FocusArea          string `json:"focus_area"`
	Deadline           string `json:"deadline"`
	Eligibility        string `json:"eligibility"`
	AttachmentRequired string `json:"attachment_required"`
	ApplicationFormat  string `json:"application_format"`
}

// OpportunityAnalysis is the alignment verdict for one real opportunity.
// When Status is NOT_ALIGNED every other field is forced empty.
type OpportunityAnalysis struct {
	KeyStrengths        string             `json:"key_strengths"`
	AreasForImprovement string             `json:"areas_for_improvement"`
	ExtractedDetails    OpportunityDetails `json:"extracted_details"`
	Status              string             `json:"status"`
}

// AnalyzeInput carries the three possible opportunity sources. Precedence is
// uploaded file, then URL, then pasted text; only the first non-empty source
// is used.
type AnalyzeInput struct {
	FileBytes       []byte
	FileName        string
	FileMime        string
	OpportunityURL  string
	OpportunityText string
}

// AnalyzeResult is the analysis plus the combined session it produced.
type AnalyzeResult struct {
	CombinedSessionID string              `json:"combined_session_id"`
	Analysis          OpportunityAnalysis `json:"analysis"`
}

// SelectResult is the combined session produced by selecting a generated
// opportunity.
type SelectResult struct {
	CombinedSessionID string         `json:"combined_session_id"`
	Grant             map[string]any `json:"grant"`
}

// Package onboarding runs the first two pipeline stages: extracting a factual
// organization profile from intake data and evaluating grant readiness.
package onboarding

// Readiness statuses form a closed set; anything else is clamped.
const (
	StatusGrantReady             = "GRANT_READY"
	StatusNeedsMinorImprovements = "NEEDS_MINOR_IMPROVEMENTS"
	StatusNotReady               = "NOT_READY"
)

// OrganizationProfile is the factual profile extracted from intake data.
// Programs and achievements may come back from the oracle as strings, string
// lists, or record lists; normalization flattens them to single strings.
type OrganizationProfile struct {
	MissionStatement string `json:"mission_statement"`
	Programs         string `json:"programs"`
	Achievements     string `json:"achievements"`
	BudgetStatement  string `json:"budget_statement"`
	Evaluation       string `json:"evaluation"`
}

// ReadinessResult is the outcome of a readiness evaluation. The profile that
// was generated on the way is always attached as generated_output.
type ReadinessResult struct {
	SessionID       string               `json:"session_id"`
	Status          string               `json:"status"`
	Score           int                  `json:"score"`
	Gaps            []string             `json:"gaps"`
	Recommendations []string             `json:"recommendations"`
	GeneratedOutput *OrganizationProfile `json:"generated_output"`
}

// WithWebsiteRequest is the intake shape for organizations with a public site.
type WithWebsiteRequest struct {
	WebsiteName string `json:"website_name" binding:"required"`
	URL         string `json:"url" binding:"required"`
	Mission     string `json:"mission" binding:"required"`
}

// WithoutWebsiteRequest is the intake shape built from narrative answers only.
type WithoutWebsiteRequest struct {
	Mission          string `json:"mission" binding:"required"`
	CorePurpose      string `json:"core_purpose" binding:"required"`
	TypeOfWork       string `json:"type_of_work" binding:"required"`
	GoalsAspirations string `json:"goals_aspirations" binding:"required"`
}

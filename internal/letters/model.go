// Package letters generates the final documents from a combined session: the
// letter of intent and the full proposal draft.
package letters

// LOI is a letter of intent broken into its standard sections, stamped with
// the combined session it was generated from.
type LOI struct {
	SessionID             string `json:"session_id"`
	Introduction          string `json:"introduction"`
	OrganizationalSummary string `json:"organizational_summary"`
	ProblemStatement      string `json:"problem_statement"`
	ProjectOverview       string `json:"project_overview"`
	AlignmentStatement    string `json:"alignment_statement"`
	FundingRequest        string `json:"funding_request"`
	ClosingStatement      string `json:"closing_statement"`
}

// BudgetLineItem is one budget row. Cost fields hold the literal "TBD" when
// the oracle inferred a category without a known amount.
type BudgetLineItem struct {
	Category      string `json:"category"`
	Description   string `json:"description"`
	EstimatedCost string `json:"estimated_cost"`
}

// BudgetSummary always projects onto line_items plus a total, even when the
// oracle degraded to a narrative-only budget: then line_items is empty and
// the narrative is preserved.
type BudgetSummary struct {
	LineItems            []BudgetLineItem `json:"line_items"`
	TotalEstimatedBudget string           `json:"total_estimated_budget"`
	Narrative            string           `json:"narrative,omitempty"`
}

// Proposal is the full proposal draft.
type Proposal struct {
	SessionID                  string        `json:"session_id"`
	ExecutiveSummary           string        `json:"executive_summary"`
	IntroductionToOrganization string        `json:"introduction_to_organization"`
	ProblemStatement           string        `json:"problem_statement"`
	GoalsAndObjectives         string        `json:"goals_and_objectives"`
	MethodsAndActivities       string        `json:"methods_and_activities"`
	EvaluationPlan             string        `json:"evaluation_plan"`
	SustainabilityPlan         string        `json:"sustainability_plan"`
	BudgetSummary              BudgetSummary `json:"budget_summary"`
	Conclusion                 string        `json:"conclusion"`
}

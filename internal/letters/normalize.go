package letters

// NormalizeLOI maps the oracle's letter onto the LOI sections, defaulting
// absent sections to empty strings.
func NormalizeLOI(raw map[string]any, sessionID string) LOI {
	return LOI{
		SessionID:             sessionID,
		Introduction:          text(raw, "introduction"),
		OrganizationalSummary: text(raw, "organizational_summary"),
		ProblemStatement:      text(raw, "problem_statement"),
		ProjectOverview:       text(raw, "project_overview"),
		AlignmentStatement:    text(raw, "alignment_statement"),
		FundingRequest:        text(raw, "funding_request"),
		ClosingStatement:      text(raw, "closing_statement"),
	}
}

// NormalizeProposal maps the oracle's draft onto the Proposal sections. The
// oracle's organization_background and program_description land on the
// introduction and methods sections respectively.
func NormalizeProposal(raw map[string]any, sessionID string) Proposal {
	return Proposal{
		SessionID:                  sessionID,
		ExecutiveSummary:           text(raw, "executive_summary"),
		IntroductionToOrganization: text(raw, "organization_background"),
		ProblemStatement:           text(raw, "problem_statement"),
		GoalsAndObjectives:         text(raw, "goals_and_objectives"),
		MethodsAndActivities:       text(raw, "program_description"),
		EvaluationPlan:             text(raw, "evaluation_plan"),
		SustainabilityPlan:         text(raw, "sustainability_plan"),
		BudgetSummary:              normalizeBudget(raw["budget_summary"]),
		Conclusion:                 text(raw, "conclusion"),
	}
}

// normalizeBudget accepts both budget shapes the oracle may produce: the
// structured {line_items, total_estimated_budget} object, or a bare
// narrative string when not even categories could be inferred. Both project
// onto the same structure; the narrative shape yields an empty line_items
// list with the prose preserved.
func normalizeBudget(raw any) BudgetSummary {
	switch budget := raw.(type) {
	case map[string]any:
		summary := BudgetSummary{
			LineItems:            []BudgetLineItem{},
			TotalEstimatedBudget: text(budget, "total_estimated_budget"),
			Narrative:            text(budget, "narrative"),
		}
		items, _ := budget["line_items"].([]any)
		for _, item := range items {
			record, ok := item.(map[string]any)
			if !ok {
				continue
			}
			summary.LineItems = append(summary.LineItems, BudgetLineItem{
				Category:      text(record, "category"),
				Description:   text(record, "description"),
				EstimatedCost: text(record, "estimated_cost"),
			})
		}
		return summary
	case string:
		return BudgetSummary{LineItems: []BudgetLineItem{}, Narrative: budget}
	default:
		return BudgetSummary{LineItems: []BudgetLineItem{}}
	}
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

package letters

import (
	"context"
	"errors"
	"strings"
	"testing"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/sessions"
)

type fakeOracle struct {
	response string
	err      error
	prompts  []string
}

func (o *fakeOracle) Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			o.prompts = append(o.prompts, m.Content)
		}
	}
	if o.err != nil {
		return "", o.err
	}
	return o.response, nil
}

func seedCombinedSession(t *testing.T, store sessions.Store, sessionID string) {
	t.Helper()
	err := store.Put(context.Background(), sessionID,
		map[string]any{"source": "SELECTED_GRANT"},
		map[string]any{
			"organization": map[string]any{
				"payload":  map[string]any{"mission": "Feed hungry families"},
				"analysis": map[string]any{"status": "GRANT_READY"},
			},
			"grant": map[string]any{
				"title":  "Community Food Security Grant",
				"funder": "Harvest Foundation",
			},
		})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestGenerateLOI(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedCombinedSession(t, store, "combined-1")
	oracle := &fakeOracle{response: "```json\n" + `{"introduction":"We write to express interest.","organizational_summary":"We serve families.","problem_statement":"Hunger persists.","project_overview":"Expand pantry routes.","alignment_statement":"Shared focus on food security.","funding_request":"$50,000","closing_statement":"Thank you."}` + "\n```"}
	svc := NewService(oracle, store)

	loi, err := svc.GenerateLOI(context.Background(), "combined-1")
	if err != nil {
		t.Fatalf("GenerateLOI: %v", err)
	}
	if loi.SessionID != "combined-1" || loi.Introduction == "" || loi.ClosingStatement == "" {
		t.Fatalf("unexpected LOI: %+v", loi)
	}
	if !strings.Contains(oracle.prompts[0], "Feed hungry families") {
		t.Fatalf("organization context missing from prompt: %s", oracle.prompts[0])
	}
}

func TestGenerateProposalWithInferredBudget(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedCombinedSession(t, store, "combined-1")
	oracle := &fakeOracle{response: `{
		"executive_summary": "Summary.",
		"organization_background": "Background.",
		"problem_statement": "Need.",
		"program_description": "Methods.",
		"goals_and_objectives": "Goals.",
		"evaluation_plan": "Evaluation.",
		"sustainability_plan": "Sustainability.",
		"budget_summary": {
			"line_items": [
				{"category": "Personnel", "description": "Staff time", "estimated_cost": "TBD"},
				{"category": "Program Costs", "description": "Deliveries", "estimated_cost": "TBD"}
			],
			"total_estimated_budget": "TBD"
		},
		"conclusion": "Conclusion."
	}`}
	svc := NewService(oracle, store)

	proposal, err := svc.GenerateProposal(context.Background(), "combined-1")
	if err != nil {
		t.Fatalf("GenerateProposal: %v", err)
	}
	if proposal.SessionID != "combined-1" {
		t.Fatalf("session_id = %q", proposal.SessionID)
	}
	if len(proposal.BudgetSummary.LineItems) != 2 {
		t.Fatalf("line items = %+v", proposal.BudgetSummary.LineItems)
	}
	for _, item := range proposal.BudgetSummary.LineItems {
		if item.EstimatedCost != "TBD" {
			t.Fatalf("estimated_cost = %q, want TBD", item.EstimatedCost)
		}
	}

	// The proposal prompt sees both ownership branches of the combined session.
	if !strings.Contains(oracle.prompts[0], "Harvest Foundation") {
		t.Fatalf("grant branch missing from prompt: %s", oracle.prompts[0])
	}
}

func TestGenerateLOIMissingSession(t *testing.T) {
	svc := NewService(&fakeOracle{}, sessions.NewMemoryStore())
	if _, err := svc.GenerateLOI(context.Background(), "missing"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestGenerateProposalMissingSession(t *testing.T) {
	svc := NewService(&fakeOracle{}, sessions.NewMemoryStore())
	if _, err := svc.GenerateProposal(context.Background(), "missing"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

type failingStore struct{ err error }

func (f failingStore) Put(ctx context.Context, sessionID string, payload, analysis map[string]any) error {
	return f.err
}

func (f failingStore) Get(ctx context.Context, sessionID string) (sessions.Record, error) {
	return sessions.Record{}, f.err
}

func TestGenerateLOIStoreOutageIsNotInvalidSession(t *testing.T) {
	svc := NewService(&fakeOracle{}, failingStore{err: errors.New("connection reset")})

	_, err := svc.GenerateLOI(context.Background(), "combined-1")
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if errors.Is(err, ErrInvalidSession) {
		t.Fatalf("store outage reported as unknown session: %v", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("cause discarded: %v", err)
	}
}

func TestGenerateLOIMalformedOutput(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedCombinedSession(t, store, "combined-1")
	svc := NewService(&fakeOracle{response: "no json here"}, store)

	if _, err := svc.GenerateLOI(context.Background(), "combined-1"); !errors.Is(err, llm.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

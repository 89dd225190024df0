package grants

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
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

type staticFeed struct{ samples []map[string]any }

func (f staticFeed) Fetch(ctx context.Context) []map[string]any { return f.samples }

type staticFetcher struct {
	body        []byte
	contentType string
	err         error
	requested   string
}

func (f *staticFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	f.requested = url
	return f.body, f.contentType, f.err
}

func seedOrgSession(t *testing.T, store sessions.Store, sessionID string) {
	t.Helper()
	err := store.Put(context.Background(), sessionID,
		map[string]any{"mission": "Feed hungry families"},
		map[string]any{
			"status": "GRANT_READY",
			"generated_output": map[string]any{
				"mission_statement": "Feed hungry families",
				"programs":          "Mobile Pantry: Weekly deliveries",
			},
		})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

const generationResponse = "```json\n" + `{"grants":[
{"title":"Community Food Security Grant","funder":"Harvest Foundation","focus":"food security","deadline":"2026-03-01","award":"$75,000","alignment":"direct mission overlap"},
{"title":"Rural Nutrition Initiative","funder":"Plains Trust","focus":"nutrition","deadline":"2026-04-15","award":"$40,000","alignment":"program fit"},
{"title":"Family Stability Fund","funder":"Bright Futures","focus":"family services","deadline":"rolling","award":"$25,000","alignment":"audience overlap"}
]}` + "\n```"

func TestGenerateWithEmptyFeedReturnsExactBatch(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	oracle := &fakeOracle{response: generationResponse}
	svc := NewService(oracle, store, staticFeed{}, nil)

	got, err := svc.Generate(context.Background(), "org-1", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected exactly 3 opportunities, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, o := range got {
		if o.SessionID != "org-1" {
			t.Fatalf("session_id = %q, want org-1", o.SessionID)
		}
		if seen[o.GrantID] {
			t.Fatalf("duplicate grant_id %q", o.GrantID)
		}
		seen[o.GrantID] = true
	}

	// Batch is appended onto the organization record.
	record, err := store.Get(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	candidates, ok := record.Analysis["grant_candidates"].([]any)
	if !ok || len(candidates) != 3 {
		t.Fatalf("candidates not persisted: %v", record.Analysis["grant_candidates"])
	}

	// The profile rides along in the prompt.
	if !strings.Contains(oracle.prompts[0], "Feed hungry families") {
		t.Fatalf("profile missing from prompt: %s", oracle.prompts[0])
	}
}

func TestGenerateUnknownSessionFails(t *testing.T) {
	svc := NewService(&fakeOracle{}, sessions.NewMemoryStore(), nil, nil)
	if _, err := svc.Generate(context.Background(), "missing", 3); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSelectPromotesGrantIntoCombinedSession(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	svc := NewService(&fakeOracle{response: generationResponse}, store, staticFeed{}, nil)

	batch, err := svc.Generate(context.Background(), "org-1", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	result, err := svc.Select(context.Background(), "org-1", batch[1].GrantID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if result.CombinedSessionID == "" || result.CombinedSessionID == "org-1" {
		t.Fatalf("expected a fresh combined session id, got %q", result.CombinedSessionID)
	}
	if result.Grant["title"] != "Rural Nutrition Initiative" {
		t.Fatalf("wrong grant selected: %v", result.Grant)
	}

	combined, err := store.Get(context.Background(), result.CombinedSessionID)
	if err != nil {
		t.Fatalf("combined session not stored: %v", err)
	}
	org, ok := combined.Analysis["organization"].(map[string]any)
	if !ok {
		t.Fatalf("combined analysis missing organization: %v", combined.Analysis)
	}
	if _, ok := org["analysis"].(map[string]any); !ok {
		t.Fatalf("organization branch missing analysis copy: %v", org)
	}
	if combined.Payload["source"] != "SELECTED_GRANT" {
		t.Fatalf("unexpected combined payload: %v", combined.Payload)
	}
}

const regeneratedResponse = `{"grants":[
{"title":"Watershed Renewal Grant","funder":"Blue Rivers Fund","focus":"environment","deadline":"2026-06-01","award":"$60,000","alignment":"regional fit"}
]}`

func TestCombinedSessionOwnsItsCopyAcrossRegeneration(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	oracle := &fakeOracle{response: generationResponse}
	svc := NewService(oracle, store, staticFeed{}, nil)

	batch, err := svc.Generate(context.Background(), "org-1", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	result, err := svc.Select(context.Background(), "org-1", batch[0].GrantID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	// A later regeneration replaces the batch on the organization record.
	oracle.response = regeneratedResponse
	if _, err := svc.Generate(context.Background(), "org-1", 3); err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	// The combined session keeps the candidates it was created from.
	combined, err := store.Get(context.Background(), result.CombinedSessionID)
	if err != nil {
		t.Fatalf("Get combined: %v", err)
	}
	org := combined.Analysis["organization"].(map[string]any)
	analysis := org["analysis"].(map[string]any)
	candidates, ok := analysis["grant_candidates"].([]any)
	if !ok || len(candidates) != 3 {
		t.Fatalf("embedded candidates wrong: %v", analysis["grant_candidates"])
	}
	if got := candidates[0].(map[string]any)["title"]; got != "Community Food Security Grant" {
		t.Fatalf("combined session mutated by later Generate: %v", got)
	}
	if combined.Analysis["grant"].(map[string]any)["title"] != "Community Food Security Grant" {
		t.Fatalf("selected grant changed: %v", combined.Analysis["grant"])
	}
}

type silentOracle struct{ response string }

func (o silentOracle) Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	return o.response, nil
}

func TestGenerateConcurrentOnSameSession(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	svc := NewService(silentOracle{response: generationResponse}, store, staticFeed{}, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), "org-1", 3)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Generate: %v", err)
		}
	}

	record, err := store.Get(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if candidates, ok := record.Analysis["grant_candidates"].([]any); !ok || len(candidates) != 3 {
		t.Fatalf("candidates not persisted: %v", record.Analysis["grant_candidates"])
	}
}

type failingStore struct{ err error }

func (f failingStore) Put(ctx context.Context, sessionID string, payload, analysis map[string]any) error {
	return f.err
}

func (f failingStore) Get(ctx context.Context, sessionID string) (sessions.Record, error) {
	return sessions.Record{}, f.err
}

func TestGenerateStoreOutageIsNotInvalidSession(t *testing.T) {
	svc := NewService(&fakeOracle{}, failingStore{err: errors.New("connection reset")}, nil, nil)

	_, err := svc.Generate(context.Background(), "org-1", 3)
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

func TestSelectUnknownGrantLeavesSessionUnmodified(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	svc := NewService(&fakeOracle{response: generationResponse}, store, staticFeed{}, nil)

	if _, err := svc.Generate(context.Background(), "org-1", 3); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	before, _ := store.Get(context.Background(), "org-1")

	_, err := svc.Select(context.Background(), "org-1", "not-a-real-grant")
	if !errors.Is(err, ErrInvalidGrantID) {
		t.Fatalf("expected ErrInvalidGrantID, got %v", err)
	}

	after, _ := store.Get(context.Background(), "org-1")
	if !reflect.DeepEqual(before.Analysis, after.Analysis) {
		t.Fatal("failed selection must not modify the organization session")
	}
}

func TestSelectMissingSessionFails(t *testing.T) {
	svc := NewService(&fakeOracle{}, sessions.NewMemoryStore(), nil, nil)
	if _, err := svc.Select(context.Background(), "missing", "g"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

const analysisResponse = `{"key_strengths":"mission overlap","areas_for_improvement":"budget detail","extracted_details":{"funder_name":"Harvest Foundation","deadline":"2026-03-01"},"status":"STRONG_FIT"}`

func TestAnalyzePastedTextCreatesCombinedSession(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	oracle := &fakeOracle{response: analysisResponse}
	svc := NewService(oracle, store, nil, nil)

	result, err := svc.Analyze(context.Background(), "org-1", AnalyzeInput{
		OpportunityText: "The Harvest Foundation invites\n\n\napplications   for food security grants. Deadline 2026-03-01.",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Analysis.Status != StatusStrongFit {
		t.Fatalf("status = %q", result.Analysis.Status)
	}
	if result.Analysis.ExtractedDetails.FunderName != "Harvest Foundation" {
		t.Fatalf("details = %+v", result.Analysis.ExtractedDetails)
	}

	// Whitespace runs are collapsed before prompting.
	if !strings.Contains(oracle.prompts[0], "invites applications for food security grants") {
		t.Fatalf("opportunity text not cleaned: %s", oracle.prompts[0])
	}

	combined, err := store.Get(context.Background(), result.CombinedSessionID)
	if err != nil {
		t.Fatalf("combined session not stored: %v", err)
	}
	if combined.Payload["source"] != "UPLOADED_GRANT" {
		t.Fatalf("unexpected payload: %v", combined.Payload)
	}
	grant, ok := combined.Analysis["grant"].(map[string]any)
	if !ok || grant["status"] != StatusStrongFit {
		t.Fatalf("combined grant branch wrong: %v", combined.Analysis["grant"])
	}
}

func TestAnalyzeURLUsesFetcherAndHTMLText(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	oracle := &fakeOracle{response: analysisResponse}
	fetcher := &staticFetcher{
		body:        []byte("<html><body><p>Apply for the Harvest grant by March.</p></body></html>"),
		contentType: "text/html",
	}
	svc := NewService(oracle, store, nil, fetcher)

	_, err := svc.Analyze(context.Background(), "org-1", AnalyzeInput{
		OpportunityURL: "https://funder.example.org/rfp",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if fetcher.requested != "https://funder.example.org/rfp" {
		t.Fatalf("fetcher got %q", fetcher.requested)
	}
	if !strings.Contains(oracle.prompts[0], "Apply for the Harvest grant by March.") {
		t.Fatalf("html text missing from prompt: %s", oracle.prompts[0])
	}
}

func TestAnalyzeFileTakesPrecedenceOverURLAndText(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	oracle := &fakeOracle{response: analysisResponse}
	fetcher := &staticFetcher{body: []byte("from url"), contentType: "text/plain"}
	svc := NewService(oracle, store, nil, fetcher)

	// A file that fails extraction is fatal even when other sources exist.
	_, err := svc.Analyze(context.Background(), "org-1", AnalyzeInput{
		FileBytes:       []byte("not a real pdf"),
		FileMime:        "application/pdf",
		FileName:        "rfp.pdf",
		OpportunityURL:  "https://funder.example.org/rfp",
		OpportunityText: "pasted fallback",
	})
	if !errors.Is(err, ErrEmptyOpportunity) {
		t.Fatalf("expected ErrEmptyOpportunity, got %v", err)
	}
	if fetcher.requested != "" {
		t.Fatal("URL must not be fetched when a file is supplied")
	}
}

func TestAnalyzeURLFetchFailureIsFatal(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	fetcher := &staticFetcher{err: errors.New("connection refused")}
	svc := NewService(&fakeOracle{response: analysisResponse}, store, nil, fetcher)

	_, err := svc.Analyze(context.Background(), "org-1", AnalyzeInput{
		OpportunityURL: "https://funder.example.org/rfp",
	})
	if !errors.Is(err, ErrEmptyOpportunity) {
		t.Fatalf("expected ErrEmptyOpportunity, got %v", err)
	}
}

func TestAnalyzeEmptySourcesFails(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedOrgSession(t, store, "org-1")
	svc := NewService(&fakeOracle{response: analysisResponse}, store, nil, nil)

	_, err := svc.Analyze(context.Background(), "org-1", AnalyzeInput{OpportunityText: "   "})
	if !errors.Is(err, ErrEmptyOpportunity) {
		t.Fatalf("expected ErrEmptyOpportunity, got %v", err)
	}
}

func TestAnalyzeMissingSessionFails(t *testing.T) {
	svc := NewService(&fakeOracle{response: analysisResponse}, sessions.NewMemoryStore(), nil, nil)
	_, err := svc.Analyze(context.Background(), "missing", AnalyzeInput{OpportunityText: "text"})
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

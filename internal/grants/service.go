package grants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"grantwriter-backend/internal/extract"
	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/scrape"
	"grantwriter-backend/internal/sessions"
	"grantwriter-backend/internal/shared/metrics"
	"grantwriter-backend/internal/shared/telemetry"
)

// SampleFeed supplies advisory sample opportunities. Implementations return
// an empty slice on any failure.
type SampleFeed interface {
	Fetch(ctx context.Context) []map[string]any
}

// Fetcher downloads a URL and returns the body plus its content type.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, contentType string, err error)
}

// Service runs the opportunity stages against the session store and oracle.
type Service struct {
	Oracle  llm.Client
	Store   sessions.Store
	Feed    SampleFeed
	Fetcher Fetcher
}

// NewService constructs a Service. Feed and Fetcher are optional: without a
// feed generation proceeds from the profile alone, without a fetcher URL
// inputs fail as empty opportunities.
func NewService(oracle llm.Client, store sessions.Store, feed SampleFeed, fetcher Fetcher) *Service {
	return &Service{Oracle: oracle, Store: store, Feed: feed, Fetcher: fetcher}
}

// Generate synthesizes topN opportunities for the organization session and
// appends them to that session's record as the generated batch. This append
// is the one documented mutation of an existing session record.
func (s *Service) Generate(ctx context.Context, sessionID string, topN int) ([]Opportunity, error) {
	metrics.IncStageStarted()
	opportunities, err := s.generate(ctx, sessionID, topN)
	if err != nil {
		metrics.IncStageFailed()
		return nil, err
	}
	metrics.IncStageCompleted()
	return opportunities, nil
}

func (s *Service) generate(ctx context.Context, sessionID string, topN int) ([]Opportunity, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	record, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	profile, _ := record.Analysis["generated_output"].(map[string]any)
	var samples []map[string]any
	if s.Feed != nil {
		samples = s.Feed.Fetch(ctx)
	}
	if len(samples) > topN {
		samples = samples[:topN]
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	samplesJSON, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode samples: %w", err)
	}
	payload := fmt.Sprintf("\nORGANIZATION PROFILE:\n%s\n\nSAMPLE GRANTS:\n%s\n", profileJSON, samplesJSON)

	raw, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Return JSON only, no explanations."},
		{Role: llm.RoleUser, Content: generationPrompt + payload},
	}, 0.3)
	if err != nil {
		return nil, fmt.Errorf("opportunity generation for session %s: %w", sessionID, err)
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("opportunity generation for session %s: %w", sessionID, err)
	}

	opportunities := NormalizeOpportunities(obj, sessionID, topN)

	// Persist the batch on the organization record so selection can validate
	// grant_id membership later.
	record.Analysis["grant_candidates"] = asMapList(opportunities)
	if err := s.Store.Put(ctx, sessionID, record.Payload, record.Analysis); err != nil {
		return nil, fmt.Errorf("persist candidates for session %s: %w", sessionID, err)
	}
	telemetry.Info("grants.generated", map[string]any{"session_id": sessionID, "count": len(opportunities)})
	return opportunities, nil
}

// Analyze evaluates one real opportunity against the organization and
// records the result as a new combined session.
func (s *Service) Analyze(ctx context.Context, sessionID string, in AnalyzeInput) (AnalyzeResult, error) {
	metrics.IncStageStarted()
	result, err := s.analyze(ctx, sessionID, in)
	if err != nil {
		metrics.IncStageFailed()
		return AnalyzeResult{}, err
	}
	metrics.IncStageCompleted()
	return result, nil
}

func (s *Service) analyze(ctx context.Context, sessionID string, in AnalyzeInput) (AnalyzeResult, error) {
	record, err := s.getSession(ctx, sessionID)
	if err != nil {
		return AnalyzeResult{}, err
	}

	opportunityText, err := s.opportunityText(ctx, in)
	if err != nil {
		return AnalyzeResult{}, err
	}
	if opportunityText == "" {
		return AnalyzeResult{}, fmt.Errorf("session %s: %w", sessionID, ErrEmptyOpportunity)
	}

	contextJSON, err := json.MarshalIndent(map[string]any{
		"organization":      recordAsMap(record),
		"grant_opportunity": opportunityText,
	}, "", "  ")
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("encode context: %w", err)
	}

	raw, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: analysisPrompt},
		{Role: llm.RoleUser, Content: string(contextJSON)},
	}, 0.2)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("opportunity analysis for session %s: %w", sessionID, err)
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("opportunity analysis for session %s: %w", sessionID, err)
	}
	analysis := NormalizeAnalysis(obj)

	combinedID := uuid.NewString()
	combined := map[string]any{
		"organization": recordAsMap(record),
		"grant":        asMap(analysis),
	}
	if err := s.Store.Put(ctx, combinedID, map[string]any{"source": "UPLOADED_GRANT"}, combined); err != nil {
		return AnalyzeResult{}, fmt.Errorf("persist combined session: %w", err)
	}
	telemetry.Info("grants.analyzed", map[string]any{
		"session_id":          sessionID,
		"combined_session_id": combinedID,
		"status":              analysis.Status,
	})
	return AnalyzeResult{CombinedSessionID: combinedID, Analysis: analysis}, nil
}

// Select promotes one generated opportunity into a new combined session. The
// grant must belong to the session's generated batch.
func (s *Service) Select(ctx context.Context, sessionID, grantID string) (SelectResult, error) {
	record, err := s.getSession(ctx, sessionID)
	if err != nil {
		return SelectResult{}, err
	}

	candidates, _ := record.Analysis["grant_candidates"].([]any)
	var chosen map[string]any
	for _, item := range candidates {
		candidate, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if text(candidate, "grant_id") == grantID {
			chosen = candidate
			break
		}
	}
	if chosen == nil {
		return SelectResult{}, fmt.Errorf("grant %s not in batch for session %s: %w", grantID, sessionID, ErrInvalidGrantID)
	}

	combinedID := uuid.NewString()
	combined := map[string]any{
		"organization": recordAsMap(record),
		"grant":        chosen,
	}
	if err := s.Store.Put(ctx, combinedID, map[string]any{"source": "SELECTED_GRANT"}, combined); err != nil {
		return SelectResult{}, fmt.Errorf("persist combined session: %w", err)
	}
	telemetry.Info("grants.selected", map[string]any{
		"session_id":          sessionID,
		"grant_id":            grantID,
		"combined_session_id": combinedID,
	})
	return SelectResult{CombinedSessionID: combinedID, Grant: chosen}, nil
}

// opportunityText acquires the opportunity body: uploaded file first, then
// URL, then pasted text. A failing primary source is fatal; there is no
// fallback content to reason about.
func (s *Service) opportunityText(ctx context.Context, in AnalyzeInput) (string, error) {
	if len(in.FileBytes) > 0 {
		extracted, err := extract.TextFromBytes(ctx, in.FileBytes, in.FileMime, in.FileName)
		if err != nil {
			return "", fmt.Errorf("%w: file %s: %v", ErrEmptyOpportunity, in.FileName, err)
		}
		return CleanText(extracted), nil
	}
	if in.OpportunityURL != "" {
		return s.textFromURL(ctx, in.OpportunityURL)
	}
	return CleanText(in.OpportunityText), nil
}

func (s *Service) textFromURL(ctx context.Context, url string) (string, error) {
	if s.Fetcher == nil {
		return "", fmt.Errorf("%w: no fetcher configured", ErrEmptyOpportunity)
	}
	body, contentType, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", ErrEmptyOpportunity, url, err)
	}

	lowered := strings.ToLower(url)
	switch {
	case strings.Contains(contentType, "pdf") || strings.HasSuffix(lowered, ".pdf"):
		extracted, err := extract.TextFromBytes(ctx, body, "application/pdf", url)
		if err != nil {
			return "", fmt.Errorf("%w: pdf at %s: %v", ErrEmptyOpportunity, url, err)
		}
		return CleanText(extracted), nil
	case strings.Contains(contentType, "word") || strings.HasSuffix(lowered, ".docx"):
		extracted, err := extract.TextFromBytes(ctx, body, "", url)
		if err != nil {
			return "", fmt.Errorf("%w: document at %s: %v", ErrEmptyOpportunity, url, err)
		}
		return CleanText(extracted), nil
	case strings.Contains(contentType, "html") || strings.HasSuffix(lowered, ".html"):
		return CleanText(scrape.ExtractReadableText(string(body))), nil
	default:
		return CleanText(string(body)), nil
	}
}

func (s *Service) getSession(ctx context.Context, sessionID string) (sessions.Record, error) {
	record, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return sessions.Record{}, fmt.Errorf("session %s: %w", sessionID, ErrInvalidSession)
		}
		// Store outages and canceled contexts are not "unknown session".
		return sessions.Record{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if record.Analysis == nil {
		record.Analysis = map[string]any{}
	}
	return record, nil
}

func (s *Service) complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	start := time.Now()
	raw, err := s.Oracle.Complete(ctx, messages, temperature)
	metrics.ObserveOracleDurationMs(float64(time.Since(start).Milliseconds()))
	return raw, err
}

// recordAsMap copies a session record into the generic shape embedded in
// combined sessions. Value copy only; the combined session owns its data.
func recordAsMap(record sessions.Record) map[string]any {
	return map[string]any{
		"payload":    record.Payload,
		"analysis":   record.Analysis,
		"created_at": record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func asMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func asMapList(opportunities []Opportunity) []any {
	out := make([]any, 0, len(opportunities))
	for _, o := range opportunities {
		out = append(out, asMap(o))
	}
	return out
}

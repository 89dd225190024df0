package letters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/sessions"
	"grantwriter-backend/internal/shared/metrics"
	"grantwriter-backend/internal/shared/telemetry"
)

// Service generates documents from combined sessions.
type Service struct {
	Oracle llm.Client
	Store  sessions.Store
}

// NewService constructs a Service.
func NewService(oracle llm.Client, store sessions.Store) *Service {
	return &Service{Oracle: oracle, Store: store}
}

// GenerateLOI drafts a letter of intent from the combined session.
func (s *Service) GenerateLOI(ctx context.Context, sessionID string) (LOI, error) {
	metrics.IncStageStarted()
	loi, err := s.generateLOI(ctx, sessionID)
	if err != nil {
		metrics.IncStageFailed()
		return LOI{}, err
	}
	metrics.IncStageCompleted()
	return loi, nil
}

func (s *Service) generateLOI(ctx context.Context, sessionID string) (LOI, error) {
	record, err := s.getSession(ctx, sessionID)
	if err != nil {
		return LOI{}, err
	}
	contextJSON, err := json.Marshal(map[string]any{
		"organization": recordAsMap(record),
		"task":         "Generate LOI following TGCI standards",
	})
	if err != nil {
		return LOI{}, fmt.Errorf("encode context: %w", err)
	}

	raw, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: loiPrompt},
		{Role: llm.RoleUser, Content: string(contextJSON)},
	})
	if err != nil {
		return LOI{}, fmt.Errorf("loi generation for session %s: %w", sessionID, err)
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return LOI{}, fmt.Errorf("loi generation for session %s: %w", sessionID, err)
	}
	loi := NormalizeLOI(obj, sessionID)
	telemetry.Info("letters.loi_generated", map[string]any{"session_id": sessionID})
	return loi, nil
}

// GenerateProposal drafts the full proposal from the combined session.
func (s *Service) GenerateProposal(ctx context.Context, sessionID string) (Proposal, error) {
	metrics.IncStageStarted()
	proposal, err := s.generateProposal(ctx, sessionID)
	if err != nil {
		metrics.IncStageFailed()
		return Proposal{}, err
	}
	metrics.IncStageCompleted()
	return proposal, nil
}

func (s *Service) generateProposal(ctx context.Context, sessionID string) (Proposal, error) {
	record, err := s.getSession(ctx, sessionID)
	if err != nil {
		return Proposal{}, err
	}
	contextJSON, err := json.Marshal(map[string]any{
		"organization": record.Analysis["organization"],
		"grant":        record.Analysis["grant"],
		"task":         "Generate Proposal following TGCI standards",
	})
	if err != nil {
		return Proposal{}, fmt.Errorf("encode context: %w", err)
	}

	raw, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: proposalPrompt},
		{Role: llm.RoleUser, Content: string(contextJSON)},
	})
	if err != nil {
		return Proposal{}, fmt.Errorf("proposal generation for session %s: %w", sessionID, err)
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return Proposal{}, fmt.Errorf("proposal generation for session %s: %w", sessionID, err)
	}
	proposal := NormalizeProposal(obj, sessionID)
	telemetry.Info("letters.proposal_generated", map[string]any{
		"session_id": sessionID,
		"line_items": len(proposal.BudgetSummary.LineItems),
	})
	return proposal, nil
}

const oracleTemperature = 0.2

func (s *Service) complete(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	raw, err := s.Oracle.Complete(ctx, messages, oracleTemperature)
	metrics.ObserveOracleDurationMs(float64(time.Since(start).Milliseconds()))
	return raw, err
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

func recordAsMap(record sessions.Record) map[string]any {
	return map[string]any{
		"payload":    record.Payload,
		"analysis":   record.Analysis,
		"created_at": record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

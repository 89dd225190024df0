package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/sessions"
	"grantwriter-backend/internal/shared/metrics"
	"grantwriter-backend/internal/shared/telemetry"
)

// Grounder supplies retrieved grantsmanship passages for prompt grounding.
type Grounder interface {
	KnowledgeText(ctx context.Context) (string, error)
}

// Scraper fetches the readable text of a public website.
type Scraper interface {
	Website(ctx context.Context, url string) (string, error)
}

// Service runs the two-pass onboarding analysis: profile extraction first,
// then readiness evaluation over the extracted profile plus the raw intake.
type Service struct {
	Oracle   llm.Client
	Store    sessions.Store
	Scraper  Scraper
	Grounder Grounder
}

// NewService constructs a Service. Scraper and Grounder are optional; without
// a grounder prompts run ungrounded, without a scraper website intake falls
// back to the declared mission alone.
func NewService(oracle llm.Client, store sessions.Store, scraper Scraper, grounder Grounder) *Service {
	return &Service{Oracle: oracle, Store: store, Scraper: scraper, Grounder: grounder}
}

// AnalyzeWithWebsite runs the analysis for an organization with a public
// site. Scrape failures degrade to an empty content field rather than
// failing the stage.
func (s *Service) AnalyzeWithWebsite(ctx context.Context, req WithWebsiteRequest) (ReadinessResult, error) {
	intake := map[string]any{
		"scenario":     "WITH_WEBSITE",
		"website_name": req.WebsiteName,
		"url":          req.URL,
		"mission":      req.Mission,
	}
	if s.Scraper != nil {
		content, err := s.Scraper.Website(ctx, req.URL)
		if err != nil {
			telemetry.Error("onboarding.scrape_failed", map[string]any{"url": req.URL, "err": err.Error()})
		} else if content != "" {
			intake["scraped_content"] = content
		}
	}
	return s.analyze(ctx, intake)
}

// AnalyzeWithoutWebsite runs the analysis over narrative answers alone.
func (s *Service) AnalyzeWithoutWebsite(ctx context.Context, req WithoutWebsiteRequest) (ReadinessResult, error) {
	intake := map[string]any{
		"scenario":          "WITHOUT_WEBSITE",
		"mission":           req.Mission,
		"core_purpose":      req.CorePurpose,
		"type_of_work":      req.TypeOfWork,
		"goals_aspirations": req.GoalsAspirations,
	}
	return s.analyze(ctx, intake)
}

func (s *Service) analyze(ctx context.Context, intake map[string]any) (ReadinessResult, error) {
	metrics.IncStageStarted()
	result, err := s.runAnalysis(ctx, intake)
	if err != nil {
		metrics.IncStageFailed()
		return ReadinessResult{}, err
	}
	metrics.IncStageCompleted()
	return result, nil
}

func (s *Service) runAnalysis(ctx context.Context, intake map[string]any) (ReadinessResult, error) {
	knowledge := ""
	if s.Grounder != nil {
		text, err := s.Grounder.KnowledgeText(ctx)
		if err != nil {
			return ReadinessResult{}, fmt.Errorf("onboarding grounding: %w", err)
		}
		knowledge = text
	}

	intakeJSON, err := json.Marshal(intake)
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("onboarding intake encode: %w", err)
	}

	// Pass one: extract the factual profile.
	profileRaw, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: profileFramingPrompt(knowledge)},
		{Role: llm.RoleSystem, Content: profileExtractionPrompt},
		{Role: llm.RoleUser, Content: string(intakeJSON)},
	})
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("profile extraction: %w", err)
	}
	profileObj, err := llm.ParseObject(profileRaw)
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("profile extraction: %w", err)
	}
	profile := NormalizeProfile(profileObj)

	// Pass two: evaluate readiness over the profile plus the raw intake.
	evalContext, err := json.Marshal(map[string]any{
		"organization_profile": profile,
		"raw_context":          intake,
	})
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("onboarding context encode: %w", err)
	}
	readinessRaw, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: readinessFramingPrompt(knowledge)},
		{Role: llm.RoleSystem, Content: readinessEvaluationPrompt},
		{Role: llm.RoleUser, Content: string(evalContext)},
	})
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("readiness evaluation: %w", err)
	}
	readinessObj, err := llm.ParseObject(readinessRaw)
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("readiness evaluation: %w", err)
	}

	result := NormalizeReadiness(readinessObj)
	result.GeneratedOutput = &profile
	result.SessionID = uuid.NewString()

	if err := s.Store.Put(ctx, result.SessionID, intake, asMap(result)); err != nil {
		return ReadinessResult{}, fmt.Errorf("persist session %s: %w", result.SessionID, err)
	}
	telemetry.Info("onboarding.analyzed", map[string]any{
		"session_id": result.SessionID,
		"status":     result.Status,
		"score":      result.Score,
	})
	return result, nil
}

const oracleTemperature = 0.2

func (s *Service) complete(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	raw, err := s.Oracle.Complete(ctx, messages, oracleTemperature)
	metrics.ObserveOracleDurationMs(float64(time.Since(start).Milliseconds()))
	return raw, err
}

// asMap projects a result onto the generic analysis shape the session store
// holds, so downstream stages can embed it without knowing this package.
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

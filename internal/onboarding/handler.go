package onboarding

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the onboarding service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches onboarding routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/onboarding/analyze/with-website", h.analyzeWithWebsite)
	rg.POST("/onboarding/analyze/without-website", h.analyzeWithoutWebsite)
}

func (h *Handler) analyzeWithWebsite(c *gin.Context) {
	var req WithWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "website_name, url, and mission are required", nil)
		return
	}
	result, err := h.Svc.AnalyzeWithWebsite(c.Request.Context(), req)
	if err != nil {
		respondStageError(c, err)
		return
	}
	c.Set("sessionId", result.SessionID)
	respond.OK(c, result)
}

func (h *Handler) analyzeWithoutWebsite(c *gin.Context) {
	var req WithoutWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "mission, core_purpose, type_of_work, and goals_aspirations are required", nil)
		return
	}
	result, err := h.Svc.AnalyzeWithoutWebsite(c.Request.Context(), req)
	if err != nil {
		respondStageError(c, err)
		return
	}
	c.Set("sessionId", result.SessionID)
	respond.OK(c, result)
}

func respondStageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, llm.ErrMalformedOutput):
		respond.Error(c, http.StatusBadGateway, "malformed_oracle_output", "the analysis service returned an unreadable result", nil)
	case errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "oracle_unavailable", "the analysis service is temporarily unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
	}
}

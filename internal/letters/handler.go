package letters

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the letters service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/loi/generate", h.generateLOI)
	rg.POST("/proposal/generate", h.generateProposal)
}

func (h *Handler) generateLOI(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id is required", nil)
		return
	}
	c.Set("sessionId", sessionID)

	loi, err := h.Svc.GenerateLOI(c.Request.Context(), sessionID)
	if err != nil {
		respondLetterError(c, err)
		return
	}
	respond.OK(c, loi)
}

func (h *Handler) generateProposal(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id is required", nil)
		return
	}
	c.Set("sessionId", sessionID)

	proposal, err := h.Svc.GenerateProposal(c.Request.Context(), sessionID)
	if err != nil {
		respondLetterError(c, err)
		return
	}
	respond.OK(c, proposal)
}

func respondLetterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSession):
		respond.Error(c, http.StatusNotFound, "invalid_session", "session not found", nil)
	case errors.Is(err, llm.ErrMalformedOutput):
		respond.Error(c, http.StatusBadGateway, "malformed_oracle_output", "the drafting service returned an unreadable result", nil)
	case errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "oracle_unavailable", "the drafting service is temporarily unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document generation failed", nil)
	}
}

package grants

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/shared/server/respond"
)

const maxUploadBytes = 15 << 20

// Handler wires HTTP handlers to the grants service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches grant routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/grants/generate", h.generate)
	rg.POST("/grants/analyze", h.analyze)
	rg.POST("/grants/select", h.selectGrant)
}

func (h *Handler) generate(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id is required", nil)
		return
	}
	c.Set("sessionId", sessionID)

	opportunities, err := h.Svc.Generate(c.Request.Context(), sessionID, DefaultTopN)
	if err != nil {
		respondGrantError(c, err)
		return
	}
	respond.OK(c, gin.H{"grants": opportunities})
}

func (h *Handler) analyze(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id is required", nil)
		return
	}
	c.Set("sessionId", sessionID)

	in := AnalyzeInput{
		OpportunityURL:  c.PostForm("opportunity_url"),
		OpportunityText: c.PostForm("opportunity_text"),
	}
	if file, err := c.FormFile("rfp_file"); err == nil && file != nil {
		opened, err := file.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "could not read rfp_file", nil)
			return
		}
		defer opened.Close()
		data, err := io.ReadAll(io.LimitReader(opened, maxUploadBytes))
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "could not read rfp_file", nil)
			return
		}
		in.FileBytes = data
		in.FileName = file.Filename
		in.FileMime = file.Header.Get("Content-Type")
	}

	result, err := h.Svc.Analyze(c.Request.Context(), sessionID, in)
	if err != nil {
		respondGrantError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) selectGrant(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	grantID := c.PostForm("grant_id")
	if sessionID == "" || grantID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id and grant_id are required", nil)
		return
	}
	c.Set("sessionId", sessionID)

	result, err := h.Svc.Select(c.Request.Context(), sessionID, grantID)
	if err != nil {
		respondGrantError(c, err)
		return
	}
	respond.OK(c, result)
}

func respondGrantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSession):
		respond.Error(c, http.StatusNotFound, "invalid_session", "session not found", nil)
	case errors.Is(err, ErrInvalidGrantID):
		respond.Error(c, http.StatusUnprocessableEntity, "invalid_grant_id", "grant is not part of this session's batch", nil)
	case errors.Is(err, ErrEmptyOpportunity):
		respond.Error(c, http.StatusUnprocessableEntity, "empty_opportunity", "no usable opportunity text was provided", nil)
	case errors.Is(err, llm.ErrMalformedOutput):
		respond.Error(c, http.StatusBadGateway, "malformed_oracle_output", "the analysis service returned an unreadable result", nil)
	case errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "oracle_unavailable", "the analysis service is temporarily unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "grant operation failed", nil)
	}
}

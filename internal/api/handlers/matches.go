package handlers

import (
	"errors"
	"net/http"

	"campus-ops/internal/api"
	"campus-ops/internal/db"
	"campus-ops/internal/repository"
	"campus-ops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MatchHandler handles event match links and suggestions
type MatchHandler struct {
	matches     *service.MatchService
	suggestions *service.SuggestionService
	validator   *validator.Validate
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matches *service.MatchService, suggestions *service.SuggestionService) *MatchHandler {
	return &MatchHandler{
		matches:     matches,
		suggestions: suggestions,
		validator:   validator.New(),
	}
}

// SuggestMatches returns scored raw-event candidates for an event
// @Summary Suggest raw event matches
// @Description Rank same-date unlinked raw events by match confidence
// @Tags matches
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.APIResponse{data=[]service.MatchSuggestion}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /events/{id}/suggestions [get]
func (h *MatchHandler) SuggestMatches(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid event ID", err.Error())
		return
	}

	suggestions, err := h.suggestions.SuggestMatches(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Event")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []service.MatchSuggestion{}
	}

	api.SendSuccess(c, http.StatusOK, suggestions)
}

// CreateMatchRequest links a raw event to a canonical event.
// @Description Request body for manual match creation
type CreateMatchRequest struct {
	RawEventID string  `json:"raw_event_id" validate:"required,uuid" example:"6f1e0b36-16c8-4f0e-9f55-1f6f6a3b2c1d"`
	MatchedBy  *string `json:"matched_by,omitempty" validate:"omitempty,max=255"`
}

// CreateMatch manually links a raw event to an event
// @Summary Create manual match
// @Description Link a raw event to a canonical event. Fails with a conflict when the raw event is already linked to a different event.
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body CreateMatchRequest true "Link request"
// @Success 201 {object} api.APIResponse{data=repository.EventMatch}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Failure 409 {object} api.APIResponse{error=api.APIError}
// @Router /events/{id}/matches [post]
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid event ID", err.Error())
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	rawEventID, err := uuid.Parse(req.RawEventID)
	if err != nil {
		api.SendValidationError(c, "Invalid raw_event_id", err.Error())
		return
	}

	match, err := h.matches.Link(c.Request.Context(), eventID, rawEventID, req.MatchedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRawEventLinked):
			api.SendConflict(c, "Raw event is already linked to another event")
		case errors.Is(err, db.ErrConflict):
			api.SendConflict(c, "Match already exists")
		case errors.Is(err, db.ErrNotFound):
			api.SendNotFound(c, "Event or raw event")
		default:
			api.SendInternalError(c, err.Error())
		}
		return
	}

	api.SendSuccess(c, http.StatusCreated, match)
}

// ListMatches returns the match links of an event
// @Summary List event matches
// @Tags matches
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.APIResponse{data=[]repository.EventMatch}
// @Router /events/{id}/matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid event ID", err.Error())
		return
	}

	matches, err := h.matches.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}
	if matches == nil {
		matches = []repository.EventMatch{}
	}

	api.SendSuccess(c, http.StatusOK, matches)
}

// DeleteMatch removes a match link
// @Summary Delete match
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} api.APIResponse
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /matches/{id} [delete]
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid match ID", err.Error())
		return
	}

	if err := h.matches.Unlink(c.Request.Context(), matchID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Match")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

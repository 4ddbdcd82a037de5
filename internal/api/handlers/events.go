package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-ops/internal/api"
	"campus-ops/internal/db"
	"campus-ops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// EventHandler handles canonical event HTTP requests
type EventHandler struct {
	events    *repository.EventRepository
	validator *validator.Validate
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *repository.EventRepository) *EventHandler {
	return &EventHandler{
		events:    events,
		validator: validator.New(),
	}
}

// ListEvents returns canonical events from a date forward
// @Summary List canonical events
// @Description List deduplicated events from a date forward
// @Tags events
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param include_hidden query bool false "Include hidden events"
// @Success 200 {object} api.APIResponse{data=[]repository.Event}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 500 {object} api.APIResponse{error=api.APIError}
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	from := today()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			api.SendValidationError(c, "Invalid from date, expected YYYY-MM-DD", err.Error())
			return
		}
		from = parsed
	}

	includeHidden, _ := strconv.ParseBool(c.DefaultQuery("include_hidden", "false"))

	events, err := h.events.ListFromDate(c.Request.Context(), from, includeHidden)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, events)
}

// GetEvent returns a single canonical event
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.APIResponse{data=repository.Event}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid event ID", err.Error())
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Event")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, event)
}

// UpdateEventOperationsRequest patches operator-owned event fields.
// Omitted fields are left untouched.
// @Description Operator-owned event fields
type UpdateEventOperationsRequest struct {
	Setup        *bool   `json:"setup,omitempty"`
	AV           *bool   `json:"av,omitempty"`
	Custodial    *bool   `json:"custodial,omitempty"`
	Security     *bool   `json:"security,omitempty"`
	Kitchen      *bool   `json:"kitchen,omitempty"`
	TeamNotes    *string `json:"team_notes,omitempty" validate:"omitempty,max=2000"`
	Hidden       *bool   `json:"hidden,omitempty"`
	ConflictOk   *bool   `json:"conflict_ok,omitempty"`
	ConflictNote *string `json:"conflict_note,omitempty" validate:"omitempty,max=2000"`
}

// UpdateEventOperations patches operator-owned fields of an event
// @Summary Update event operations fields
// @Description Update team flags, notes, hidden and conflict override. Aggregator-owned fields cannot be changed here.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body UpdateEventOperationsRequest true "Fields to update"
// @Success 200 {object} api.APIResponse{data=repository.Event}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /events/{id}/operations [patch]
func (h *EventHandler) UpdateEventOperations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid event ID", err.Error())
		return
	}

	var req UpdateEventOperationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	event, err := h.events.UpdateOperations(c.Request.Context(), id, repository.UpdateOperationsRequest{
		Setup:        req.Setup,
		AV:           req.AV,
		Custodial:    req.Custodial,
		Security:     req.Security,
		Kitchen:      req.Kitchen,
		TeamNotes:    req.TeamNotes,
		Hidden:       req.Hidden,
		ConflictOk:   req.ConflictOk,
		ConflictNote: req.ConflictNote,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Event")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, event)
}

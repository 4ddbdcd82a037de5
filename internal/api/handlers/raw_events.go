package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"campus-ops/internal/api"
	"campus-ops/internal/logger"
	"campus-ops/internal/repository"
	"campus-ops/internal/source"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RawEventHandler handles raw event queries and sync upserts
type RawEventHandler struct {
	rawEvents *repository.RawEventRepository
	validator *validator.Validate
}

// NewRawEventHandler creates a new raw event handler
func NewRawEventHandler(rawEvents *repository.RawEventRepository) *RawEventHandler {
	return &RawEventHandler{
		rawEvents: rawEvents,
		validator: validator.New(),
	}
}

// ListRawEvents returns raw events filtered by source or date
// @Summary List raw events
// @Description List synced raw events, filtered by source and/or start date
// @Tags raw-events
// @Produce json
// @Param source query string false "Source filter"
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} api.APIResponse{data=[]repository.RawEvent}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /raw-events [get]
func (h *RawEventHandler) ListRawEvents(c *gin.Context) {
	from := today()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			api.SendValidationError(c, "Invalid from date, expected YYYY-MM-DD", err.Error())
			return
		}
		from = parsed
	}

	var (
		events []repository.RawEvent
		err    error
	)
	if srcStr := c.Query("source"); srcStr != "" {
		var src source.Source
		src, err = source.Parse(srcStr)
		if err != nil {
			api.SendValidationError(c, "Invalid source", err.Error())
			return
		}
		events, err = h.rawEvents.ListBySource(c.Request.Context(), src, from)
	} else {
		events, err = h.rawEvents.ListFromDate(c.Request.Context(), from)
	}
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, events)
}

// SyncRawEventItem is one record in a bulk sync request.
// @Description One raw event record from an external sync job
type SyncRawEventItem struct {
	Source                string          `json:"source" validate:"required"`
	SourceID              string          `json:"source_id" validate:"required,max=255"`
	Title                 string          `json:"title" validate:"required,max=500"`
	Description           *string         `json:"description,omitempty"`
	StartDate             string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate               *string         `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime             *string         `json:"start_time,omitempty"`
	EndTime               *string         `json:"end_time,omitempty"`
	Location              *string         `json:"location,omitempty"`
	Resource              *string         `json:"resource,omitempty"`
	ContactPerson         *string         `json:"contact_person,omitempty"`
	ExternalReservationID *string         `json:"external_reservation_id,omitempty"`
	RecurringPattern      *string         `json:"recurring_pattern,omitempty"`
	Payload               json.RawMessage `json:"payload,omitempty"`
}

// SyncRawEventsRequest is the bulk sync body.
// @Description Bulk raw event sync request
type SyncRawEventsRequest struct {
	Events []SyncRawEventItem `json:"events" validate:"required,min=1,max=1000,dive"`
}

// SyncRawEventsResult reports per-batch sync counts.
type SyncRawEventsResult struct {
	Synced int      `json:"synced"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// SyncRawEvents bulk-upserts raw events from an external sync job
// @Summary Sync raw events
// @Description Upsert a batch of raw events keyed on (source, source_id). Individual record failures do not abort the batch.
// @Tags raw-events
// @Accept json
// @Produce json
// @Param request body SyncRawEventsRequest true "Batch of raw events"
// @Success 200 {object} api.APIResponse{data=SyncRawEventsResult}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /raw-events/sync [post]
func (h *RawEventHandler) SyncRawEvents(c *gin.Context) {
	var req SyncRawEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	result := SyncRawEventsResult{}
	for i, item := range req.Events {
		upsert, err := h.toUpsertRequest(item)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if _, err := h.rawEvents.Upsert(c.Request.Context(), upsert); err != nil {
			logger.Error().Err(err).
				Str("source", item.Source).
				Str("source_id", item.SourceID).
				Int("index", i).
				Msg("Raw event upsert failed")
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Synced++
	}

	api.SendSuccess(c, http.StatusOK, result)
}

func (h *RawEventHandler) toUpsertRequest(item SyncRawEventItem) (repository.UpsertRawEventRequest, error) {
	src, err := source.Parse(item.Source)
	if err != nil {
		return repository.UpsertRawEventRequest{}, err
	}

	startDate, err := time.Parse("2006-01-02", item.StartDate)
	if err != nil {
		return repository.UpsertRawEventRequest{}, err
	}

	var endDate *time.Time
	if item.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *item.EndDate)
		if err != nil {
			return repository.UpsertRawEventRequest{}, err
		}
		endDate = &parsed
	}

	payload := item.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	return repository.UpsertRawEventRequest{
		Source:                src,
		SourceID:              item.SourceID,
		Title:                 item.Title,
		Description:           item.Description,
		StartDate:             startDate,
		EndDate:               endDate,
		StartTime:             item.StartTime,
		EndTime:               item.EndTime,
		Location:              item.Location,
		Resource:              item.Resource,
		ContactPerson:         item.ContactPerson,
		ExternalReservationID: item.ExternalReservationID,
		RecurringPattern:      item.RecurringPattern,
		Payload:               payload,
		SyncedAt:              time.Now(),
	}, nil
}

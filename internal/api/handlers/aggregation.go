package handlers

import (
	"net/http"
	"time"

	"campus-ops/internal/api"
	"campus-ops/internal/service"

	"github.com/gin-gonic/gin"
)

// AggregationHandler handles batch aggregation and conflict detection triggers
type AggregationHandler struct {
	aggregation *service.AggregationService
	conflicts   *service.ConflictService
}

// NewAggregationHandler creates a new aggregation handler
func NewAggregationHandler(aggregation *service.AggregationService, conflicts *service.ConflictService) *AggregationHandler {
	return &AggregationHandler{aggregation: aggregation, conflicts: conflicts}
}

// RunBatchRequest selects the date range for a batch run. Defaults to today.
// @Description Request body for batch runs
type RunBatchRequest struct {
	FromDate string `json:"from_date,omitempty" example:"2025-03-10"`
}

// RunAggregation triggers an aggregation run
// @Summary Run event aggregation
// @Description Merge raw events from the given date forward into canonical events
// @Tags aggregation
// @Accept json
// @Produce json
// @Param request body RunBatchRequest false "Run options"
// @Success 200 {object} api.APIResponse{data=service.AggregationResult}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 500 {object} api.APIResponse{error=api.APIError}
// @Router /aggregation/run [post]
func (h *AggregationHandler) RunAggregation(c *gin.Context) {
	from, ok := parseFromDate(c)
	if !ok {
		return
	}

	result, err := h.aggregation.Run(c.Request.Context(), from)
	if err != nil {
		api.SendError(c, http.StatusInternalServerError, api.ErrCodeInternal, "Aggregation run failed", err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, result)
}

// RunConflictScan triggers a conflict detection sweep
// @Summary Run conflict detection
// @Description Flag canonical events competing for the same location and time
// @Tags aggregation
// @Accept json
// @Produce json
// @Param request body RunBatchRequest false "Run options"
// @Success 200 {object} api.APIResponse{data=service.ConflictResult}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 500 {object} api.APIResponse{error=api.APIError}
// @Router /conflicts/run [post]
func (h *AggregationHandler) RunConflictScan(c *gin.Context) {
	from, ok := parseFromDate(c)
	if !ok {
		return
	}

	result, err := h.conflicts.Run(c.Request.Context(), from)
	if err != nil {
		api.SendError(c, http.StatusInternalServerError, api.ErrCodeInternal, "Conflict scan failed", err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, result)
}

// parseFromDate reads the optional from_date body field, defaulting to
// today. Writes the error response itself when the date is malformed.
func parseFromDate(c *gin.Context) (time.Time, bool) {
	var req RunBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return time.Time{}, false
	}

	if req.FromDate == "" {
		return today(), true
	}

	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		api.SendValidationError(c, "Invalid from_date, expected YYYY-MM-DD", err.Error())
		return time.Time{}, false
	}
	return from, true
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-ops/internal/api"
	"campus-ops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AvailabilityHandler handles resource availability checks
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// CheckAvailability reports whether a resource is free at a time slot
// @Summary Check resource availability
// @Description Report whether a resource is free at the given date and time slot, listing colliding events
// @Tags availability
// @Produce json
// @Param resource_id query int true "Resource ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Start time, e.g. 9:00 am or 14:30"
// @Param end_time query string true "End time"
// @Param exclude_event_id query string false "Event ID to exclude from the check"
// @Success 200 {object} api.APIResponse{data=service.AvailabilityResult}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /availability [get]
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	resourceID, err := strconv.ParseInt(c.Query("resource_id"), 10, 32)
	if err != nil {
		api.SendValidationError(c, "Invalid or missing resource_id", err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		api.SendValidationError(c, "Invalid or missing date, expected YYYY-MM-DD", err.Error())
		return
	}

	req := service.AvailabilityRequest{
		ResourceID: int32(resourceID),
		Date:       date,
		StartTime:  c.Query("start_time"),
		EndTime:    c.Query("end_time"),
	}

	if excludeStr := c.Query("exclude_event_id"); excludeStr != "" {
		excludeID, err := uuid.Parse(excludeStr)
		if err != nil {
			api.SendValidationError(c, "Invalid exclude_event_id", err.Error())
			return
		}
		req.ExcludeEventID = &excludeID
	}

	result, err := h.availability.Check(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			api.SendValidationError(c, "Invalid time range", err.Error())
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, result)
}

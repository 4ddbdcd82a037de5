package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-ops/internal/repository"
	"campus-ops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailabilityStore struct {
	events []repository.Event
}

func (f *fakeAvailabilityStore) ListByResourceDate(_ context.Context, _ int32, _ time.Time) ([]repository.Event, error) {
	return f.events, nil
}

func availabilityRouter(events []repository.Event) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAvailabilityService(&fakeAvailabilityStore{events: events}, 0.8)
	handler := NewAvailabilityHandler(svc)

	router := gin.New()
	router.GET("/api/v1/availability", handler.CheckAvailability)
	return router
}

func bookedEvent(title, start, end string) repository.Event {
	return repository.Event{
		ID:        uuid.New(),
		Title:     title,
		StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: &start,
		EndTime:   &end,
	}
}

func TestCheckAvailabilityFree(t *testing.T) {
	router := availabilityRouter([]repository.Event{bookedEvent("Board Meeting", "9:00 am", "10:00 am")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/availability?resource_id=3&date=2025-03-10&start_time=10:00+am&end_time=11:00+am", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Available bool              `json:"available"`
			Conflicts []json.RawMessage `json:"conflicts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Available)
	assert.Empty(t, resp.Data.Conflicts)
}

func TestCheckAvailabilityConflict(t *testing.T) {
	router := availabilityRouter([]repository.Event{bookedEvent("Board Meeting", "9:00 am", "10:00 am")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/availability?resource_id=3&date=2025-03-10&start_time=9:05+am&end_time=9:35+am", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Available bool `json:"available"`
			Conflicts []struct {
				Title string `json:"title"`
			} `json:"conflicts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Available)
	require.Len(t, resp.Data.Conflicts, 1)
	assert.Equal(t, "Board Meeting", resp.Data.Conflicts[0].Title)
}

func TestCheckAvailabilityValidation(t *testing.T) {
	router := availabilityRouter(nil)

	cases := []struct {
		name  string
		query string
	}{
		{"missing resource_id", "date=2025-03-10&start_time=9:00+am&end_time=10:00+am"},
		{"bad date", "resource_id=3&date=March+10&start_time=9:00+am&end_time=10:00+am"},
		{"inverted range", "resource_id=3&date=2025-03-10&start_time=10:00+am&end_time=9:00+am"},
		{"bad exclude id", "resource_id=3&date=2025-03-10&start_time=9:00+am&end_time=10:00+am&exclude_event_id=nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/v1/availability?"+tc.query, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

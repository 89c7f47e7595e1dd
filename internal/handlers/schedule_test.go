package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/md-evans-dev/meetsched/internal/availability"
)

type stubMeetingStore struct {
	intervals []availability.Interval
	err       error
}

func (s *stubMeetingStore) IntervalsForParticipants(context.Context, []string, time.Time, time.Time) ([]availability.Interval, error) {
	return s.intervals, s.err
}

type stubRoomStore struct {
	rooms map[string]availability.RoomSchedule
	err   error
}

func (s *stubRoomStore) RoomSchedules(context.Context, time.Time, time.Time) (map[string]availability.RoomSchedule, error) {
	return s.rooms, s.err
}

func newTestHandler(meetings *stubMeetingStore, rooms *stubRoomStore) *ScheduleHandler {
	// Wednesday 08:00 UTC, a fixed weekday morning.
	now := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	sched := availability.NewScheduler(meetings, rooms, func() time.Time { return now })
	return NewScheduleHandler(sched, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSuggestions_ReturnsProposals(t *testing.T) {
	h := newTestHandler(&stubMeetingStore{}, &stubRoomStore{
		rooms: map[string]availability.RoomSchedule{"aquarium": {}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/suggestions?participants=ava@example.com&duration=1H", nil)
	rec := httptest.NewRecorder()
	h.Suggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var items []suggestionItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected suggestions for an empty calendar")
	}
	if len(items[0].Rooms) == 0 {
		t.Fatal("suggestion rooms must not be empty")
	}
	if items[0].End.Sub(items[0].Start) != time.Hour {
		t.Fatalf("expected 1h span, got %s", items[0].End.Sub(items[0].Start))
	}
}

func TestSuggestions_EmptyResultIsOK(t *testing.T) {
	h := newTestHandler(&stubMeetingStore{}, &stubRoomStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/suggestions?participants=ava@example.com", nil)
	rec := httptest.NewRecorder()
	h.Suggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestSuggestions_MissingParticipants(t *testing.T) {
	h := newTestHandler(&stubMeetingStore{}, &stubRoomStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/suggestions", nil)
	rec := httptest.NewRecorder()
	h.Suggestions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSuggestions_BadIntegerParam(t *testing.T) {
	h := newTestHandler(&stubMeetingStore{}, &stubRoomStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/suggestions?participants=ava@example.com&horizon_days=soon", nil)
	rec := httptest.NewRecorder()
	h.Suggestions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSuggestions_StoreFailure(t *testing.T) {
	h := newTestHandler(&stubMeetingStore{err: errors.New("connection refused")}, &stubRoomStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/suggestions?participants=ava@example.com", nil)
	rec := httptest.NewRecorder()
	h.Suggestions(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestSuggestions_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&stubMeetingStore{}, &stubRoomStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/suggestions", nil)
	rec := httptest.NewRecorder()
	h.Suggestions(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-evans-dev/meetsched/internal/availability"
)

type ScheduleHandler struct {
	scheduler *availability.Scheduler
	logger    *slog.Logger
}

func NewScheduleHandler(scheduler *availability.Scheduler, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduler: scheduler, logger: logger}
}

type suggestionItem struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Rooms []string  `json:"rooms"`
}

// Suggestions answers GET /api/v1/schedule/suggestions. No fitting run is a
// 200 with an empty array, not an error.
func (h *ScheduleHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	req := availability.Request{
		Participants: splitCSV(q.Get("participants")),
		ResourceTags: splitCSV(q.Get("resources")),
		Duration:     strings.TrimSpace(q.Get("duration")),
	}

	var bad bool
	req.HorizonDays = intParam(q.Get("horizon_days"), &bad)
	req.WorkStart = intParam(q.Get("work_start"), &bad)
	req.WorkEnd = intParam(q.Get("work_end"), &bad)
	if bad {
		http.Error(w, "horizon_days, work_start and work_end must be integers", http.StatusBadRequest)
		return
	}

	suggestions, err := h.scheduler.Schedule(r.Context(), req)
	if err != nil {
		if errors.Is(err, availability.ErrNoParticipants) || errors.Is(err, availability.ErrInvalidWorkWindow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("schedule computation failed", "err", err)
		http.Error(w, "failed to load scheduling data", http.StatusBadGateway)
		return
	}

	items := make([]suggestionItem, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, suggestionItem{
			Start: s.Start.UTC(),
			End:   s.End.UTC(),
			Rooms: s.Rooms,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// intParam parses an optional integer query value; zero means unset.
func intParam(raw string, bad *bool) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		*bad = true
		return 0
	}
	return n
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/md-evans-dev/meetsched/internal/model"
	"github.com/md-evans-dev/meetsched/internal/outbox"
	"github.com/md-evans-dev/meetsched/internal/storage"
)

type MeetingsHandler struct {
	repo       *storage.MeetingRepository
	users      *storage.UserRepository
	rooms      *storage.RoomRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
}

func NewMeetingsHandler(repo *storage.MeetingRepository, users *storage.UserRepository, rooms *storage.RoomRepository, outboxRepo *outbox.Repository, logger *slog.Logger) *MeetingsHandler {
	return &MeetingsHandler{repo: repo, users: users, rooms: rooms, outboxRepo: outboxRepo, logger: logger}
}

type createMeetingRequest struct {
	Name         string   `json:"name"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Room         string   `json:"room"`
	Participants []string `json:"participants"`
}

type meetingResponse struct {
	MeetingID    string   `json:"meeting_id"`
	Name         string   `json:"name"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	RoomID       string   `json:"room_id,omitempty"`
	Organizer    string   `json:"organizer,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

// Create books a meeting on the organizer's and every known participant's
// calendar. Double-booking is not rejected here; the scheduler only reads
// state and conflict resolution is out of scope.
func (h *MeetingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Room = strings.TrimSpace(req.Room)
	participants := make([]string, 0, len(req.Participants))
	for _, p := range req.Participants {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}
	if req.Name == "" || len(participants) == 0 {
		http.Error(w, "name and participants are required", http.StatusBadRequest)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	if !endTime.After(startTime) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	organizer := participants[0]
	if _, err := h.users.GetByEmail(ctx, organizer); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "organizer not found", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "failed to resolve organizer", http.StatusInternalServerError)
		return
	}

	meeting := &model.Meeting{
		Name:         req.Name,
		StartTime:    startTime.UTC(),
		EndTime:      endTime.UTC(),
		Organizer:    organizer,
		Participants: participants,
	}
	if req.Room != "" {
		room, err := h.rooms.GetByName(ctx, req.Room)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "meeting room not found", http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "failed to resolve room", http.StatusInternalServerError)
			return
		}
		meeting.RoomID = room.ID
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := h.repo.Create(ctx, tx, meeting)
	if err != nil {
		http.Error(w, "failed to create meeting", http.StatusInternalServerError)
		return
	}

	if err := h.insertEvent(ctx, tx, outbox.EventMeetingCreated, id, meeting); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/api/v1/meetings/"+id)
	writeJSON(w, http.StatusCreated, meetingResponse{MeetingID: id})
}

// ByID dispatches GET/PUT/DELETE for /api/v1/meetings/{id}.
func (h *MeetingsHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "meeting id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *MeetingsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	m, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load meeting", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse{
		MeetingID:    m.ID,
		Name:         m.Name,
		StartTime:    m.StartTime.UTC().Format(time.RFC3339),
		EndTime:      m.EndTime.UTC().Format(time.RFC3339),
		RoomID:       m.RoomID,
		Organizer:    m.Organizer,
		Participants: m.Participants,
	})
}

type updateMeetingRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (h *MeetingsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	var patch model.Meeting
	patch.Name = strings.TrimSpace(req.Name)
	if req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			http.Error(w, "invalid start_time", http.StatusBadRequest)
			return
		}
		patch.StartTime = t.UTC()
	}
	if req.EndTime != "" {
		t, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			http.Error(w, "invalid end_time", http.StatusBadRequest)
			return
		}
		patch.EndTime = t.UTC()
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := h.repo.Update(ctx, tx, id, patch)
	if err != nil {
		http.Error(w, "failed to update meeting", http.StatusInternalServerError)
		return
	}
	if updated == 0 {
		http.Error(w, "meeting not found", http.StatusNotFound)
		return
	}

	if err := h.insertEvent(ctx, tx, outbox.EventMeetingUpdated, id, &patch); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse{MeetingID: id})
}

func (h *MeetingsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	m, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load meeting", http.StatusInternalServerError)
		return
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deleted, err := h.repo.Delete(ctx, tx, id)
	if err != nil {
		http.Error(w, "failed to delete meeting", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "meeting not found", http.StatusNotFound)
		return
	}

	if err := h.insertEvent(ctx, tx, outbox.EventMeetingCancelled, id, &m); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MeetingsHandler) insertEvent(ctx context.Context, tx pgx.Tx, eventType, id string, m *model.Meeting) error {
	payload, err := json.Marshal(map[string]any{
		"meeting_id":   id,
		"name":         m.Name,
		"start_time":   m.StartTime.UTC().Format(time.RFC3339),
		"end_time":     m.EndTime.UTC().Format(time.RFC3339),
		"room_id":      m.RoomID,
		"organizer":    m.Organizer,
		"participants": m.Participants,
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "meeting",
		AggregateID:   id,
		EventType:     eventType,
		Payload:       payload,
	})
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/md-evans-dev/meetsched/internal/model"
	"github.com/md-evans-dev/meetsched/internal/storage"
)

type RoomsHandler struct {
	repo   *storage.RoomRepository
	logger *slog.Logger
}

func NewRoomsHandler(repo *storage.RoomRepository, logger *slog.Logger) *RoomsHandler {
	return &RoomsHandler{repo: repo, logger: logger}
}

type roomRequest struct {
	Name      string   `json:"name"`
	Resources []string `json:"resources"`
}

type roomResponse struct {
	RoomID    string   `json:"room_id"`
	Name      string   `json:"name,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// Collection handles POST /api/v1/rooms and GET /api/v1/rooms[?resource=].
func (h *RoomsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RoomsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	resources := make([]string, 0, len(req.Resources))
	for _, tag := range req.Resources {
		if tag = strings.TrimSpace(tag); tag != "" {
			resources = append(resources, tag)
		}
	}

	id, err := h.repo.Create(r.Context(), &model.Room{Name: req.Name, Resources: resources})
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "room name already taken", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/api/v1/rooms/"+id)
	writeJSON(w, http.StatusCreated, roomResponse{RoomID: id})
}

func (h *RoomsHandler) list(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.repo.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("resource")))
	if err != nil {
		http.Error(w, "failed to list rooms", http.StatusInternalServerError)
		return
	}

	items := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, roomResponse{RoomID: room.ID, Name: room.Name, Resources: room.Resources})
	}
	writeJSON(w, http.StatusOK, items)
}

// ByID dispatches GET/PUT/DELETE for /api/v1/rooms/{id}.
func (h *RoomsHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "room id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		room, err := h.repo.GetByID(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load room", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, roomResponse{RoomID: room.ID, Name: room.Name, Resources: room.Resources})
	case http.MethodPut:
		var req roomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		updated, err := h.repo.Rename(r.Context(), id, req.Name)
		if err != nil {
			http.Error(w, "failed to update room", http.StatusInternalServerError)
			return
		}
		if updated == 0 {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, roomResponse{RoomID: id, Name: req.Name})
	case http.MethodDelete:
		deleted, err := h.repo.Delete(r.Context(), id)
		if err != nil {
			http.Error(w, "failed to delete room", http.StatusInternalServerError)
			return
		}
		if deleted == 0 {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Meetings answers GET /api/v1/rooms/{id}/meetings with the room's upcoming
// bookings.
func (h *RoomsHandler) Meetings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "room id required", http.StatusBadRequest)
		return
	}

	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load room", http.StatusInternalServerError)
		return
	}

	meetings, err := h.repo.ListMeetings(r.Context(), id, time.Now().UTC(), 50)
	if err != nil {
		http.Error(w, "failed to list meetings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toMeetingItems(meetings))
}

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

type UsersHandler struct {
	repo   *storage.UserRepository
	logger *slog.Logger
}

func NewUsersHandler(repo *storage.UserRepository, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{repo: repo, logger: logger}
}

type userRequest struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

type userResponse struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}

// Collection handles POST /api/v1/users and GET /api/v1/users?email=.
func (h *UsersHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.lookup(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	id, err := h.repo.Create(r.Context(), &model.User{
		Email:      req.Email,
		GivenName:  strings.TrimSpace(req.GivenName),
		FamilyName: strings.TrimSpace(req.FamilyName),
	})
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/api/v1/users/"+id)
	writeJSON(w, http.StatusCreated, userResponse{UserID: id})
}

func (h *UsersHandler) lookup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		http.Error(w, "email query parameter required", http.StatusBadRequest)
		return
	}

	u, err := h.repo.GetByEmail(r.Context(), email)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// ByID dispatches GET/PUT/DELETE for /api/v1/users/{id}.
func (h *UsersHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "user id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := h.repo.GetByID(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load user", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	case http.MethodPut:
		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		updated, err := h.repo.Update(r.Context(), id, model.User{
			Email:      strings.TrimSpace(req.Email),
			GivenName:  strings.TrimSpace(req.GivenName),
			FamilyName: strings.TrimSpace(req.FamilyName),
		})
		if err != nil {
			http.Error(w, "failed to update user", http.StatusInternalServerError)
			return
		}
		if updated == 0 {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{UserID: id})
	case http.MethodDelete:
		deleted, err := h.repo.Delete(r.Context(), id)
		if err != nil {
			http.Error(w, "failed to delete user", http.StatusInternalServerError)
			return
		}
		if deleted == 0 {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Meetings answers GET /api/v1/users/{id}/meetings with the user's upcoming
// calendar entries.
func (h *UsersHandler) Meetings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "user id required", http.StatusBadRequest)
		return
	}

	meetings, err := h.repo.ListMeetings(r.Context(), id, time.Now().UTC(), 50)
	if err != nil {
		http.Error(w, "failed to list meetings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toMeetingItems(meetings))
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		UserID:     u.ID,
		Email:      u.Email,
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
	}
}

type meetingItem struct {
	MeetingID string `json:"meeting_id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	RoomID    string `json:"room_id,omitempty"`
}

func toMeetingItems(meetings []model.Meeting) []meetingItem {
	items := make([]meetingItem, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, meetingItem{
			MeetingID: m.ID,
			Name:      m.Name,
			StartTime: m.StartTime.UTC().Format(time.RFC3339),
			EndTime:   m.EndTime.UTC().Format(time.RFC3339),
			RoomID:    m.RoomID,
		})
	}
	return items
}

// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	users     *domain.UserService
	exercises *domain.ExerciseService
}

// NewHandler builds a Handler.
func NewHandler(users *domain.UserService, exercises *domain.ExerciseService) *Handler {
	return &Handler{users: users, exercises: exercises}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.usersCollection)
	mux.HandleFunc("/api/users/{id}/exercises", h.userExercises)
	mux.HandleFunc("/api/users/{id}/logs", h.userLogs)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) usersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) userExercises(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.addExercise(w, r)
}

func (h *Handler) userLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.listLogs(w, r)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), domain.NewUser{Username: req.Username})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]UserView, 0, len(users))
	for _, user := range users {
		items = append(items, toUserView(user))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	exercise, err := h.exercises.AppendExercise(r.Context(), domain.NewExercise{
		UserID:          userID,
		Description:     req.Description,
		DurationMinutes: req.duration(),
		Date:            req.Date,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ExerciseView{
		ID:              exercise.UserID,
		Username:        exercise.Username,
		Date:            domain.FormatDisplayDate(exercise.Date),
		DurationMinutes: exercise.DurationMinutes,
		Description:     exercise.Description,
	})
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	log, err := h.exercises.ListLogs(r.Context(), domain.LogQuery{
		UserID: userID,
		From:   q.Get("from"),
		To:     q.Get("to"),
		Limit:  q.Get("limit"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := LogView{
		ID:       log.User.ID,
		Username: log.User.Username,
		Count:    log.Count,
		Log:      make([]LogEntryView, 0, len(log.Entries)),
	}
	for _, entry := range log.Entries {
		resp.Log = append(resp.Log, LogEntryView{
			Description:     entry.Description,
			DurationMinutes: entry.DurationMinutes,
			Date:            domain.FormatDisplayDate(entry.Date),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// pathUserID parses the {id} segment. An id that is not an integer cannot reference a user,
// so it is reported as not found.
func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeDomainError(w, r, domain.UserNotFound(raw))
		return 0, false
	}
	return id, true
}

// UserView is the public shape of a user.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ExerciseView is returned after an exercise is appended. ID is the owning user's id.
type ExerciseView struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Description     string `json:"description"`
}

// LogEntryView is a single entry of a user's log.
type LogEntryView struct {
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	Date            string `json:"date"`
}

// LogView packages a user's filtered exercise log.
type LogView struct {
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	Count    int            `json:"count"`
	Log      []LogEntryView `json:"log"`
}

func toUserView(user domain.User) UserView {
	return UserView{ID: user.ID, Username: user.Username}
}

// writeDomainError maps the domain error classes to HTTP statuses. Storage failures are logged
// with their cause and reported to the client with the generic detail only.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	detail := http.StatusText(http.StatusInternalServerError)
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		detail = domainErr.Detail
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", detail)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, "conflict", detail)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", detail)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error", detail)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

// Package httpapi exposes the identity and room services over JSON HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hearsay-chat/hearsay/internal/identity"
	"github.com/hearsay-chat/hearsay/internal/observability"
	"github.com/hearsay-chat/hearsay/internal/room"
)

// maxBodyBytes caps request bodies; no API payload legitimately approaches it.
const maxBodyBytes = 1 << 20

// Handler serves the public API. Metrics may be nil, in which case no
// counters are recorded.
type Handler struct {
	identity *identity.Service
	rooms    *room.Service
	users    identity.UserRepository
	hasher   identity.PasswordHasher
	metrics  *observability.Metrics
	log      *slog.Logger
}

// NewHandler builds a Handler. The user repository and hasher back the login
// and bearer-token paths directly; everything else goes through the services.
func NewHandler(
	identitySvc *identity.Service,
	roomSvc *room.Service,
	users identity.UserRepository,
	hasher identity.PasswordHasher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) (*Handler, error) {
	if identitySvc == nil {
		return nil, oops.Code("API_INVALID_DEPENDENCY").Errorf("identity service is required")
	}
	if roomSvc == nil {
		return nil, oops.Code("API_INVALID_DEPENDENCY").Errorf("room service is required")
	}
	if users == nil {
		return nil, oops.Code("API_INVALID_DEPENDENCY").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("API_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		identity: identitySvc,
		rooms:    roomSvc,
		users:    users,
		hasher:   hasher,
		metrics:  metrics,
		log:      logger,
	}, nil
}

// Register attaches all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/users", h.handleSignup)
	mux.HandleFunc("POST /v1/sessions", h.handleLogin)
	mux.HandleFunc("GET /v1/users/{username}", h.handleGetUser)
	mux.HandleFunc("GET /v1/users/me", h.requireUser(h.handleMe))
	mux.HandleFunc("PATCH /v1/users/me", h.requireUser(h.handleUpdateUser))
	mux.HandleFunc("DELETE /v1/users/me", h.requireUser(h.handleDeleteUser))

	mux.HandleFunc("GET /v1/rooms", h.handleFeed)
	mux.HandleFunc("POST /v1/rooms", h.requireUser(h.handleCreateRoom))
	mux.HandleFunc("GET /v1/rooms/{id}", h.handleGetRoom)
	mux.HandleFunc("POST /v1/rooms/{id}/archive", h.requireUser(h.handleArchiveRoom))
	mux.HandleFunc("DELETE /v1/rooms/{id}", h.requireUser(h.handleDeleteRoom))

	mux.HandleFunc("GET /v1/rooms/{id}/comments", h.handleListComments)
	mux.HandleFunc("POST /v1/rooms/{id}/comments", h.requireUser(h.handleAddComment))
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in identity.CreateInput
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_BODY", "invalid request body")
		return
	}

	view, err := h.identity.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SignupsTotal.Inc()
	}
	writeJSON(w, http.StatusCreated, view)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and returns the stored token. A user in
// the orphaned no-token state gets a fresh token issued here, which is the
// recovery path after a failed signup token issuance.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_BODY", "invalid request body")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), in.Username)
	if err != nil {
		// Unknown username and bad password are indistinguishable on purpose.
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}
	ok, err := h.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}

	if user.AuthToken == "" {
		view, err := h.identity.IssueMissingToken(r.Context(), user)
		if err != nil {
			h.respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}
	writeJSON(w, http.StatusOK, user.View(true))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	view, err := h.identity.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request, user *identity.User) {
	view, err := h.identity.GetByID(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request, user *identity.User) {
	var delta identity.UpdateInput
	if err := decodeJSON(w, r, maxBodyBytes, &delta); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_BODY", "invalid request body")
		return
	}

	view, err := h.identity.Update(r.Context(), user, delta)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if delta.Password != "" && h.metrics != nil {
		h.metrics.TokenRotationsTotal.Inc()
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request, user *identity.User) {
	if err := h.identity.Delete(r.Context(), user); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	archived := r.URL.Query().Get("archived") == "true"
	feed, err := h.rooms.Feed(r.Context(), archived)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]room.Room{"rooms": feed})
}

type createRoomRequest struct {
	Title    string        `json:"title"`
	Topic    room.Topic    `json:"topic"`
	Location room.Location `json:"location"`
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request, user *identity.User) {
	var in createRoomRequest
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_BODY", "invalid request body")
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), user.ID, &room.Room{
		Title:    in.Title,
		Topic:    in.Topic,
		Location: in.Location,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rm, err := h.rooms.GetRoom(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (h *Handler) handleArchiveRoom(w http.ResponseWriter, r *http.Request, user *identity.User) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in archiveRequest
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_BODY", "invalid request body")
		return
	}
	if !h.authorizeAuthor(w, r, id, user) {
		return
	}
	if err := h.rooms.Archive(r.Context(), id, in.Archived); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteRoom(w http.ResponseWriter, r *http.Request, user *identity.User) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if !h.authorizeAuthor(w, r, id, user) {
		return
	}
	if err := h.rooms.DeleteRoom(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request, user *identity.User) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in commentRequest
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_BODY", "invalid request body")
		return
	}
	comment, err := h.rooms.AddComment(r.Context(), id, user.ID, in.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	comments, err := h.rooms.Comments(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]room.Comment{"comments": comments})
}

// authorizeAuthor checks that user authored the room. It writes the error
// response itself and reports whether the caller may proceed.
func (h *Handler) authorizeAuthor(w http.ResponseWriter, r *http.Request, roomID ulid.ULID, user *identity.User) bool {
	rm, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		h.respondError(w, err)
		return false
	}
	if rm.AuthorID != user.ID {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "only the room author may do that")
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_ID", "invalid room id")
		return ulid.ULID{}, false
	}
	return id, true
}

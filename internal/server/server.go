package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/op/go-logging.v1"

	"secretto/internal/domain"
	"secretto/internal/log"
	"secretto/internal/router"
)

const maxBlobBytes = 32 << 20

// Server is the HTTP/websocket surface of the chat service.
type Server struct {
	store    domain.SessionStore
	keys     domain.KeyDirectory
	blobs    domain.BlobStore
	presence domain.Presence
	router   *router.Router
	log      *logging.Logger
}

// New constructs the server.
func New(store domain.SessionStore, keys domain.KeyDirectory, blobs domain.BlobStore, pres domain.Presence, rt *router.Router, logBackend *log.Backend) *Server {
	return &Server{
		store:    store,
		keys:     keys,
		blobs:    blobs,
		presence: pres,
		router:   rt,
		log:      logBackend.GetLogger("server"),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/keys/{user}", s.handlePublishKey).Methods("PUT")
	v1.HandleFunc("/keys/{user}", s.handleFetchKey).Methods("GET")

	v1.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	v1.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	v1.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")

	v1.HandleFunc("/files", s.handleUploadBlob).Methods("POST")
	v1.HandleFunc("/files/{id}", s.handleDownloadBlob).Methods("GET")

	v1.HandleFunc("/ws", s.handleWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type keyPayload struct {
	PublicKey string `json:"public_key"`
}

func (s *Server) handlePublishKey(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(mux.Vars(r)["user"])
	var p keyPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.PublicKey == "" {
		http.Error(w, "bad key payload", http.StatusBadRequest)
		return
	}
	if err := s.keys.PublishKey(r.Context(), user, p.PublicKey); err != nil {
		s.log.Errorf("publish key for %s: %v", user, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetchKey(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(mux.Vars(r)["user"])
	key, ok, err := s.keys.FetchKey(r.Context(), user)
	if err != nil {
		s.log.Errorf("fetch key for %s: %v", user, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, keyPayload{PublicKey: key})
}

// CreateSessionRequest is the session-start payload.
type CreateSessionRequest struct {
	Name         string        `json:"name"`
	Participants [2]string     `json:"participants"`
	Password     string        `json:"password,omitempty"`
	TTL          time.Duration `json:"ttl,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad session payload", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Participants[0] == "" || req.Participants[1] == "" ||
		req.Participants[0] == req.Participants[1] {
		http.Error(w, "a session needs a name and two distinct participants", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:   uuid.NewString(),
		Name: req.Name,
		Participants: [2]domain.UserID{
			domain.UserID(req.Participants[0]),
			domain.UserID(req.Participants[1]),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.TTL > 0 {
		t := now.Add(req.TTL)
		sess.ExpiresAt = &t
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		sess.PasswordHash = string(hash)
	}

	if err := s.store.Create(r.Context(), sess); err != nil {
		s.log.Errorf("create session: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Tell any online participant about the new chat, best-effort.
	if ev, err := domain.NewEvent(domain.EventNewChat, sess); err == nil {
		for _, p := range sess.Participants {
			if conn, online := s.presence.Lookup(p); online {
				if err := conn.Push(ev); err != nil {
					s.log.Warningf("new_chat push to %s failed: %v", p, err)
				}
			}
		}
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(r.URL.Query().Get("participant"))
	if user == "" {
		http.Error(w, "participant query parameter required", http.StatusBadRequest)
		return
	}
	sessions, err := s.store.FindByParticipant(r.Context(), user)
	if err != nil {
		s.log.Errorf("list sessions for %s: %v", user, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	now := time.Now().UTC()
	out := make([]domain.Session, 0, len(sessions))
	for _, sess := range sessions {
		if !sess.Expired(now) {
			out = append(out, sess)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok, err := s.store.Find(r.Context(), id)
	if err != nil {
		s.log.Errorf("find session %s: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// An expired session is indistinguishable from a purged one.
	if !ok || sess.Expired(time.Now().UTC()) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if sess.PasswordHash != "" {
		pw := r.Header.Get("X-Session-Password")
		if bcrypt.CompareHashAndPassword([]byte(sess.PasswordHash), []byte(pw)) != nil {
			http.Error(w, "session password required", http.StatusForbidden)
			return
		}
	}
	writeJSON(w, http.StatusOK, sess)
}

type uploadResponse struct {
	FileID string `json:"file_id"`
}

func (s *Server) handleUploadBlob(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBlobBytes+1))
	if err != nil {
		http.Error(w, "read failed", http.StatusBadRequest)
		return
	}
	if len(data) == 0 || len(data) > maxBlobBytes {
		http.Error(w, "blob size out of range", http.StatusRequestEntityTooLarge)
		return
	}
	id, err := s.blobs.Put(r.Context(), data)
	if err != nil {
		s.log.Errorf("store blob: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{FileID: id})
}

func (s *Server) handleDownloadBlob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, ok, err := s.blobs.Get(r.Context(), id)
	if err != nil {
		s.log.Errorf("fetch blob %s: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

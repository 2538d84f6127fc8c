package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"skycast/conditions"
	"skycast/models"
	"skycast/session"
)

// SessionCookie carries the session id between requests
const SessionCookie = "skycast_session"

// Options configures the API server
type Options struct {
	Port int
	// Icons renders icon keys for the front end
	Icons conditions.IconSet
	// DefaultCity is searched for when a new session asks for its state
	DefaultCity string
}

// Server represents the API server
type Server struct {
	sessions    *SessionRegistry
	icons       conditions.IconSet
	defaultCity string
	router      *mux.Router
	server      *http.Server
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// response is the body of every session endpoint
type response struct {
	Status      session.Status            `json:"status"`
	Message     string                    `json:"message,omitempty"`
	State       session.Snapshot          `json:"state"`
	Suggestions []models.LocationMatch    `json:"suggestions,omitempty"`
	Icons       map[models.IconKey]string `json:"icons"`
}

// NewServer creates a new API server
func NewServer(sessions *SessionRegistry, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Icons.Name == "" {
		opts.Icons = conditions.FontAwesome
	}

	router := mux.NewRouter()
	server := &Server{
		sessions:    sessions,
		icons:       opts.Icons,
		defaultCity: strings.TrimSpace(opts.DefaultCity),
		router:      router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", server.handleHealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/state", server.handleState).Methods(http.MethodGet)
	api.HandleFunc("/suggest", server.handleSuggest).Methods(http.MethodGet)
	api.HandleFunc("/search", server.handleSearch).Methods(http.MethodPost)
	api.HandleFunc("/select", server.handleSelect).Methods(http.MethodPost)
	api.HandleFunc("/geolocate", server.handleGeolocate).Methods(http.MethodPost)
	api.HandleFunc("/refresh", server.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/stream", server.handleStream).Methods(http.MethodGet)

	return server
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// session resolves the caller's session from its cookie, issuing a new
// cookie when the session is unknown
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	sid, sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.logger.Debug("session started", zap.String("session", sid))
	}
	return sess, created
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, created := s.session(w, r)
	if created && s.defaultCity != "" {
		s.writeResult(w, sess.Handle(r.Context(), session.Search{Query: s.defaultCity}))
		return
	}
	snap := sess.Store().Snapshot()
	s.writeResult(w, session.Result{Status: session.StatusOK, Snapshot: snap})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)
	s.writeResult(w, sess.Handle(r.Context(), session.Suggest{Query: r.URL.Query().Get("q")}))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)
	var body struct {
		Query string `json:"query"`
	}
	if !s.decode(w, r, sess, &body) {
		return
	}
	s.writeResult(w, sess.Handle(r.Context(), session.Search{Query: body.Query}))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)
	var body struct {
		Location models.LocationMatch `json:"location"`
	}
	if !s.decode(w, r, sess, &body) {
		return
	}
	s.writeResult(w, sess.Handle(r.Context(), session.Select{Location: body.Location}))
}

func (s *Server) handleGeolocate(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)
	var body struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if !s.decode(w, r, sess, &body) {
		return
	}
	if body.Latitude == nil || body.Longitude == nil {
		s.writeResult(w, session.Result{
			Status:   session.StatusInvalidRequest,
			Message:  "latitude and longitude are required",
			Snapshot: sess.Store().Snapshot(),
		})
		return
	}
	s.writeResult(w, sess.Handle(r.Context(), session.Geolocate{Latitude: *body.Latitude, Longitude: *body.Longitude}))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)
	s.writeResult(w, sess.Handle(r.Context(), session.Refresh{}))
}

// decode reads a JSON body, answering invalid_request itself on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, sess *session.Session, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst); err != nil {
		s.writeResult(w, session.Result{
			Status:   session.StatusInvalidRequest,
			Message:  fmt.Sprintf("invalid request body: %v", err),
			Snapshot: sess.Store().Snapshot(),
		})
		return false
	}
	return true
}

func (s *Server) writeResult(w http.ResponseWriter, res session.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(res.Status))
	if err := json.NewEncoder(w).Encode(response{
		Status:      res.Status,
		Message:     res.Message,
		State:       res.Snapshot,
		Suggestions: res.Suggestions,
		Icons:       s.icons.Map(),
	}); err != nil {
		s.logger.Warn("writing response failed", zap.Error(err))
	}
}

func httpStatus(status session.Status) int {
	switch status {
	case session.StatusInvalidRequest:
		return http.StatusBadRequest
	case session.StatusLocationNotFound:
		return http.StatusNotFound
	case session.StatusNetworkError, session.StatusMalformedPayload:
		return http.StatusBadGateway
	case session.StatusStale:
		return http.StatusConflict
	default:
		return http.StatusOK
	}
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"sessions":  s.sessions.Len(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sidd1211/rerender.dev/internal/engine"
	"github.com/Sidd1211/rerender.dev/internal/storage"
)

// Store is the minimal persistence contract the API needs. Nil is allowed:
// the analyze endpoint still works, it just doesn't record scans.
type Store interface {
	SaveScan(id, source string, rep engine.Report) error
	ListScans(limit, offset int) ([]storage.ScanRow, error)
	LoadScan(id string) (engine.Report, error)
	LoadLatestScan() (string, engine.Report, error)
	ListIssues(scanID, minSeverity string) ([]engine.Issue, error)
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateUser(username, passHash, role string) (int64, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	Engine          *engine.Engine
	DB              Store
	UserStore       UserStore
	Logger          *slog.Logger
	AllowedOrigins  []string
	SessionDuration time.Duration
	MaxInputBytes   int
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	withCORS := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if origin := s.pickCORSOrigin(r); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			w.Header().Set("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h(w, r)
		}
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Analysis
	mux.HandleFunc("POST /api/v1/analyze", withCORS(s.handleAnalyze))

	// Rules inventory
	mux.HandleFunc("GET /api/v1/rules", withCORS(s.handleRules))

	// Scans
	mux.HandleFunc("GET /api/v1/scans", withCORS(s.handleListScans))
	mux.HandleFunc("GET /api/v1/scans/latest", withCORS(s.handleGetLatest))
	mux.HandleFunc("GET /api/v1/scans/{id}", withCORS(s.handleGetScan))
	mux.HandleFunc("GET /api/v1/scans/{id}/issues", withCORS(s.handleListIssues))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(withAuth(s, s.handleMe, "me")))

	// User management
	mux.HandleFunc("POST /api/v1/users", withCORS(withAdmin(s, s.handleCreateUser, "users:create")))

	// Fallback 404
	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

// pickCORSOrigin resolves the Access-Control-Allow-Origin value for a
// request. An empty AllowedOrigins list disables CORS headers entirely;
// requests from unlisted origins get none.
func (s *Server) pickCORSOrigin(r *http.Request) string {
	if len(s.AllowedOrigins) == 0 {
		return ""
	}
	origin := r.Header.Get("Origin")
	for _, ao := range s.AllowedOrigins {
		if ao == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(origin, ao) {
			return origin
		}
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

// handleAnalyze runs one fragment through the engine. A request without a
// "code" key is a transport error (400), distinct from the engine's own
// error status for a present-but-non-string value, which passes through
// verbatim as a Report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.MaxInputBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(s.MaxInputBytes)+4096)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.err(w, http.StatusRequestEntityTooLarge, "input too large")
			return
		}
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	raw, ok := body["code"]
	if !ok {
		s.err(w, http.StatusBadRequest, "missing code field")
		return
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	if code, isStr := v.(string); isStr && s.MaxInputBytes > 0 && len(code) > s.MaxInputBytes {
		s.err(w, http.StatusRequestEntityTooLarge, "input too large")
		return
	}

	rep := s.Engine.AnalyzeValue(v)

	if s.DB != nil && rep.Status != engine.StatusError {
		id := uuid.NewString()
		if err := s.DB.SaveScan(id, r.Header.Get("X-Source-Name"), rep); err != nil {
			if s.Logger != nil {
				s.Logger.Error("save scan", "err", err)
			}
		} else {
			w.Header().Set("X-Scan-ID", id)
		}
	}

	writeJSON(w, http.StatusOK, rep)
}

// GET /api/v1/rules (IDs + metadata; no auth needed for read-only)
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type R struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		Title    string `json:"title"`
		Severity string `json:"severity"`
		Gated    bool   `json:"gated,omitempty"`
	}
	var out []R
	for _, rr := range s.Engine.Rules() {
		out = append(out, R{
			ID: rr.ID, Type: rr.Type, Title: rr.Title,
			Severity: string(rr.Severity), Gated: rr.RequiresFact != "",
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.err(w, http.StatusNotImplemented, "no scan store configured")
		return
	}
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListScans(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.err(w, http.StatusNotImplemented, "no scan store configured")
		return
	}
	id, rep, err := s.DB.LoadLatestScan()
	if err != nil {
		s.err(w, http.StatusNotFound, "no scans")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "report": rep})
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.err(w, http.StatusNotImplemented, "no scan store configured")
		return
	}
	id := r.PathValue("id")
	rep, err := s.DB.LoadScan(id)
	if err != nil {
		s.err(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "report": rep})
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.err(w, http.StatusNotImplemented, "no scan store configured")
		return
	}
	id := r.PathValue("id")
	min := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("min_severity")))
	if min == "" {
		min = "info"
	}
	items, err := s.DB.ListIssues(id, min)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scan_id": id, "min_severity": min, "items": items,
	})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

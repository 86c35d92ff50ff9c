package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/db"
	"github.com/itsmardochee/SmartFit-Coach/internal/report"
	"github.com/itsmardochee/SmartFit-Coach/internal/reps"
	"github.com/itsmardochee/SmartFit-Coach/internal/session"
	"github.com/itsmardochee/SmartFit-Coach/internal/units"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	sessions *session.Manager
	db       *db.DB
	units    string
}

func NewServer(sessions *session.Manager, db *db.DB, units string) *Server {
	return &Server{
		sessions: sessions,
		db:       db,
		units:    units,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", s.listSessions)
	mux.HandleFunc("/session", s.showSession)
	mux.HandleFunc("/session/start", s.startSession)
	mux.HandleFunc("/session/stop", s.stopSession)
	mux.HandleFunc("/live", s.showLive)
	mux.HandleFunc("/config", s.showConfig)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// requestUnits returns the units for a response: a valid 'units' query
// parameter overrides the server default.
func (s *Server) requestUnits(r *http.Request) string {
	if u := r.URL.Query().Get("units"); u != "" && units.IsValid(u) {
		return u
	}
	return s.units
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	exercise := r.FormValue("exercise")
	if exercise == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'exercise' parameter")
		return
	}

	snap, err := s.sessions.Start(exercise)
	if err != nil {
		s.writeJSONError(w, http.StatusConflict, fmt.Sprintf("Failed to start session: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write snapshot")
		return
	}
}

func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap, err := s.sessions.Stop()
	if err != nil {
		s.writeJSONError(w, http.StatusConflict, fmt.Sprintf("Failed to stop session: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write snapshot")
		return
	}
}

// liveResponse is the polled live view: the latest per-frame update plus the
// running session tallies.
type liveResponse struct {
	Active   bool           `json:"active"`
	Update   *reps.Update   `json:"update,omitempty"`
	Snapshot *reps.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) showLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	target := s.requestUnits(r)
	update, snap, ok := s.sessions.Live()
	resp := liveResponse{Active: ok}
	if ok {
		if update.Angle.Valid {
			update.Angle.Degrees = units.ConvertAngle(update.Angle.Degrees, target)
		}
		if update.Rep != nil {
			rep := *update.Rep
			rep.MinAngle = units.ConvertAngle(rep.MinAngle, target)
			update.Rep = &rep
		}
		resp.Update = &update
		resp.Snapshot = &snap
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write live view")
		return
	}
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 100 // default value
	if l := r.URL.Query().Get("limit"); l != "" {
		parsedLimit, err := strconv.Atoi(l)
		if err != nil || parsedLimit < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsedLimit
	}

	sessions, err := s.db.Sessions(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve sessions: %v", err))
		return
	}

	if sessions == nil {
		sessions = []db.SessionRecord{}
	}
	if err := json.NewEncoder(w).Encode(sessions); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write sessions")
		return
	}
}

// sessionResponse bundles a stored session with its reps and derived stats.
type sessionResponse struct {
	Session db.SessionRecord    `json:"session"`
	Reps    []db.RepRecord      `json:"reps"`
	Stats   report.SessionStats `json:"stats"`
}

func (s *Server) showSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'id' parameter")
		return
	}

	record, err := s.db.Session(id)
	if err != nil {
		if db.IsNotFound(err) {
			s.writeJSONError(w, http.StatusNotFound, "Session not found")
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve session: %v", err))
		return
	}

	repRecords, err := s.db.SessionReps(id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve reps: %v", err))
		return
	}

	stats := report.Compute(record, repRecords)

	// Apply unit conversion to all angle values
	target := s.requestUnits(r)
	for i := range repRecords {
		repRecords[i].MinAngle = units.ConvertAngle(repRecords[i].MinAngle, target)
	}
	stats.MeanMinAngle = units.ConvertAngle(stats.MeanMinAngle, target)
	stats.BestMinAngle = units.ConvertAngle(stats.BestMinAngle, target)

	if repRecords == nil {
		repRecords = []db.RepRecord{}
	}
	resp := sessionResponse{Session: record, Reps: repRecords, Stats: stats}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write session")
		return
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	config := map[string]interface{}{
		"units": s.units,
	}

	if err := json.NewEncoder(w).Encode(config); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}

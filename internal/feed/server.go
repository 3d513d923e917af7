package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// Server publishes a goal in the feed's wire format. GET reads it, POST and
// PUT replace it.
type Server struct {
	mu     sync.RWMutex
	goal   string
	logger *slog.Logger
}

// NewServer creates a server publishing goal
func NewServer(goal string) *Server {
	return &Server{goal: goal, logger: slog.Default()}
}

// SetLogger sets the logger used for goal updates
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetGoal replaces the published goal
func (s *Server) SetGoal(goal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = goal
}

// Goal returns the published goal
func (s *Server) Goal() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goal
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writeGoal(w, http.StatusOK, s.Goal())

	case http.MethodPost, http.MethodPut:
		var goal Goal
		if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
			http.Error(w, "invalid goal: "+err.Error(), http.StatusBadRequest)
			return
		}
		node := strings.TrimSpace(goal.Node)
		s.SetGoal(node)
		s.logger.Info("goal published", slog.String("goal", node))
		writeGoal(w, http.StatusOK, node)

	default:
		w.Header().Set("Allow", "GET, HEAD, POST, PUT")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeGoal(w http.ResponseWriter, status int, node string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Goal{Node: node})
}

package server

import (
	"context"
	"net/http"

	"github.com/planscope/planscope/internal/utils"
	"github.com/planscope/planscope/pkg/activity"
)

// Aggregator is the slice of the engine the tool surface needs.
type Aggregator interface {
	Aggregate(ctx context.Context, q activity.Query) (*activity.ResultSet, error)
	SearchEvents(ctx context.Context, q activity.Query) (*activity.ResultSet, error)
	SearchPlaces(ctx context.Context, q activity.Query) (*activity.ResultSet, error)
	LookupActivity(ctx context.Context, source activity.Source, id string) (activity.Activity, error)
}

// Server exposes the engine's operations as JSON tools over HTTP.
type Server struct {
	Engine   Aggregator
	Username string
	Password string
}

func New(engine Aggregator, user, pass string) *Server {
	return &Server{Engine: engine, Username: user, Password: pass}
}

// Handler builds the route table. Split from Start so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tools/search_events", s.basicAuth(s.handleSearchEvents))
	mux.HandleFunc("POST /api/tools/search_places", s.basicAuth(s.handleSearchPlaces))
	mux.HandleFunc("POST /api/tools/plan_activity", s.basicAuth(s.handlePlanActivity))
	mux.HandleFunc("GET /api/tools/calendar_link", s.basicAuth(s.handleCalendarLink))
	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting tool server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

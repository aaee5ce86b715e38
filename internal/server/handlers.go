package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planscope/planscope/pkg/activity"
	"github.com/planscope/planscope/pkg/calendar"
	"github.com/planscope/planscope/pkg/engine"
	"github.com/planscope/planscope/pkg/providers"
)

type searchFunc func(ctx context.Context, q activity.Query) (*activity.ResultSet, error)

func (s *Server) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.Engine.SearchEvents)
}

func (s *Server) handleSearchPlaces(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.Engine.SearchPlaces)
}

func (s *Server) handlePlanActivity(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.Engine.Aggregate)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, search searchFunc) {
	var q activity.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	rs, err := search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rs)
}

type calendarLinkResponse struct {
	URL string `json:"url,omitempty"`
	ICS string `json:"ics,omitempty"`
}

func (s *Server) handleCalendarLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source := activity.Source(q.Get("source"))
	id := q.Get("id")

	a, err := s.Engine.LookupActivity(r.Context(), source, id)
	if err != nil {
		writeError(w, err)
		return
	}

	var resp calendarLinkResponse
	if q.Get("format") == "ics" {
		resp.ICS, err = calendar.BuildICS(a)
	} else {
		resp.URL, err = calendar.BuildLink(a)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError maps the error taxonomy onto HTTP statuses. Messages pass
// through as-is; nothing below this layer embeds credentials or payloads.
func writeError(w http.ResponseWriter, err error) {
	var vErr *activity.ValidationError
	var uErr *calendar.UnsupportedActivityError
	var aErr *engine.AggregationError

	switch {
	case errors.As(err, &vErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &uErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, providers.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &aErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/session"
)

func (s *server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *server) createSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, s.deps.Sessions.Create().Snapshot())
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

func (s *server) setSessionSort(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Sort string `json:"sort"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	opt, err := ranking.ParseSortOption(req.Sort)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	sess.SetSort(opt)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *server) toggleSessionCategory(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		sess.ToggleCategory(chi.URLParam(r, "category"))
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

func (s *server) clearSessionCategories(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		sess.ClearCategories()
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

func (s *server) resetSessionCategories(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		sess.ResetCategories()
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

type sessionSearchRequest struct {
	A        *geo.NamedLocation `json:"a"`
	B        *geo.NamedLocation `json:"b"`
	Midpoint *geo.NamedLocation `json:"midpoint,omitempty"`
}

// searchSession runs a search for the session. An empty outcome is reported
// through the snapshot's error field with a 200.
func (s *server) searchSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req sessionSearchRequest
	if !readJSON(w, r, &req) {
		return
	}
	sum, err := locate(req.A, req.B, req.Midpoint)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	err = sess.Search(r.Context(), s.deps.Searcher, sum.Midpoint.Coordinate, sum.LocationA.Coordinate, sum.LocationB.Coordinate)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hireloop/interviewd/internal/archive"
)

// CandidatesHandler serves the interviewer dashboard: a read-only, derived
// view of the archive. It never mutates records.
type CandidatesHandler struct {
	arch *archive.Service
}

func NewCandidatesHandler(arch *archive.Service) *CandidatesHandler {
	return &CandidatesHandler{arch: arch}
}

// List recomputes the filtered, sorted dashboard view on every request.
// Query params: q (name substring), sort (name|score|date), dir (asc|desc).
func (h *CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := archive.ListOptions{
		Query:      q.Get("q"),
		Sort:       archive.SortKey(q.Get("sort")),
		Descending: true,
	}
	if d := q.Get("dir"); d == "asc" {
		opts.Descending = false
	}

	view, err := h.arch.List(r.Context(), opts)
	if err != nil {
		http.Error(w, "invalid query", http.StatusBadRequest)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

func (h *CandidatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.arch.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load candidate", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "candidate not found", http.StatusNotFound)
		return
	}

	writeJSON(w, rec, http.StatusOK)
}

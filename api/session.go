package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hireloop/interviewd/internal/session"
	"github.com/hireloop/interviewd/pkg/models"
)

// maxResumeUpload caps the accepted resume file size.
const maxResumeUpload = 5 << 20

// SessionHandler exposes the candidate interview flow. Every endpoint maps
// onto one manager trigger; the manager decides whether the trigger is legal
// for the current state.
type SessionHandler struct {
	mgr *session.Manager
}

func NewSessionHandler(mgr *session.Manager) *SessionHandler {
	return &SessionHandler{mgr: mgr}
}

type sessionResponse struct {
	Session       models.Session `json:"session"`
	ResumePending bool           `json:"resumePending"`
}

func (h *SessionHandler) snapshot(w http.ResponseWriter, status int) {
	snap, pending := h.mgr.Snapshot()
	writeJSON(w, sessionResponse{Session: snap, ResumePending: pending}, status)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, http.StatusOK)
}

type resumeDecisionRequest struct {
	Resume bool `json:"resume"`
}

func (h *SessionHandler) ResolveResume(w http.ResponseWriter, r *http.Request) {
	var req resumeDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	snap, err := h.mgr.ResolveResume(r.Context(), req.Resume)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusOK)
}

func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeUpload)
	file, _, err := r.FormFile("resume")
	if err != nil {
		http.Error(w, "resume file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read resume", http.StatusBadRequest)
		return
	}

	snap, err := h.mgr.Upload(r.Context(), data)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusAccepted)
}

type editFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *SessionHandler) EditField(w http.ResponseWriter, r *http.Request) {
	var req editFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Field == "" || req.Value == "" {
		http.Error(w, "field and value are required", http.StatusBadRequest)
		return
	}

	snap, err := h.mgr.EditField(r.Context(), req.Field, req.Value)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusOK)
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.Confirm(r.Context())
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusOK)
}

func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.Cancel(r.Context())
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusOK)
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.BeginInterview(r.Context())
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusAccepted)
}

type answerRequest struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	snap, err := h.mgr.SubmitAnswer(r.Context(), req.Index, req.Text)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusOK)
}

func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.Restart(r.Context())
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	writeJSON(w, sessionResponse{Session: snap}, http.StatusOK)
}

func (h *SessionHandler) writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrResumePending):
		http.Error(w, "resume decision required first", http.StatusConflict)
	case errors.Is(err, session.ErrInvalidTransition):
		http.Error(w, "action not available in current state", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

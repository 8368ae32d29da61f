package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hireloop/interviewd/pkg/models"
	"github.com/hireloop/interviewd/pkg/repository"
)

// AuthHandler manages interviewer dashboard accounts. The candidate flow is
// open; only the archive endpoints sit behind these tokens.
type AuthHandler struct {
	interviewerRepo repository.InterviewerRepo
	jwtSecret       string
	tokenDuration   time.Duration
}

func NewAuthHandler(ir repository.InterviewerRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{interviewerRepo: ir, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	existing, err := h.interviewerRepo.GetInterviewerByEmail(ctx, req.Email)
	if err != nil {
		http.Error(w, "Error checking account", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Account already exists", http.StatusConflict)
		return
	}

	iv := &models.Interviewer{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	id, err := h.interviewerRepo.CreateInterviewer(ctx, iv)
	if err != nil {
		http.Error(w, "Error creating account", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(id)
	if err != nil {
		http.Error(w, "Error issuing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: token}, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	iv, err := h.interviewerRepo.GetInterviewerByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Error loading account", http.StatusInternalServerError)
		return
	}
	if iv == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(iv.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.issueToken(iv.ID)
	if err != nil {
		http.Error(w, "Error issuing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: token}, http.StatusOK)
}

// Signout exists for client symmetry; tokens are stateless so there is
// nothing to revoke server-side.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(interviewerID int64) (string, error) {
	claims := jwt.MapClaims{
		"interviewer_id": interviewerID,
		"exp":            time.Now().Add(h.tokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

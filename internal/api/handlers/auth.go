package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/user"
)

const topupAmount = 500

type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenIssuer
}

func NewAuthHandler(users *user.Service, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := user.ValidateRegistration(req.Username, req.Email, req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "user already exists"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registration failed"})
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token issuance failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"token": token, "user": u})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token issuance failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": u})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

type profileUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	upd := user.ProfileUpdate{Username: req.Username, Email: req.Email}
	u, err := h.users.UpdateProfile(r.Context(), auth.UserIDFromContext(r.Context()), upd)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken), errors.Is(err, user.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "profile update failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

func (h *AuthHandler) Topup(w http.ResponseWriter, r *http.Request) {
	balance, err := h.users.AddCredits(r.Context(), auth.UserIDFromContext(r.Context()), topupAmount)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "topup failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "credits added",
		"credits": balance,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email required"})
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response whether or not the account exists.
		writeJSON(w, http.StatusOK, map[string]string{"message": "if the account exists, a reset link has been sent"})
		return
	}

	token, err := h.tokens.IssueReset(u.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reset token issuance failed"})
		return
	}

	// Without an outbound mailer the token is returned directly.
	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "if the account exists, a reset link has been sent",
		"reset_token": token,
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token and password required"})
		return
	}
	if len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 6 characters"})
		return
	}

	userID, err := h.tokens.VerifyReset(req.Token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired reset token"})
		return
	}

	if err := h.users.ResetPassword(r.Context(), userID, req.Password); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "password reset failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), auth.UserIDFromContext(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "account deletion failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

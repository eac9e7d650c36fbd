package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/pagdiwala/internal/api/middleware"
	"github.com/example/pagdiwala/internal/auth"
	"github.com/example/pagdiwala/internal/model"
)

// AuthHandlers handles sign-up, sign-in and the account page
type AuthHandlers struct {
	authn *auth.Authenticator
}

func NewAuthHandlers(authn *auth.Authenticator) *AuthHandlers {
	return &AuthHandlers{authn: authn}
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign-in. The token is also set as an HttpOnly
// cookie for browsers.
type AuthResponse struct {
	User        auth.Session `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// MeResponse describes the signed-in user and their contact details
type MeResponse struct {
	User    auth.Session  `json:"user"`
	Profile model.Profile `json:"profile"`
}

// SignUp registers a customer. The customer signs in separately.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req auth.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}

	c, err := h.authn.SignUp(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}

	sess, token, expiresAt, err := h.authn.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, AuthResponse{User: sess, AccessToken: token, ExpiresAt: expiresAt})
}

// SignOut clears the access token cookie. Tokens are stateless, so a copy
// held by an API client stays valid until it expires.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	p, err := h.authn.Profile(r.Context(), sess)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MeResponse{User: sess, Profile: p})
}

// UpdateMe saves the account page form for customers and admins alike
func (h *AuthHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	var req model.Profile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}

	p, err := h.authn.UpdateProfile(r.Context(), sess, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MeResponse{User: sess, Profile: p})
}

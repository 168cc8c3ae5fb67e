package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Register handles multipart sign-up with a required avatar and optional cover image.
// POST /users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, maxImageForm) {
		return
	}

	avatar, err := formFile(r, "avatar")
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	cover, err := formFile(r, "coverImage")
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &model.RegisterInput{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login by username or email
// POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	pair, err := h.tokenService.IssueTokenPair(r.Context(), user)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	logrus.WithField("user_id", user.ID).Info("[Auth] Login OK")
	httputil.WriteSuccess(w, http.StatusOK, "User logged in successfully", model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh rotates the refresh token taken from the cookie or the JSON body.
// POST /users/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(model.RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req model.RefreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		token = req.RefreshToken
	}

	pair, _, err := h.tokenService.RotateRefresh(r.Context(), token)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	httputil.WriteSuccess(w, http.StatusOK, "Access token refreshed", pair)
}

// Logout revokes the stored refresh token and clears both cookies.
// POST /users/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.tokenService.Revoke(r.Context(), userID); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	httputil.WriteSuccess(w, http.StatusOK, "User logged out", struct{}{})
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, pair *model.TokenPair) {
	cfg := h.tokenService.Config()
	http.SetCookie(w, h.cookie(model.AccessTokenCookie, pair.AccessToken, cfg.AccessTokenExpiry))
	http.SetCookie(w, h.cookie(model.RefreshTokenCookie, pair.RefreshToken, cfg.RefreshTokenExpiry))
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{model.AccessTokenCookie, model.RefreshTokenCookie} {
		c := h.cookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.tokenService.Config().SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type authClaimsKey struct{}

// AuthClaims holds the authenticated user's identity extracted from the JWT.
type AuthClaims struct {
	UserID int64
	token  string
}

// authFromContext returns the auth claims stored in ctx, or nil.
func authFromContext(ctx context.Context) *AuthClaims {
	v, _ := ctx.Value(authClaimsKey{}).(*AuthClaims)
	return v
}

// jwtClaims is the payload issued by the external auth service.
type jwtClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// bearerToken returns the token from the Authorization header, falling back to the auth_token cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth is chi middleware that validates the bearer token, attaches the
// user's session and injects AuthClaims into the request context. Returns 401
// if the token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" || h.jwtSecret == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid || claims.UserID <= 0 {
			writeError(w, r, "invalid or expired token", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		entry := h.sessions.acquire(raw, claims.UserID)
		ctx := context.WithValue(r.Context(), authClaimsKey{}, &AuthClaims{UserID: claims.UserID, token: raw})
		ctx = context.WithValue(ctx, sessionKey{}, entry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logout handles POST /api/auth/logout: drops the server-side session and clears the auth cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if claims := authFromContext(r.Context()); claims != nil {
		h.sessions.drop(claims.token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

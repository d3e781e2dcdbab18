/**
 * @description
 * This file contains the session middleware for the dashboard. After the
 * OAuth callback the web layer issues a signed session cookie (an HS256 JWT
 * carrying the Discord identity); this middleware validates it on every
 * protected request and places the identity on the request context.
 * Requests without a valid session are redirected to the login page, never
 * served a snapshot.
 *
 * @dependencies
 * - context, net/http, time: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: For signing and validating session tokens.
 * - internal/domain: For the authenticated identity.
 */

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nilebank/ledger-service/internal/domain"
)

// identityContextKey is a custom type for the context key to avoid collisions.
type identityContextKey string

const sessionIdentityKey identityContextKey = "sessionIdentity"

const (
	sessionCookieName = "nilebank_session"
	sessionTTL        = 24 * time.Hour
	loginPath         = "/login.html"
)

// IssueSessionCookie signs the identity into a session JWT and sets it as an
// HTTP-only cookie.
func IssueSessionCookie(w http.ResponseWriter, identity domain.Identity, secret string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      identity.ID,
		"username": identity.Username,
		"avatar":   identity.Avatar,
		"iat":      now.Unix(),
		"exp":      now.Add(sessionTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionAuthMiddleware validates the session cookie and adds the identity
// to the request context. Unauthenticated requests are redirected to the
// login page.
func SessionAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			identity, err := parseSessionToken(cookie.Value, secret)
			if err != nil {
				ClearSessionCookie(w)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by the
// session middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(sessionIdentityKey).(domain.Identity)
	return identity, ok
}

func parseSessionToken(tokenString, secret string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	if !token.Valid {
		return domain.Identity{}, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("invalid session claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return domain.Identity{}, fmt.Errorf("session token missing subject")
	}

	identity := domain.Identity{ID: sub}
	if username, ok := claims["username"].(string); ok {
		identity.Username = username
	}
	if avatar, ok := claims["avatar"].(string); ok {
		identity.Avatar = avatar
	}
	return identity, nil
}

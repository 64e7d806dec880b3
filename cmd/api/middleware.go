package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"eventadmin/internal/auth"
	"eventadmin/internal/domain/admindashboard"

	"github.com/justinas/nosurf"
)

type sessionKey string

const sessionCtx sessionKey = "session"

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
	adminRole          = "admin"
)

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// read the auth header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			// parse it -> get the base64
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if username == "" || len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthTokenMiddleware accepts the access token from the Authorization header
// or, for browser clients, from the access_token cookie.
func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		s, err := app.sessionFromAccessToken(token)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtx, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdminPage is AuthTokenMiddleware for server-rendered pages: it
// redirects to the sign-in page instead of answering with JSON.
func (app *application) RequireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(accessTokenCookie)
		if err != nil || c.Value == "" {
			http.Redirect(w, r, admindashboard.RouteSignIn, http.StatusSeeOther)
			return
		}

		s, err := app.sessionFromAccessToken(c.Value)
		if err != nil {
			app.logger.Infow("admin page session rejected", "path", r.URL.Path, "error", err)
			http.Redirect(w, r, admindashboard.RouteSignIn, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtx, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) CSRFMiddleware(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)

	csrfHandler.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
	})

	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Warnw("csrf check failed", "method", r.Method, "path", r.URL.Path, "reason", nosurf.Reason(r))
		http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
	}))

	return csrfHandler
}

func (app *application) sessionFromAccessToken(token string) (auth.Session, error) {
	jwtToken, err := app.authenticator.ValidateAccessToken(token)
	if err != nil {
		return auth.Session{}, err
	}

	s, err := auth.SessionFromToken(jwtToken)
	if err != nil {
		return auth.Session{}, err
	}
	if s.Role != adminRole {
		return auth.Session{}, fmt.Errorf("role %q may not use the admin panel", s.Role)
	}

	return s, nil
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		c, err := r.Cookie(accessTokenCookie)
		if err != nil || c.Value == "" {
			return "", errors.New("authorization header is missing")
		}
		return c.Value, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header is malformed")
	}

	return parts[1], nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func getSessionFromContext(r *http.Request) (auth.Session, bool) {
	s, ok := r.Context().Value(sessionCtx).(auth.Session)
	return s, ok
}

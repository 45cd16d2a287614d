package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/config"
	"staffpricing/templates"
)

type contextKey string

const CurrentUserKey contextKey = "currentUser"

// GetCurrentUser extracts the signed-in staff member from the request context.
func GetCurrentUser(r *http.Request) *templates.CurrentUser {
	if val, ok := r.Context().Value(CurrentUserKey).(*templates.CurrentUser); ok {
		return val
	}
	return nil
}

// navData builds the navigation model for a full page render.
func navData(e *core.RequestEvent, view string) templates.NavData {
	return templates.NavData{ActiveView: view, User: GetCurrentUser(e.Request)}
}

// publicPaths are reachable without a session.
var publicPaths = []string{"/static/", "/api/auth/login", "/api/health"}

func isPublic(path string, cfg config.AuthConfig) bool {
	if path == cfg.LoginPath {
		return true
	}
	for _, p := range publicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// sessionToken reads the session cookie, falling back to a bearer token.
func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// staffRecord resolves a session token to a staff account.
func staffRecord(app *pocketbase.PocketBase, token string) (*core.Record, error) {
	rec, err := app.FindAuthRecordByToken(token, core.TokenTypeAuth)
	if err != nil {
		return nil, err
	}
	if rec.Collection().Name != "staff" {
		return nil, fmt.Errorf("token belongs to collection %q", rec.Collection().Name)
	}
	return rec, nil
}

func currentUserFrom(rec *core.Record) *templates.CurrentUser {
	return &templates.CurrentUser{ID: rec.Id, Email: rec.Email(), Name: rec.GetString("name")}
}

// AuthMiddleware resolves the staff session and stores the current user in
// the request context. Without a valid session, API calls get 401 and page
// requests are redirected to the login page.
func AuthMiddleware(app *pocketbase.PocketBase, cfg config.AuthConfig) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !cfg.Enabled {
			return e.Next()
		}

		path := e.Request.URL.Path
		if token := sessionToken(e.Request, cfg.CookieName); token != "" {
			rec, err := staffRecord(app, token)
			if err == nil {
				e.Auth = rec
				ctx := context.WithValue(e.Request.Context(), CurrentUserKey, currentUserFrom(rec))
				e.Request = e.Request.WithContext(ctx)
				return e.Next()
			}
			log.Printf("auth: rejected session token for %s: %v", path, err)
			clearSessionCookie(e, cfg.CookieName)
		}

		if isPublic(path, cfg) {
			return e.Next()
		}
		if strings.HasPrefix(path, "/api/") {
			return detail(e, http.StatusUnauthorized, "Not authenticated")
		}

		target := cfg.LoginPath + "?next=" + url.QueryEscape(e.Request.URL.RequestURI())
		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", target)
			return e.String(http.StatusUnauthorized, "")
		}
		return e.Redirect(http.StatusFound, target)
	}
}

func setSessionCookie(e *core.RequestEvent, name, token string) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(e *core.RequestEvent, name string) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

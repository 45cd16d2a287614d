package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/config"
	"staffpricing/templates"
)

const invalidCredentials = "E-mail ou senha inválidos"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string                `json:"token"`
	User  templates.CurrentUser `json:"user"`
}

// authenticate checks staff credentials and issues a session token.
func authenticate(app *pocketbase.PocketBase, email, password string) (*core.Record, string, bool) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", false
	}
	rec, err := app.FindAuthRecordByEmail("staff", email)
	if err != nil || !rec.ValidatePassword(password) {
		return nil, "", false
	}
	token, err := rec.NewAuthToken()
	if err != nil {
		log.Printf("auth: could not issue token for %s: %v", rec.Id, err)
		return nil, "", false
	}
	return rec, token, true
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// HandleLoginPage renders the sign-in form. The login route sits outside
// AuthMiddleware, so a still-valid session is resolved here and sent on.
// Route: GET /login
func HandleLoginPage(app *pocketbase.PocketBase, cfg config.AuthConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		next := e.Request.URL.Query().Get("next")
		if token := sessionToken(e.Request, cfg.CookieName); token != "" {
			if _, err := staffRecord(app, token); err == nil {
				return e.Redirect(http.StatusFound, safeNext(next))
			}
		}
		data := templates.LoginData{Action: cfg.LoginPath, Next: next}
		return templates.LoginPage(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleLoginSubmit validates the form and starts a cookie session.
// Route: POST /login
func HandleLoginSubmit(app *pocketbase.PocketBase, cfg config.AuthConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		email := e.Request.FormValue("email")
		next := e.Request.FormValue("next")

		rec, token, ok := authenticate(app, email, e.Request.FormValue("password"))
		if !ok {
			e.Response.WriteHeader(http.StatusUnauthorized)
			data := templates.LoginData{Action: cfg.LoginPath, Email: email, Next: next, Error: invalidCredentials}
			return templates.LoginPage(data).Render(e.Request.Context(), e.Response)
		}

		setSessionCookie(e, cfg.CookieName, token)
		log.Printf("auth: %s signed in", rec.Email())
		return e.Redirect(http.StatusFound, safeNext(next))
	}
}

// HandleLogout ends the cookie session.
// Route: POST /logout
func HandleLogout(cfg config.AuthConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearSessionCookie(e, cfg.CookieName)
		return redirectAfterSave(e, cfg.LoginPath)
	}
}

// HandleAPILogin exchanges credentials for a token. The token is also set as
// the session cookie.
// Route: POST /api/auth/login
func HandleAPILogin(app *pocketbase.PocketBase, cfg config.AuthConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in loginRequest
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		rec, token, ok := authenticate(app, in.Email, in.Password)
		if !ok {
			return detail(e, http.StatusUnauthorized, invalidCredentials)
		}
		setSessionCookie(e, cfg.CookieName, token)
		return e.JSON(http.StatusOK, loginResponse{
			Token: token,
			User:  templates.CurrentUser{ID: rec.Id, Email: rec.Email(), Name: rec.GetString("name")},
		})
	}
}

// HandleAPILogout clears the session cookie.
// Route: POST /api/auth/logout
func HandleAPILogout(cfg config.AuthConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearSessionCookie(e, cfg.CookieName)
		return e.JSON(http.StatusOK, map[string]string{"message": "Sessão encerrada"})
	}
}

// HandleAPIMe returns the signed-in staff member.
// Route: GET /api/auth/me
func HandleAPIMe() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		user := GetCurrentUser(e.Request)
		if user == nil {
			return detail(e, http.StatusUnauthorized, "Not authenticated")
		}
		return e.JSON(http.StatusOK, user)
	}
}

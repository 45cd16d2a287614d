package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"staffpricing/templates"
	"staffpricing/testhelpers"
)

func TestHandleLoginPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/login?next=/offers", nil)
	rec := httptest.NewRecorder()
	if err := HandleLoginPage(app, testAuthConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`action="/login"`, `name="email"`, `name="password"`, `name="next" value="/offers"`)
}

func TestHandleLoginPage_CustomPath(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testAuthConfig()
	cfg.LoginPath = "/entrar"

	req := httptest.NewRequest(http.MethodGet, "/entrar", nil)
	rec := httptest.NewRecorder()
	if err := HandleLoginPage(app, cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `action="/entrar"`)
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), `action="/login"`)

	testhelpers.CreateTestStaff(t, app, "ana@example.com", "senha-segura-123")
	form := url.Values{"email": {"ana@example.com"}, "password": {"errada"}}
	req = newFormRequest(http.MethodPost, "/entrar", form, nil)
	rec = httptest.NewRecorder()
	if err := HandleLoginSubmit(app, cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `action="/entrar"`)
}

func TestHandleLoginPage_SignedIn(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testAuthConfig()
	staff := testhelpers.CreateTestStaff(t, app, "ana@example.com", "senha-segura-123")
	token, err := staff.NewAuthToken()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/login?next=/offers", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
	rec := httptest.NewRecorder()
	if err := HandleLoginPage(app, cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/offers" {
		t.Errorf("expected 302 to /offers, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	t.Run("stale cookie shows the form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-token"})
		rec := httptest.NewRecorder()
		if err := HandleLoginPage(app, cfg)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestHandleLoginSubmit_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestStaff(t, app, "ana@example.com", "senha-segura-123")
	cfg := testAuthConfig()

	form := url.Values{"email": {"ana@example.com"}, "password": {"senha-segura-123"}, "next": {"/offers"}}
	req := newFormRequest(http.MethodPost, "/login", form, nil)
	rec := httptest.NewRecorder()
	if err := HandleLoginSubmit(app, cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/offers" {
		t.Errorf("expected 302 to /offers, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cfg.CookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("expected an http-only session cookie, got %v", session)
	}
}

func TestHandleLoginSubmit_WrongPassword(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestStaff(t, app, "ana@example.com", "senha-segura-123")

	form := url.Values{"email": {"ana@example.com"}, "password": {"errada"}}
	req := newFormRequest(http.MethodPost, "/login", form, nil)
	rec := httptest.NewRecorder()
	if err := HandleLoginSubmit(app, testAuthConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "E-mail ou senha inválidos", `value="ana@example.com"`)
}

func TestSafeNext(t *testing.T) {
	for in, want := range map[string]string{
		"/projects/abc":     "/projects/abc",
		"":                  "/",
		"https://evil.test": "/",
		"//evil.test/path":  "/",
		`/\evil.test`:       "/",
	} {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandleAPILogin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestStaff(t, app, "ana@example.com", "senha-segura-123")

	req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"senha-segura-123"}`, nil)
	rec := httptest.NewRecorder()
	if err := HandleAPILogin(app, testAuthConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" || resp.User.Email != "ana@example.com" {
		t.Errorf("unexpected login response %+v", resp)
	}

	rec = httptest.NewRecorder()
	req = newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"x"}`, nil)
	if err := HandleAPILogin(app, testAuthConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", rec.Code)
	}
}

func TestHandleAPIMe(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	if err := HandleAPIMe()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(contextWithUser(req, &templates.CurrentUser{ID: "u1", Email: "ana@example.com"}))
	rec = httptest.NewRecorder()
	if err := HandleAPIMe()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatal(err)
	}
	var user templates.CurrentUser
	decodeBody(t, rec, &user)
	if user.ID != "u1" || user.Email != "ana@example.com" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestHandleLogout(t *testing.T) {
	cfg := testAuthConfig()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	if err := HandleLogout(cfg)(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != cfg.LoginPath {
		t.Errorf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

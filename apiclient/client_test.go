package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"staffpricing/services"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"detail string", `{"detail":"Projeto não encontrado"}`, 404, "Projeto não encontrado"},
		{"error field", `{"error":"boom"}`, 500, "boom"},
		{"message field", `{"status":400,"message":"Failed to create record."}`, 400, "Failed to create record."},
		{"validation list", `{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"bad date"}]}`, 422, "field required; bad date"},
		{"detail object", `{"detail":{"message":"nested"}}`, 400, "nested"},
		{"detail wins", `{"detail":"first","message":"second"}`, 400, "first"},
		{"not json", `<html>oops</html>`, 502, "Bad Gateway"},
		{"empty body", ``, 409, "Conflict"},
		{"unknown status", ``, 599, "HTTP 599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body), tt.status); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_APIError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"detail":"Já existe uma oferta com o nome \"Squad\""}`)
	})

	_, err := c.CreateOffer(context.Background(), services.OfferInput{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || !strings.HasPrefix(apiErr.Message, "Já existe") {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Not authenticated"}`)
	})

	_, err := c.ListProjects(context.Background(), ListParams{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), c.LoginURL()) {
		t.Errorf("expected the login URL in %q", err.Error())
	}
}

func TestClient_LoginSendsBearer(t *testing.T) {
	var gotAuth string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var in map[string]string
			json.NewDecoder(r.Body).Decode(&in)
			if in["email"] != "staff@example.com" || in["password"] != "secret123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			io.WriteString(w, `{"token":"tok-1","user":{"id":"u1","email":"staff@example.com"}}`)
		case "/api/auth/me":
			gotAuth = r.Header.Get("Authorization")
			io.WriteString(w, `{"id":"u1","email":"staff@example.com"}`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	u, err := c.Login(ctx, "staff@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != "u1" || c.Token() != "tok-1" {
		t.Errorf("unexpected login result %+v token=%q", u, c.Token())
	}
	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
}

func TestClient_ListParams(t *testing.T) {
	var gotQuery string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"items":[{"id":"p1","name":"Ana","hourly_cost":100}],"total":7}`)
	})

	page, err := c.ListProfessionals(context.Background(), ListParams{Skip: 5, Limit: 1, Search: "an a"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "limit=1&search=an+a&skip=5" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if page.Total != 7 || len(page.Items) != 1 || page.Items[0].HourlyCost != 100 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestClient_CreateProjectBody(t *testing.T) {
	var got map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"x1","name":"Portal","start_date":"2025-01-06","duration_months":1,"allocations":[]}`)
	})

	name := "Portal"
	months := 1
	start, _ := services.ParseDate("2025-01-06")
	d := services.NewDate(start)
	p, err := c.CreateProject(context.Background(), services.ProjectInput{Name: &name, StartDate: &d, DurationMonths: &months})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got["start_date"] != "2025-01-06" || got["name"] != "Portal" {
		t.Errorf("unexpected request body %v", got)
	}
	if p.ID != "x1" || p.StartDate.String() != "2025-01-06" {
		t.Errorf("unexpected project %+v", p)
	}
}

func TestClient_ExportProject(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "pdf" {
			t.Errorf("expected format=pdf, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="Portal_20250106_090000.pdf"`)
		io.WriteString(w, "%PDF-1.4")
	})

	name, data, err := c.ExportProject(context.Background(), "p1", services.ExportPDF)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "Portal_20250106_090000.pdf" || string(data) != "%PDF-1.4" {
		t.Errorf("unexpected download %q (%d bytes)", name, len(data))
	}
}

func TestClient_ImportProfessionals(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected a file field: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "equipe.csv" || !strings.HasPrefix(string(body), "name,role") {
			t.Errorf("unexpected upload %s: %q", header.Filename, body)
		}
		io.WriteString(w, `{"created":2,"updated":1,"errors":0,"error_details":[]}`)
	})

	result, err := c.ImportProfessionals(context.Background(), "equipe.csv", strings.NewReader("name,role\n"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created != 2 || result.Updated != 1 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestClient_DeleteWithoutBody(t *testing.T) {
	var method string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		io.WriteString(w, `{"message":"Oferta excluída"}`)
	})

	if err := c.DeleteOffer(context.Background(), "o 1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", method)
	}
}

package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"staffpricing/services"
)

// User is the signed-in staff member.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ListParams are the shared listing parameters; zero values are omitted.
type ListParams struct {
	Skip   int
	Limit  int
	Search string
	Sort   string
}

func (p ListParams) encode() string {
	v := url.Values{}
	if p.Skip > 0 {
		v.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Login exchanges credentials for a session token, which the client then
// sends on every request.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.Post(ctx, "/api/auth/login", in, &resp); err != nil {
		return User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// Me returns the user behind the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.Get(ctx, "/api/auth/me", &u)
	return u, err
}

// ── Professionals ────────────────────────────────────────────

func (c *Client) ListProfessionals(ctx context.Context, p ListParams) (services.Page[services.Professional], error) {
	var page services.Page[services.Professional]
	err := c.Get(ctx, "/api/professionals"+p.encode(), &page)
	return page, err
}

func (c *Client) CreateProfessional(ctx context.Context, in services.ProfessionalInput) (services.Professional, error) {
	var out services.Professional
	err := c.Post(ctx, "/api/professionals", in, &out)
	return out, err
}

func (c *Client) UpdateProfessional(ctx context.Context, id string, in services.ProfessionalInput) (services.Professional, error) {
	var out services.Professional
	err := c.Patch(ctx, "/api/professionals/"+url.PathEscape(id), in, &out)
	return out, err
}

func (c *Client) DeleteProfessional(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/professionals/"+url.PathEscape(id), nil)
}

// ImportProfessionals uploads a .csv or .xlsx file.
func (c *Client) ImportProfessionals(ctx context.Context, filename string, r io.Reader) (services.ImportResult, error) {
	var out services.ImportResult
	err := c.UploadFile(ctx, "/api/professionals/import-csv", filename, r, &out)
	return out, err
}

// ── Offers ───────────────────────────────────────────────────

func (c *Client) ListOffers(ctx context.Context, p ListParams) (services.Page[services.Offer], error) {
	var page services.Page[services.Offer]
	err := c.Get(ctx, "/api/offers"+p.encode(), &page)
	return page, err
}

func (c *Client) CreateOffer(ctx context.Context, in services.OfferInput) (services.Offer, error) {
	var out services.Offer
	err := c.Post(ctx, "/api/offers", in, &out)
	return out, err
}

func (c *Client) DeleteOffer(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/offers/"+url.PathEscape(id), nil)
}

// ── Projects ─────────────────────────────────────────────────

func (c *Client) ListProjects(ctx context.Context, p ListParams) (services.Page[services.Project], error) {
	var page services.Page[services.Project]
	err := c.Get(ctx, "/api/projects"+p.encode(), &page)
	return page, err
}

func (c *Client) GetProject(ctx context.Context, id string) (services.Project, error) {
	var out services.Project
	err := c.Get(ctx, "/api/projects/"+url.PathEscape(id), &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, in services.ProjectInput) (services.Project, error) {
	var out services.Project
	err := c.Post(ctx, "/api/projects", in, &out)
	return out, err
}

func (c *Client) Pricing(ctx context.Context, projectID string) (services.ProjectPricing, error) {
	var out services.ProjectPricing
	err := c.Get(ctx, "/api/projects/"+url.PathEscape(projectID)+"/pricing", &out)
	return out, err
}

func (c *Client) ApplyOffer(ctx context.Context, projectID, offerID string) (services.ApplyOfferResult, error) {
	var out services.ApplyOfferResult
	err := c.Post(ctx, "/api/projects/"+url.PathEscape(projectID)+"/offers",
		map[string]string{"offer_id": offerID}, &out)
	return out, err
}

// AddProfessional allocates a professional at 100%; a nil rate is derived
// from the project margin.
func (c *Client) AddProfessional(ctx context.Context, projectID, professionalID string, sellingRate *float64) (services.AddProfessionalResult, error) {
	var out services.AddProfessionalResult
	in := struct {
		ProfessionalID    string   `json:"professional_id"`
		SellingHourlyRate *float64 `json:"selling_hourly_rate,omitempty"`
	}{professionalID, sellingRate}
	err := c.Post(ctx, "/api/projects/"+url.PathEscape(projectID)+"/allocations", in, &out)
	return out, err
}

// UpdateAllocations applies a bulk update and returns the number of rows
// changed.
func (c *Client) UpdateAllocations(ctx context.Context, projectID string, updates []services.AllocationUpdate) (int, error) {
	var out struct {
		UpdatedCount int `json:"updated_count"`
	}
	err := c.Patch(ctx, "/api/projects/"+url.PathEscape(projectID)+"/allocations", updates, &out)
	return out.UpdatedCount, err
}

// ExportProject downloads a project export; format is xlsx, pdf or png.
func (c *Client) ExportProject(ctx context.Context, projectID string, format services.ExportFormat) (string, []byte, error) {
	path := fmt.Sprintf("/api/projects/%s/export?format=%s", url.PathEscape(projectID), url.QueryEscape(string(format)))
	return c.Download(ctx, path)
}

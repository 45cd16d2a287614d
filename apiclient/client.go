// Package apiclient is a Go client for the staffpricing JSON API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnauthorized is returned (wrapped with the login URL) for 401 responses.
var ErrUnauthorized = errors.New("not authenticated")

// APIError is a non-2xx response. Message comes from the body's detail,
// error or message field, or is the status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client talks to a running server. The zero value is not usable; call New.
type Client struct {
	baseURL   string
	loginPath string
	token     string
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a Bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLoginPath overrides the login page path reported with ErrUnauthorized.
func WithLoginPath(path string) Option {
	return func(c *Client) { c.loginPath = path }
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		loginPath: "/login",
		http:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, if any.
func (c *Client) Token() string { return c.token }

// LoginURL is where a user should sign in after ErrUnauthorized.
func (c *Client) LoginURL() string { return c.baseURL + c.loginPath }

// Get decodes the JSON response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out. Either may be nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// Download fetches a file and returns its attachment filename and bytes.
func (c *Client) Download(ctx context.Context, path string) (string, []byte, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	filename := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return filename, data, nil
}

// UploadFile posts r as the multipart field "file" and decodes the JSON
// response into out.
func (c *Client) UploadFile(ctx context.Context, path, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("copying %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// send performs the request and turns non-2xx responses into errors. The
// caller closes the body of a successful response.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: sign in at %s (%s)", ErrUnauthorized, c.LoginURL(), apiErr.Message)
	}
	return nil, apiErr
}

func decodeResponse(resp *http.Response, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts a readable message from an error body.
func errorMessage(body []byte, status int) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if msg := messageFrom(payload[key]); msg != "" {
				return msg
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// messageFrom reads a message field that is either a string, an object with
// a message, or a list of validation entries.
func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	type entry struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	var list []entry
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			} else if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		return strings.Join(msgs, "; ")
	}

	var obj entry
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Msg
	}
	return ""
}

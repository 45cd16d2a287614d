package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/pocketbase/pocketbase/core"
)

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX. If an HX-Trigger header already exists, the toast
// payload is merged into the existing JSON object.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{
		"message": message,
		"type":    toastType,
	}

	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = payload

	data, err := json.Marshal(trigger)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	// HX-Trigger is lost on a 302, the flash cookie is not.
	cookieVal, err := json.Marshal(payload)
	if err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // read by app.js
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// redirectAfterSave sends htmx clients an HX-Redirect and plain form posts a 302.
func redirectAfterSave(e *core.RequestEvent, url string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
)

const maxJSONBody = 1 << 20

// apiError writes err as {"detail": msg} with the status matching its kind.
// Errors without a kind are logged and reported as 500.
func apiError(e *core.RequestEvent, scope string, err error) error {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", scope, err)
	}
	return e.JSON(status, map[string]string{"detail": msg})
}

// errorStatus maps a services error to an HTTP status and user message.
func errorStatus(err error) (int, string) {
	var se *services.Error
	if errors.As(err, &se) {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return http.StatusNotFound, se.Message
		case errors.Is(err, services.ErrInvalid):
			return http.StatusBadRequest, se.Message
		case errors.Is(err, services.ErrConflict):
			return http.StatusConflict, se.Message
		}
	}
	return http.StatusInternalServerError, "Erro interno. Tente novamente."
}

// htmlError reports err to an htmx page as an error toast.
func htmlError(e *core.RequestEvent, scope string, err error) error {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", scope, err)
	}
	return ErrorToast(e, status, msg)
}

func detail(e *core.RequestEvent, status int, msg string) error {
	return e.JSON(status, map[string]string{"detail": msg})
}

// decodeJSON reads the request body into v. The returned error message is
// safe to show to the caller.
func decodeJSON(e *core.RequestEvent, v any) error {
	body, err := io.ReadAll(io.LimitReader(e.Request.Body, maxJSONBody))
	if err != nil {
		return errors.New("Não foi possível ler o corpo da requisição")
	}
	if len(body) == 0 {
		return errors.New("Corpo da requisição vazio")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("JSON inválido: %v", err)
	}
	return nil
}

// parseListQuery reads skip, limit, search and sort from the query string.
func parseListQuery(e *core.RequestEvent) services.ListQuery {
	q := e.Request.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return services.ListQuery{Skip: skip, Limit: limit, Search: q.Get("search"), Sort: q.Get("sort")}
}

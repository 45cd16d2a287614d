package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"staffpricing/services"
)

// formString returns the trimmed form value as a pointer, so partial updates
// can tell "absent" from "empty". Absent keys give nil.
func formString(r *http.Request, key string) *string {
	if _, ok := r.Form[key]; !ok {
		return nil
	}
	v := strings.TrimSpace(r.FormValue(key))
	return &v
}

// formFloat parses a decimal form value with services.ParseDecimal; an
// empty value gives nil.
func formFloat(r *http.Request, key string) (*float64, error) {
	return parseFloatField(r.FormValue(key))
}

func parseFloatField(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := services.ParseDecimal(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// formInt parses an integer form value; an empty value gives nil.
func formInt(r *http.Request, key string) (*int, error) {
	s := strings.TrimSpace(r.FormValue(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("número inteiro inválido: %q", s)
	}
	return &v, nil
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.FormValue(key)) {
	case "on", "true", "1", "sim":
		return true
	}
	return false
}

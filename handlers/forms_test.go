package handlers

import (
	"net/http"
	"net/url"
	"testing"
)

func TestParseFloatField(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		isNil   bool
		wantErr bool
	}{
		{"", 0, true, false},
		{"  ", 0, true, false},
		{"120", 120, false, false},
		{"120.5", 120.5, false, false},
		{"120,5", 120.5, false, false},
		{"1.234,56", 1234.56, false, false},
		{"abc", 0, false, true},
		{"NaN", 0, false, true},
		{"Inf", 0, false, true},
		{"-infinity", 0, false, true},
		{"1e999", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFloatField(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.isNil {
				if got != nil {
					t.Errorf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormHelpers(t *testing.T) {
	form := url.Values{
		"name":    {"  Ana  "},
		"months":  {"3"},
		"bad":     {"x"},
		"vacancy": {"on"},
		"nothing": {""},
	}
	req := newFormRequest(http.MethodPost, "/", form, nil)
	if err := req.ParseForm(); err != nil {
		t.Fatal(err)
	}

	if s := formString(req, "name"); s == nil || *s != "Ana" {
		t.Errorf("formString(name) = %v", s)
	}
	if s := formString(req, "missing"); s != nil {
		t.Errorf("expected nil for absent key, got %q", *s)
	}
	if n, err := formInt(req, "months"); err != nil || n == nil || *n != 3 {
		t.Errorf("formInt(months) = %v, %v", n, err)
	}
	if _, err := formInt(req, "bad"); err == nil {
		t.Error("expected error for non-integer")
	}
	if n, err := formInt(req, "nothing"); err != nil || n != nil {
		t.Errorf("expected nil for empty value, got %v, %v", n, err)
	}
	if !formBool(req, "vacancy") || formBool(req, "missing") {
		t.Error("formBool mismatch")
	}
}

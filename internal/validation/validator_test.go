// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package validation

import (
	"strings"
	"testing"
)

type preloadBody struct {
	Destinations []string `json:"destinations" validate:"required,min=1,max=3,dive,destination"`
}

type visibleBody struct {
	URLs  []string `json:"urls" validate:"max=2,dive,required,url"`
	Limit int      `json:"limit" validate:"min=1,max=50"`
}

func TestValidator_Singleton(t *testing.T) {
	t.Parallel()

	if Validator() != Validator() {
		t.Error("Validator() must return the shared instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantMsg   string
	}{
		{"valid destinations", &preloadBody{Destinations: []string{"CDG", "nyc", "KEF"}}, "", ""},
		{"missing destinations", &preloadBody{}, "destinations", "destinations is required"},
		{"too many destinations", &preloadBody{Destinations: []string{"AA", "BB", "CC", "DD"}}, "destinations", "destinations must have at most 3 items"},
		{"short code", &preloadBody{Destinations: []string{"C"}}, "destinations[0]", "2 to 8 character destination code"},
		{"punctuation", &preloadBody{Destinations: []string{"CDG", "JF-K"}}, "destinations[1]", "destination code"},
		{"valid urls", &visibleBody{URLs: []string{"https://videos.test/a.mp4"}, Limit: 5}, "", ""},
		{"bad url", &visibleBody{URLs: []string{"not a url"}, Limit: 5}, "urls[0]", "must be a valid URL"},
		{"limit zero", &visibleBody{Limit: 0}, "limit", "limit must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if got := verr.Fields[0].Field; got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
			if !strings.Contains(verr.Error(), tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Details(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&visibleBody{Limit: 0})
	if single == nil || single.Details()["field"] != "limit" {
		t.Fatalf("single details = %v", single)
	}

	multi := ValidateStruct(&visibleBody{URLs: []string{"a", "b", "c"}, Limit: 99})
	if multi == nil {
		t.Fatal("expected errors")
	}
	fields, ok := multi.Details()["fields"].([]map[string]interface{})
	if !ok || len(fields) != len(multi.Fields) {
		t.Errorf("details = %v", multi.Details())
	}
}

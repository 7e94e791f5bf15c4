package handlers

import (
	"fmt"
	"strings"
	"testing"

	"madarat/internal/leads"
)

func TestValidateLead(t *testing.T) {
	tooMany := map[string]any{}
	for i := 0; i <= maxLeadFields; i++ {
		tooMany[fmt.Sprintf("f%d", i)] = "x"
	}

	tests := []struct {
		name      string
		payload   map[string]any
		wantError bool
	}{
		{"valid", map[string]any{"name": "سارة", "phone": "+966 50 123 4567", "email": "sara@example.com"}, false},
		{"phone only", map[string]any{"phone": "0501234567"}, false},
		{"extra fields allowed", map[string]any{"trip": "georgia", "travelers": 3}, false},
		{"empty", map[string]any{}, true},
		{"too many fields", tooMany, true},
		{"empty key", map[string]any{"": "x"}, true},
		{"long key", map[string]any{strings.Repeat("k", 65): "x"}, true},
		{"long field", map[string]any{"notes": strings.Repeat("a", 2001)}, true},
		{"long name", map[string]any{"name": strings.Repeat("a", 201)}, true},
		{"short phone", map[string]any{"phone": "12-34"}, true},
		{"long phone", map[string]any{"phone": strings.Repeat("1", 33)}, true},
		{"bad email", map[string]any{"email": "nope"}, true},
		{"long email", map[string]any{"email": strings.Repeat("a", 250) + "@x.sa"}, true},
		{"non-string name ignored", map[string]any{"name": 42}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateLead(tt.payload)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateConversion(t *testing.T) {
	tests := []struct {
		name      string
		in        leads.OfflineConversion
		wantError bool
	}{
		{"valid phone", leads.OfflineConversion{UserData: &leads.UserData{Phone: "0501234567"}}, false},
		{"valid email", leads.OfflineConversion{UserData: &leads.UserData{Email: "a@b.sa"}}, false},
		{"with call", leads.OfflineConversion{
			UserData: &leads.UserData{Phone: "0501234567"},
			CallData: &leads.CallData{Duration: 300, Value: 120},
		}, false},
		{"missing user data", leads.OfflineConversion{}, true},
		{"no contact", leads.OfflineConversion{UserData: &leads.UserData{Name: "Sara"}}, true},
		{"whitespace contact", leads.OfflineConversion{UserData: &leads.UserData{Email: "  ", Phone: " "}}, true},
		{"bad email", leads.OfflineConversion{UserData: &leads.UserData{Email: "x@"}}, true},
		{"short phone", leads.OfflineConversion{UserData: &leads.UserData{Phone: "123"}}, true},
		{"long city", leads.OfflineConversion{UserData: &leads.UserData{Phone: "0501234567", City: strings.Repeat("c", 201)}}, true},
		{"negative duration", leads.OfflineConversion{
			UserData: &leads.UserData{Phone: "0501234567"},
			CallData: &leads.CallData{Duration: -5},
		}, true},
		{"duration over a day", leads.OfflineConversion{
			UserData: &leads.UserData{Phone: "0501234567"},
			CallData: &leads.CallData{Duration: maxCallDuration + 1},
		}, true},
		{"negative value", leads.OfflineConversion{
			UserData: &leads.UserData{Phone: "0501234567"},
			CallData: &leads.CallData{Value: -1},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConversion(tt.in)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

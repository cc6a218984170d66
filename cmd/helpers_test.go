package cmd

import (
	"errors"
	"testing"

	"github.com/boazmichaely/JobHuntAI/internal/app"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

func TestResolveID(t *testing.T) {
	ids := []string{"abc12345-x", "abc99999-y", "def00000-z"}

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{"exact match", "abc12345-x", "abc12345-x", nil},
		{"unique prefix", "def", "def00000-z", nil},
		{"ambiguous prefix refused", "abc", "", app.ErrInvalidArgument},
		{"no match", "zzz", "", app.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID(ids, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolveID(%q) err = %v, want %v", tt.query, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveID(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("resolveID(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFindOpportunityPrefix(t *testing.T) {
	opps := []models.Opportunity{
		{ID: "abc12345", Company: "Acme"},
		{ID: "abc99999", Company: "Globex"},
		{ID: "def00000", Company: "Initech"},
	}

	if opp, err := findOpportunity(opps, "def"); err != nil || opp.Company != "Initech" {
		t.Errorf("unique prefix: %+v, %v", opp, err)
	}
	if _, err := findOpportunity(opps, "abc"); !errors.Is(err, app.ErrInvalidArgument) {
		t.Errorf("ambiguous prefix should refuse, err = %v", err)
	}
	if _, err := findOpportunity(opps, "zzz"); !errors.Is(err, app.ErrNotFound) {
		t.Errorf("missing id should report not found, err = %v", err)
	}
}

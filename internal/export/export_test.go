package export

import (
	"testing"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

func TestBuildAuditRows(t *testing.T) {
	opps := []models.Opportunity{
		{ID: "o1", Company: "Acme", Position: "SRE"},
	}
	contacts := []models.Contact{
		{ID: "c1", Name: "Sarah"},
		{ID: "c2", Name: "Marcus"},
	}
	acts := []models.Activity{
		{ID: "a1", OpportunityID: "o1", Title: "Applied", Type: models.TypeApply, Date: "2026-01-10", ContactIDs: []string{"c1", "c2", "gone"}},
		{ID: "a2", OpportunityID: "deleted", Title: "Old call", Type: models.TypeOther, Date: "2026-02-01"},
	}

	rows := BuildAuditRows(acts, opps, contacts)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Newest first.
	if rows[0].Title != "Old call" {
		t.Errorf("expected descending date order, got %q first", rows[0].Title)
	}

	// Deleted opportunity renders as General.
	if rows[0].Opportunity != "General" {
		t.Errorf("unresolved opportunity = %q, want General", rows[0].Opportunity)
	}
	if rows[1].Opportunity != "Acme - SRE" {
		t.Errorf("resolved opportunity = %q", rows[1].Opportunity)
	}

	// Dangling contact references render nothing.
	if rows[1].Contacts != "Sarah, Marcus" {
		t.Errorf("contacts = %q, want %q", rows[1].Contacts, "Sarah, Marcus")
	}
}

func TestBuildAuditRowsEmpty(t *testing.T) {
	rows := BuildAuditRows(nil, nil, nil)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

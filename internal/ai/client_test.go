package ai

import (
	"strings"
	"testing"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

func TestParseExtraction(t *testing.T) {
	reply := `{"isNewOpportunity":true,"opportunityData":{"company":"Acme","position":"SRE"},"activityData":{"title":"Phone screen","type":"Interview","date":"2026-01-15"},"contacts":[{"name":"Sarah"}],"reasoning":"mentions a phone screen"}`

	ex, err := parseExtraction(reply)
	if err != nil {
		t.Fatalf("parseExtraction: %v", err)
	}
	if !ex.IsNewOpportunity || ex.Opportunity == nil || ex.Opportunity.Company != "Acme" {
		t.Errorf("opportunity not parsed: %+v", ex)
	}
	if ex.Activity == nil || ex.Activity.Type != "Interview" {
		t.Errorf("activity not parsed: %+v", ex.Activity)
	}
	if len(ex.Contacts) != 1 || ex.Contacts[0].Name != "Sarah" {
		t.Errorf("contacts not parsed: %+v", ex.Contacts)
	}
}

func TestParseExtractionToleratesMarkdownFences(t *testing.T) {
	reply := "```json\n{\"isNewOpportunity\":false,\"opportunityMatchId\":\"o1\"}\n```"

	ex, err := parseExtraction(reply)
	if err != nil {
		t.Fatalf("parseExtraction: %v", err)
	}
	if ex.OpportunityMatchID != "o1" {
		t.Errorf("match id = %q", ex.OpportunityMatchID)
	}
}

func TestParseExtractionToleratesSurroundingProse(t *testing.T) {
	reply := `Here is the extraction you asked for:
{"opportunityMatchId":"o1","reasoning":"matched by company"}
Let me know if you need anything else.`

	ex, err := parseExtraction(reply)
	if err != nil {
		t.Fatalf("parseExtraction: %v", err)
	}
	if ex.OpportunityMatchID != "o1" {
		t.Errorf("match id = %q", ex.OpportunityMatchID)
	}
}

func TestParseExtractionRejectsNonJSON(t *testing.T) {
	for _, reply := range []string{"", "I could not parse that note.", "```\n```"} {
		if _, err := parseExtraction(reply); err == nil {
			t.Errorf("expected error for %q", reply)
		}
	}
}

func TestBuildExtractionPromptIncludesOpportunities(t *testing.T) {
	opps := []models.Opportunity{
		{ID: "o1", Company: "Acme", Position: "SRE", Role: "SRE"},
		{ID: "o2", Company: "Globex", Position: "Dev", Role: "Dev"},
	}

	prompt := buildExtractionPrompt("met Sarah for coffee", opps)
	for _, want := range []string{`"id":"o1"`, `"company":"Acme"`, `"id":"o2"`, "met Sarah for coffee"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "Interview") || !strings.Contains(prompt, "Ghosted") {
		t.Error("prompt should enumerate the valid type and status vocabularies")
	}
}

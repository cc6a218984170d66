package smartlog

import (
	"errors"
	"testing"

	"github.com/boazmichaely/JobHuntAI/internal/store"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedOpportunity(t *testing.T, st *store.Store, id, company string) {
	t.Helper()
	opps, err := st.Opportunities()
	if err != nil {
		t.Fatalf("Opportunities: %v", err)
	}
	opps = append(opps, models.Opportunity{
		ID: id, Company: company, Position: "Engineer",
		Status: models.StatusIdentified, CreatedAt: models.Now(), UpdatedAt: models.Now(),
	})
	if err := st.SetOpportunities(opps); err != nil {
		t.Fatalf("SetOpportunities: %v", err)
	}
}

func TestMergeLockWinsOverExtractionIdentity(t *testing.T) {
	f := NewForm()
	f.LockedOpportunityID = "o2"

	f.Merge(Extraction{
		OpportunityMatchID: "o1",
		IsNewOpportunity:   false,
	}, nil)

	if f.LockedOpportunityID != "o2" {
		t.Errorf("lock changed to %q", f.LockedOpportunityID)
	}
	if f.SelectedOpportunityID != "" {
		t.Errorf("selection must stay empty under a lock, got %q", f.SelectedOpportunityID)
	}

	// A new-opportunity suggestion is ignored the same way.
	f.Merge(Extraction{
		IsNewOpportunity: true,
		Opportunity:      &OpportunityDraft{Company: "Globex"},
	}, nil)
	if f.NewOpportunity != nil {
		t.Error("lock must suppress staged new opportunities")
	}
}

func TestMergeIdentityWithoutLock(t *testing.T) {
	f := NewForm()
	f.Merge(Extraction{OpportunityMatchID: "o1"}, nil)
	if f.SelectedOpportunityID != "o1" {
		t.Errorf("match not applied: %q", f.SelectedOpportunityID)
	}

	f = NewForm()
	f.Merge(Extraction{
		IsNewOpportunity: true,
		Opportunity:      &OpportunityDraft{Company: "Globex", Position: "Dev"},
	}, nil)
	if f.NewOpportunity == nil || f.NewOpportunity.Company != "Globex" {
		t.Errorf("new opportunity not staged: %+v", f.NewOpportunity)
	}
}

func TestMergeCallerFieldsWin(t *testing.T) {
	f := NewForm()
	f.Title = "My title"
	f.Description = "My notes"

	f.Merge(Extraction{Activity: &ActivityDraft{
		Title:       "Extracted title",
		Description: "Extracted notes",
	}}, nil)

	if f.Title != "My title" {
		t.Errorf("caller title overwritten: %q", f.Title)
	}
	if f.Description != "My notes" {
		t.Errorf("caller description overwritten: %q", f.Description)
	}

	// Empty caller fields take the extracted values.
	f = NewForm()
	f.Merge(Extraction{Activity: &ActivityDraft{Title: "Extracted title"}}, nil)
	if f.Title != "Extracted title" {
		t.Errorf("extraction not applied to empty field: %q", f.Title)
	}
}

func TestMergeTypeOnlyOverridesDefault(t *testing.T) {
	f := NewForm()
	f.Merge(Extraction{Activity: &ActivityDraft{Type: "Interview"}}, nil)
	if f.Type != models.TypeInterview {
		t.Errorf("default type should yield to extraction, got %q", f.Type)
	}

	f = NewForm()
	f.Type = models.TypeApply
	f.Merge(Extraction{Activity: &ActivityDraft{Type: "Interview"}}, nil)
	if f.Type != models.TypeApply {
		t.Errorf("explicit type overwritten: %q", f.Type)
	}

	// Junk type names never land.
	f = NewForm()
	f.Merge(Extraction{Activity: &ActivityDraft{Type: "Banana"}}, nil)
	if f.Type != models.TypeOther {
		t.Errorf("invalid type applied: %q", f.Type)
	}
}

func TestMergeDateOnlyOverridesUntouchedDefault(t *testing.T) {
	f := NewForm()
	f.Merge(Extraction{Activity: &ActivityDraft{Date: "2026-01-15"}}, nil)
	if f.Date != "2026-01-15" {
		t.Errorf("default date should yield to extraction, got %q", f.Date)
	}

	f = NewForm()
	f.Date = "2026-03-03"
	f.Merge(Extraction{Activity: &ActivityDraft{Date: "2026-01-15"}}, nil)
	if f.Date != "2026-03-03" {
		t.Errorf("caller-moved date overwritten: %q", f.Date)
	}
}

func TestMergeContactsMatchCaseInsensitively(t *testing.T) {
	existing := []models.Contact{{ID: "c1", Name: "Sarah"}}

	f := NewForm()
	f.Merge(Extraction{Contacts: []ContactDraft{
		{Name: "sarah"},
		{Name: "SARAH"},
		{Name: "Marcus"},
	}}, existing)

	if len(f.ContactIDs) != 1 || f.ContactIDs[0] != "c1" {
		t.Errorf("expected exactly one reference to c1, got %v", f.ContactIDs)
	}
	if len(f.NewContacts) != 1 || f.NewContacts[0].Name != "Marcus" {
		t.Errorf("expected only Marcus staged, got %+v", f.NewContacts)
	}

	// A second merge with the same names adds nothing.
	f.Merge(Extraction{Contacts: []ContactDraft{{Name: "Sarah"}, {Name: "marcus"}}}, existing)
	if len(f.ContactIDs) != 1 || len(f.NewContacts) != 1 {
		t.Errorf("re-merge duplicated contacts: ids=%v staged=%+v", f.ContactIDs, f.NewContacts)
	}
}

func TestFinalizeValidation(t *testing.T) {
	st := newTestStore(t)

	f := NewForm()
	f.SelectedOpportunityID = "o1"
	f.Title = "   "
	if _, err := Finalize(f, st); !errors.Is(err, ErrMissingFields) {
		t.Errorf("blank title: err = %v", err)
	}

	f = NewForm()
	f.Title = "Call"
	if _, err := Finalize(f, st); !errors.Is(err, ErrNoOpportunity) {
		t.Errorf("no opportunity: err = %v", err)
	}

	// A staged opportunity without an employer does not count.
	f = NewForm()
	f.Title = "Call"
	f.NewOpportunity = &OpportunityDraft{Position: "Dev"}
	if _, err := Finalize(f, st); !errors.Is(err, ErrNoOpportunity) {
		t.Errorf("employer-less staged opportunity: err = %v", err)
	}

	// Rejection leaves nothing behind.
	opps, _ := st.Opportunities()
	acts, _ := st.Activities()
	if len(opps) != 0 || len(acts) != 0 {
		t.Errorf("rejected save touched the store: %d opps, %d acts", len(opps), len(acts))
	}
}

func TestFinalizeCommitsStagedRecords(t *testing.T) {
	st := newTestStore(t)

	f := NewForm()
	f.Title = "Phone screen"
	f.Type = models.TypeInterview
	f.NewOpportunity = &OpportunityDraft{Company: "Acme", Position: "SRE"}
	f.NewContacts = []ContactDraft{{Name: "Sarah", Company: "Acme"}}

	result, err := Finalize(f, st)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.NewOpportunity == nil || result.NewOpportunity.Company != "Acme" {
		t.Fatalf("missing new opportunity in result: %+v", result)
	}
	if len(result.NewContacts) != 1 {
		t.Fatalf("missing new contact in result: %+v", result)
	}

	// The saved activity references the records that were just created.
	if result.Activity.OpportunityID != result.NewOpportunity.ID {
		t.Errorf("activity references %q, opportunity is %q",
			result.Activity.OpportunityID, result.NewOpportunity.ID)
	}
	if len(result.Activity.ContactIDs) != 1 || result.Activity.ContactIDs[0] != result.NewContacts[0].ID {
		t.Errorf("activity contact refs wrong: %v", result.Activity.ContactIDs)
	}

	opps, _ := st.Opportunities()
	contacts, _ := st.Contacts()
	acts, _ := st.Activities()
	if len(opps) != 1 || len(contacts) != 1 || len(acts) != 1 {
		t.Errorf("expected 1/1/1 committed, got %d/%d/%d", len(opps), len(contacts), len(acts))
	}
	if opps[0].Status != models.StatusIdentified {
		t.Errorf("staged opportunity should default to Identified, got %q", opps[0].Status)
	}
}

func TestFinalizeRejectsUnresolvableSelection(t *testing.T) {
	st := newTestStore(t)
	seedOpportunity(t, st, "o1", "Acme")

	// The extraction may hallucinate a match id; only a resolvable
	// selection counts as an opportunity.
	f := NewForm()
	f.Title = "Call"
	f.Merge(Extraction{OpportunityMatchID: "does-not-exist"}, nil)

	if _, err := Finalize(f, st); !errors.Is(err, ErrNoOpportunity) {
		t.Fatalf("unresolvable selection: err = %v", err)
	}

	acts, _ := st.Activities()
	if len(acts) != 0 {
		t.Errorf("rejected save persisted an activity: %+v", acts)
	}
}

func TestFinalizeLockWinsOverSelection(t *testing.T) {
	st := newTestStore(t)
	seedOpportunity(t, st, "o1", "Acme")
	seedOpportunity(t, st, "o2", "Globex")

	f := NewForm()
	f.Title = "Phone screen"
	f.LockedOpportunityID = "o2"
	f.SelectedOpportunityID = "o1"

	result, err := Finalize(f, st)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Activity.OpportunityID != "o2" {
		t.Errorf("activity references %q, want locked o2", result.Activity.OpportunityID)
	}
}

func TestFinalizeDedupesContactRefs(t *testing.T) {
	st := newTestStore(t)
	seedOpportunity(t, st, "o1", "Acme")
	if err := st.SetContacts([]models.Contact{{ID: "c1", Name: "Sarah"}}); err != nil {
		t.Fatalf("SetContacts: %v", err)
	}

	f := NewForm()
	f.Title = "Call"
	f.SelectedOpportunityID = "o1"
	f.ContactIDs = []string{"c1", "c1"}

	result, err := Finalize(f, st)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(result.Activity.ContactIDs) != 1 {
		t.Errorf("duplicate refs survived: %v", result.Activity.ContactIDs)
	}
}

func TestFinalizeReplacesEditedActivity(t *testing.T) {
	st := newTestStore(t)
	seedOpportunity(t, st, "o1", "Acme")
	if err := st.SetActivities([]models.Activity{
		{ID: "a1", OpportunityID: "o1", Title: "Old title", Type: models.TypeOther, Date: "2026-01-01"},
	}); err != nil {
		t.Fatalf("SetActivities: %v", err)
	}

	f := NewForm()
	f.Title = "New title"
	f.Date = "2026-01-02"
	f.SelectedOpportunityID = "o1"
	f.EditingActivityID = "a1"

	if _, err := Finalize(f, st); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	acts, _ := st.Activities()
	if len(acts) != 1 || acts[0].Title != "New title" || acts[0].ID != "a1" {
		t.Errorf("edit did not replace in place: %+v", acts)
	}
}

func TestPromoteOpportunityPositionFallback(t *testing.T) {
	opp := promoteOpportunity(OpportunityDraft{Company: "Acme"})
	if opp.Position != "Acme" {
		t.Errorf("position should fall back to company, got %q", opp.Position)
	}

	opp = promoteOpportunity(OpportunityDraft{Company: "Acme", Role: "Dev"})
	if opp.Position != "Dev" {
		t.Errorf("position should fall back to role first, got %q", opp.Position)
	}
}

// Package smartlog merges AI-extracted drafts against existing records.
// Extracted data is loosely typed and untrusted; it lives in explicit
// draft types and only becomes a persisted record through Finalize's
// validation and promotion step.
package smartlog

import (
	"errors"
	"strings"

	"github.com/boazmichaely/JobHuntAI/internal/store"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

var (
	// ErrMissingFields rejects a save without the mandatory activity
	// title and date. Nothing is persisted.
	ErrMissingFields = errors.New("activity title and date are required")
	// ErrNoOpportunity rejects a save with no opportunity locked, fully
	// specified as new (employer required), or selected — a selection
	// must resolve to an existing opportunity.
	ErrNoOpportunity = errors.New("an opportunity must be selected or specified")
)

// Extraction is the text-extraction service's best-effort judgment. Any
// field may be absent; a zero Extraction means "nothing extracted".
type Extraction struct {
	IsNewOpportunity   bool              `json:"isNewOpportunity"`
	OpportunityMatchID string            `json:"opportunityMatchId,omitempty"`
	Opportunity        *OpportunityDraft `json:"opportunityData,omitempty"`
	Activity           *ActivityDraft    `json:"activityData,omitempty"`
	Contacts           []ContactDraft    `json:"contacts,omitempty"`
	Reasoning          string            `json:"reasoning,omitempty"`
}

// OpportunityDraft is a partial opportunity pending promotion.
type OpportunityDraft struct {
	Position    string `json:"position,omitempty"`
	Role        string `json:"role,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ActivityDraft is a partial activity pending merge into the form.
type ActivityDraft struct {
	Title        string `json:"title,omitempty"`
	Type         string `json:"type,omitempty"`
	Date         string `json:"date,omitempty"`
	Description  string `json:"description,omitempty"`
	FollowUp     string `json:"followUp,omitempty"`
	FollowUpDate string `json:"followUpDate,omitempty"`
}

// ContactDraft is a partial contact candidate pending match-or-stage.
type ContactDraft struct {
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Form is the caller's entry state for one activity being logged. The
// zero form plus NewForm defaults (type Other, today's date) mirrors an
// empty entry form.
type Form struct {
	// LockedOpportunityID pins the activity to a known opportunity.
	// When set, extraction suggestions about opportunity identity are
	// ignored entirely.
	LockedOpportunityID string
	// SelectedOpportunityID is the user's (or extraction's) pick of an
	// existing opportunity.
	SelectedOpportunityID string
	// NewOpportunity is a staged new-opportunity draft, not yet persisted.
	NewOpportunity *OpportunityDraft

	Title        string
	Type         models.ActivityType
	Date         string
	Description  string
	FollowUp     string
	FollowUpDate string

	// DefaultDate is what Date was initialized to when the form opened;
	// extraction may only override Date while it still equals this.
	DefaultDate string

	// ContactIDs are the selected existing contacts (deduplicated).
	ContactIDs []string
	// NewContacts are staged new-contact drafts, not yet persisted.
	NewContacts []ContactDraft

	// EditingActivityID is set when revising an existing activity.
	EditingActivityID string
}

// NewForm returns a form with the entry defaults applied.
func NewForm() *Form {
	today := models.Today()
	return &Form{
		Type:        models.TypeOther,
		Date:        today,
		DefaultDate: today,
	}
}

// Merge folds an extraction into the form. Deterministic policy:
// the context lock wins over any identity suggestion; caller-entered
// activity fields win over extracted ones; extracted contact candidates
// match existing contacts case-insensitively by exact name, contributing
// their ids, and non-matches are staged as drafts.
func (f *Form) Merge(ex Extraction, existing []models.Contact) {
	if f.LockedOpportunityID == "" {
		if ex.IsNewOpportunity {
			draft := OpportunityDraft{}
			if ex.Opportunity != nil {
				draft = *ex.Opportunity
			}
			f.NewOpportunity = &draft
			f.SelectedOpportunityID = ""
		} else if ex.OpportunityMatchID != "" {
			f.SelectedOpportunityID = ex.OpportunityMatchID
			f.NewOpportunity = nil
		}
	}

	if ex.Activity != nil {
		a := ex.Activity
		if f.Title == "" && a.Title != "" {
			f.Title = a.Title
		}
		if f.Description == "" && a.Description != "" {
			f.Description = a.Description
		}
		if f.FollowUp == "" && a.FollowUp != "" {
			f.FollowUp = a.FollowUp
		}
		if f.FollowUpDate == "" && a.FollowUpDate != "" {
			f.FollowUpDate = a.FollowUpDate
		}
		// Type only overrides the default category, and the date only
		// when the caller has not moved it off today's default.
		if f.Type == models.TypeOther && models.ValidActivityType(models.ActivityType(a.Type)) {
			f.Type = models.ActivityType(a.Type)
		}
		if f.Date == f.DefaultDate && a.Date != "" {
			f.Date = a.Date
		}
	}

	for _, candidate := range ex.Contacts {
		name := strings.TrimSpace(candidate.Name)
		if name == "" {
			continue
		}
		if id, ok := matchContact(existing, name); ok {
			f.ContactIDs = appendUnique(f.ContactIDs, id)
			continue
		}
		if !stagedContains(f.NewContacts, name) {
			f.NewContacts = append(f.NewContacts, candidate)
		}
	}
}

// Result reports what Finalize committed.
type Result struct {
	Activity       models.Activity
	NewOpportunity *models.Opportunity
	NewContacts    []models.Contact
}

// Finalize validates the form and commits it: any staged opportunity
// first, then staged contacts, then the activity itself, so the saved
// activity never references an identifier that was not also committed.
// Validation failure leaves the store untouched.
func Finalize(f *Form, st *store.Store) (Result, error) {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Date) == "" {
		return Result{}, ErrMissingFields
	}
	oppID := f.LockedOpportunityID
	if oppID == "" {
		oppID = f.SelectedOpportunityID
	}
	staging := oppID == "" && f.NewOpportunity != nil && strings.TrimSpace(f.NewOpportunity.Company) != ""
	if oppID == "" && !staging {
		return Result{}, ErrNoOpportunity
	}
	// A selection can originate from the extraction's match id, which is
	// untrusted; it only counts when it resolves to an existing record.
	if oppID != "" && f.LockedOpportunityID == "" {
		opps, err := st.Opportunities()
		if err != nil {
			return Result{}, err
		}
		found := false
		for _, o := range opps {
			if o.ID == oppID {
				found = true
				break
			}
		}
		if !found {
			return Result{}, ErrNoOpportunity
		}
	}

	var result Result

	if staging {
		opps, err := st.Opportunities()
		if err != nil {
			return Result{}, err
		}
		opp := promoteOpportunity(*f.NewOpportunity)
		opps = append(opps, opp)
		if err := st.SetOpportunities(opps); err != nil {
			return Result{}, err
		}
		oppID = opp.ID
		result.NewOpportunity = &opp
	}

	contactIDs := append([]string(nil), f.ContactIDs...)
	if len(f.NewContacts) > 0 {
		contacts, err := st.Contacts()
		if err != nil {
			return Result{}, err
		}
		for _, draft := range f.NewContacts {
			contact := promoteContact(draft)
			contacts = append(contacts, contact)
			contactIDs = append(contactIDs, contact.ID)
			result.NewContacts = append(result.NewContacts, contact)
		}
		if err := st.SetContacts(contacts); err != nil {
			return Result{}, err
		}
	}

	activity := models.Activity{
		ID:            f.EditingActivityID,
		OpportunityID: oppID,
		Title:         strings.TrimSpace(f.Title),
		Type:          f.Type,
		Date:          f.Date,
		ContactIDs:    models.DedupeContactIDs(contactIDs),
		Description:   f.Description,
		FollowUp:      f.FollowUp,
		FollowUpDate:  f.FollowUpDate,
	}
	if activity.ID == "" {
		activity.ID = models.NewID()
	}
	if activity.Type == "" {
		activity.Type = models.TypeOther
	}

	acts, err := st.Activities()
	if err != nil {
		return Result{}, err
	}
	replaced := false
	for i, a := range acts {
		if a.ID == activity.ID {
			acts[i] = activity
			replaced = true
			break
		}
	}
	if !replaced {
		acts = append(acts, activity)
	}
	if err := st.SetActivities(acts); err != nil {
		return Result{}, err
	}

	result.Activity = activity
	return result, nil
}

// promoteOpportunity turns a staged draft into a full record with a
// fresh identifier and defaults for anything the draft left blank.
func promoteOpportunity(draft OpportunityDraft) models.Opportunity {
	now := models.Now()
	status := models.Status(draft.Status)
	if !models.ValidStatus(status) {
		status = models.StatusIdentified
	}
	position := draft.Position
	if position == "" {
		position = draft.Role
	}
	if position == "" {
		position = draft.Company
	}
	return models.Opportunity{
		ID:          models.NewID(),
		Position:    position,
		Role:        draft.Role,
		Company:     draft.Company,
		Description: draft.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// promoteContact turns a staged draft into a full record, falling back
// to "Unknown" for the mandatory fields the draft left blank.
func promoteContact(draft ContactDraft) models.Contact {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = "Unknown"
	}
	role := draft.Role
	if role == "" {
		role = "Unknown"
	}
	company := draft.Company
	if company == "" {
		company = "Unknown"
	}
	return models.Contact{
		ID:      models.NewID(),
		Name:    name,
		Role:    role,
		Company: company,
		Email:   draft.Email,
		Phone:   draft.Phone,
	}
}

func matchContact(contacts []models.Contact, name string) (string, bool) {
	for _, c := range contacts {
		if strings.EqualFold(c.Name, name) {
			return c.ID, true
		}
	}
	return "", false
}

func stagedContains(staged []ContactDraft, name string) bool {
	for _, c := range staged {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return true
		}
	}
	return false
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

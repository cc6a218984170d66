// Package views derives filtered, sorted projections of the record
// collections for display. Every function here is pure: no projection
// mutates its inputs, fails, or touches the store. Empty input degrades
// to empty output.
package views

import (
	"sort"
	"strings"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

// TimelineEntry is an activity joined to its owning opportunity.
type TimelineEntry struct {
	Activity    models.Activity
	Opportunity models.Opportunity
}

// TimelineFilter narrows the timeline projection. Zero values mean "no
// filter" for each facet.
type TimelineFilter struct {
	// Search is a case-insensitive substring match against the activity
	// title, the employer name and the activity description.
	Search string
	// Company keeps only activities whose opportunity has exactly this
	// employer.
	Company string
	// ContactID keeps only activities referencing this contact.
	ContactID string
}

// Timeline joins activities to their opportunities and applies the
// filter, sorted descending by activity date. Activities whose
// opportunity no longer exists are excluded entirely. The date ordering
// is a lexical string comparison; equal dates keep input order.
func Timeline(opps []models.Opportunity, acts []models.Activity, filter TimelineFilter) []TimelineEntry {
	byID := make(map[string]models.Opportunity, len(opps))
	for _, o := range opps {
		byID[o.ID] = o
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	entries := []TimelineEntry{}
	for _, a := range acts {
		opp, ok := byID[a.OpportunityID]
		if !ok {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(a.Title + " " + opp.Company + " " + a.Description)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if filter.Company != "" && opp.Company != filter.Company {
			continue
		}
		if filter.ContactID != "" && !containsID(a.ContactIDs, filter.ContactID) {
			continue
		}
		entries = append(entries, TimelineEntry{Activity: a, Opportunity: opp})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Activity.Date > entries[j].Activity.Date
	})
	return entries
}

// SortKey selects the roster ordering.
type SortKey string

const (
	SortByCompany      SortKey = "company"
	SortByRole         SortKey = "role"
	SortByStatus       SortKey = "status"
	SortByLastActivity SortKey = "activity"
)

// SortState carries the roster's current sort key and direction.
type SortState struct {
	Key  SortKey
	Desc bool
}

// Select applies a sort-key selection: re-selecting the current key flips
// the direction, a new key resets to ascending.
func (s *SortState) Select(key SortKey) {
	if s.Key == key {
		s.Desc = !s.Desc
		return
	}
	s.Key = key
	s.Desc = false
}

// RosterFilter narrows the opportunity roster.
type RosterFilter struct {
	// Search is a case-insensitive substring match on employer/position.
	Search string
	// Company and Role are independent per-column substring filters.
	Company string
	Role    string
	// Status keeps only opportunities with exactly this status.
	Status models.Status
}

// Roster filters and sorts the opportunity collection. Lexical sort keys
// compare case-insensitively; the last-activity key uses the maximum
// activity date per opportunity, with activity-less opportunities
// sorting as the minimum.
func Roster(opps []models.Opportunity, acts []models.Activity, filter RosterFilter, sortState SortState) []models.Opportunity {
	lastDate := map[string]string{}
	for _, a := range acts {
		if a.Date > lastDate[a.OpportunityID] {
			lastDate[a.OpportunityID] = a.Date
		}
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	companyFilter := strings.ToLower(strings.TrimSpace(filter.Company))
	roleFilter := strings.ToLower(strings.TrimSpace(filter.Role))

	out := []models.Opportunity{}
	for _, o := range opps {
		if search != "" {
			haystack := strings.ToLower(o.Company + " " + o.Position)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if companyFilter != "" && !strings.Contains(strings.ToLower(o.Company), companyFilter) {
			continue
		}
		if roleFilter != "" && !strings.Contains(strings.ToLower(o.Role), roleFilter) {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}

	key := func(o models.Opportunity) string {
		switch sortState.Key {
		case SortByRole:
			return strings.ToLower(o.Role)
		case SortByStatus:
			return strings.ToLower(string(o.Status))
		case SortByLastActivity:
			return lastDate[o.ID]
		default:
			return strings.ToLower(o.Company)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if sortState.Desc {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out
}

// Detail returns one opportunity together with its activities sorted
// descending by date. ok is false when the id does not resolve.
func Detail(opps []models.Opportunity, acts []models.Activity, id string) (models.Opportunity, []TimelineEntry, bool) {
	var opp models.Opportunity
	found := false
	for _, o := range opps {
		if o.ID == id {
			opp = o
			found = true
			break
		}
	}
	if !found {
		return models.Opportunity{}, nil, false
	}
	entries := []TimelineEntry{}
	for _, a := range acts {
		if a.OpportunityID == id {
			entries = append(entries, TimelineEntry{Activity: a, Opportunity: opp})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Activity.Date > entries[j].Activity.Date
	})
	return opp, entries, true
}

// Companies returns the sorted distinct employer names, for facet lists.
func Companies(opps []models.Opportunity) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, o := range opps {
		if o.Company == "" || seen[o.Company] {
			continue
		}
		seen[o.Company] = true
		out = append(out, o.Company)
	}
	sort.Strings(out)
	return out
}

// StatusCounts tallies opportunities per status in display order.
func StatusCounts(opps []models.Opportunity) map[models.Status]int {
	counts := map[models.Status]int{}
	for _, o := range opps {
		counts[o.Status]++
	}
	return counts
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

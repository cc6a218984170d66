package models

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks where an opportunity stands. It is a free-form field:
// any status may follow any other, there is no transition graph.
type Status string

const (
	StatusIdentified   Status = "Identified"
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffered      Status = "Offered"
	StatusRejected     Status = "Rejected"
	StatusWithdrawn    Status = "Withdrawn"
	StatusGhosted      Status = "Ghosted"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusIdentified,
	StatusApplied,
	StatusInterviewing,
	StatusOffered,
	StatusRejected,
	StatusWithdrawn,
	StatusGhosted,
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ActivityType categorizes a logged activity.
type ActivityType string

const (
	TypeInitiation ActivityType = "Initiation"
	TypeApply      ActivityType = "Apply"
	TypeSubmit     ActivityType = "Submit"
	TypeInterview  ActivityType = "Interview"
	TypeReference  ActivityType = "Reference"
	TypeNetworking ActivityType = "Networking"
	TypeOffer      ActivityType = "Offer"
	TypeRejection  ActivityType = "Rejection"
	TypeOther      ActivityType = "Other"
)

// ActivityTypes lists every valid activity type in display order.
var ActivityTypes = []ActivityType{
	TypeInitiation,
	TypeApply,
	TypeSubmit,
	TypeInterview,
	TypeReference,
	TypeNetworking,
	TypeOffer,
	TypeRejection,
	TypeOther,
}

// ValidActivityType reports whether t is one of the known activity types.
func ValidActivityType(t ActivityType) bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Opportunity is a tracked job lead or application.
// The ID is immutable once created; CreatedAt never changes after creation.
type Opportunity struct {
	ID          string `json:"id"`
	Position    string `json:"position"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Activity is a discrete logged event tied to an opportunity.
// Date is a plain YYYY-MM-DD calendar date; ordering over dates is a
// lexical string comparison, not calendar math. Contact references may
// dangle; an unresolvable id simply renders nothing.
type Activity struct {
	ID            string       `json:"id"`
	OpportunityID string       `json:"opportunityId"`
	Title         string       `json:"title"`
	Type          ActivityType `json:"type"`
	Date          string       `json:"date"`
	ContactIDs    []string     `json:"contactIds,omitempty"`
	Description   string       `json:"description,omitempty"`
	FollowUp      string       `json:"followUp,omitempty"`
	FollowUpDate  string       `json:"followUpDate,omitempty"`
}

// Contact is a person associated with one or more activities.
type Contact struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// NewID returns a fresh unique record identifier. Identifiers are never
// reused; a deleted record's id can only come back via a restored backup.
func NewID() string {
	return uuid.NewString()
}

// Now returns the current instant as an RFC3339 timestamp string, the
// format used for CreatedAt/UpdatedAt.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// DedupeContactIDs collapses duplicate contact references, preserving
// first-seen order.
func DedupeContactIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

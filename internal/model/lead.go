package model

import "time"

// LeadStatus represents where a lead sits in the contact workflow.
type LeadStatus string

const (
	StatusPending    LeadStatus = "pending"
	StatusContacted  LeadStatus = "contacted"
	StatusInterested LeadStatus = "interested"
	StatusRejected   LeadStatus = "rejected"
)

// ValidStatuses lists every status an operator may set directly.
var ValidStatuses = []LeadStatus{StatusPending, StatusContacted, StatusInterested, StatusRejected}

// ParseStatus validates an operator-supplied status string.
// Returns ("", false) for anything outside the workflow.
func ParseStatus(s string) (LeadStatus, bool) {
	for _, v := range ValidStatuses {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// Presence is the tri-state answer to "does this business already have X".
type Presence string

const (
	PresenceYes     Presence = "yes"
	PresenceNo      Presence = "no"
	PresenceUnclear Presence = "unclear"
)

// ParsePresence maps a classifier answer onto the tri-state, defaulting to
// unclear for anything unrecognized.
func ParsePresence(s string) Presence {
	switch Presence(s) {
	case PresenceYes, PresenceNo:
		return Presence(s)
	default:
		return PresenceUnclear
	}
}

// Lead is a prospective business contact with extracted phone numbers and a
// drafted outreach pitch.
type Lead struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Location       string     `json:"location"`
	Phones         []string   `json:"phones"`
	Pitch          string     `json:"pitch"`
	Source         string     `json:"source"`
	HasWebsite     Presence   `json:"has_website"`
	HasApp         Presence   `json:"has_app"`
	PresenceReason string     `json:"presence_reason"`
	Status         LeadStatus `json:"status"`
	AddedAt        time.Time  `json:"added_at"`
	ContactedAt    *time.Time `json:"contacted_at,omitempty"`
}

// PipelineRun records the outcome of one find-leads batch.
type PipelineRun struct {
	ID               string    `json:"id"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	Results          int       `json:"results"`
	Created          int       `json:"created"`
	SkippedDuplicate int       `json:"skipped_duplicate"`
	SkippedNoPhone   int       `json:"skipped_no_phone"`
	SkippedNoPitch   int       `json:"skipped_no_pitch"`
	StartedAt        time.Time `json:"started_at"`
	DurationMS       int64     `json:"duration_ms"`
}

// Stats summarizes the lead book for the stats command.
// ConversionRate is interested divided by contacted; zero when nothing has
// been contacted yet.
type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Contacted      int     `json:"contacted"`
	Interested     int     `json:"interested"`
	Rejected       int     `json:"rejected"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ComputeStats tallies leads by status. Contacted counts leads that have
// moved past pending in any direction, i.e. interested and rejected leads
// were necessarily contacted first.
func ComputeStats(leads []Lead) Stats {
	s := Stats{Total: len(leads)}
	for _, l := range leads {
		switch l.Status {
		case StatusPending:
			s.Pending++
		case StatusContacted:
			s.Contacted++
		case StatusInterested:
			s.Interested++
		case StatusRejected:
			s.Rejected++
		}
	}
	reached := s.Contacted + s.Interested + s.Rejected
	if reached > 0 {
		s.ConversionRate = float64(s.Interested) / float64(reached)
	}
	return s
}

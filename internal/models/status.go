package models

import "fmt"

// Status is the review state shared by mapping files and mapping rows.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// legalTransitions is the review workflow: draft -> pending -> approved/rejected,
// with pending -> draft withdrawal and rejected -> pending resubmission.
var legalTransitions = map[Status][]Status{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected, StatusDraft},
	StatusApproved: {},
	StatusRejected: {StatusPending},
}

// CanTransition reports whether moving from one status to another is allowed.
// Re-asserting the current status is always a no-op and allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

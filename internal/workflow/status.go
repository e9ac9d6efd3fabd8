package workflow

// Status is the lifecycle state of a submission. The status column on the
// submissions table only ever holds one of these values, and every change
// goes through the transition table below.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusSubmitted     Status = "submitted"
	StatusPendingReview Status = "pending_review"
	StatusInProgress    Status = "in_progress"
	StatusResubmitted   Status = "resubmitted"
	StatusShortlisted   Status = "shortlisted"
	StatusNeedsRevision Status = "needs_revision"
	StatusAccepted      Status = "accepted"
	StatusRejected      Status = "rejected"
	StatusPublished     Status = "published"
	StatusArchived      Status = "archived"
)

// transitions is the authoritative edge table. Any pair not listed here is an
// illegal transition.
var transitions = map[Status][]Status{
	StatusDraft:         {StatusSubmitted, StatusPendingReview},
	StatusSubmitted:     {StatusPendingReview},
	StatusPendingReview: {StatusInProgress, StatusAccepted, StatusRejected, StatusNeedsRevision, StatusShortlisted},
	StatusInProgress:    {StatusAccepted, StatusRejected, StatusNeedsRevision, StatusShortlisted},
	StatusResubmitted:   {StatusAccepted, StatusRejected, StatusNeedsRevision, StatusShortlisted},
	StatusShortlisted:   {StatusAccepted, StatusRejected, StatusNeedsRevision},
	StatusNeedsRevision: {StatusResubmitted},
	StatusRejected:      {StatusResubmitted},
	StatusAccepted:      {StatusPublished, StatusArchived},
	StatusPublished:     {StatusArchived},
	StatusArchived:      {},
}

// IsValid reports whether s is a known status value.
func IsValid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the edge from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsReviewable reports whether a submission in status s may receive a review
// decision.
func IsReviewable(s Status) bool {
	switch s {
	case StatusPendingReview, StatusInProgress, StatusResubmitted, StatusShortlisted:
		return true
	}
	return false
}

// IsEntry reports whether s is a legal initial status for a new submission.
func IsEntry(s Status) bool {
	return s == StatusDraft || s == StatusPendingReview
}

// IsTerminal reports whether s has no outgoing edges.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// SetsReviewedAt reports whether entering s stamps the submission's
// reviewed_at timestamp.
func SetsReviewedAt(s Status) bool {
	return s == StatusAccepted || s == StatusRejected
}

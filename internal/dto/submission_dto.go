package dto

// ContentItemRequest is one publishable piece inside a new submission.
type ContentItemRequest struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Footnotes []string `json:"footnotes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type CreateSubmissionRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        string               `json:"type"`
	Tags        []string             `json:"tags,omitempty"`
	Contents    []ContentItemRequest `json:"contents"`
	// Draft submissions stay editable; everything else enters the queue as
	// pending_review. Status, when set, picks the entry state explicitly
	// and wins over Draft.
	Draft  bool   `json:"draft"`
	Status string `json:"status,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type MarkPurgeEligibleRequest struct {
	// Rejected submissions untouched for at least this many days are flagged.
	OlderThanDays int `json:"older_than_days"`
}

type MarkPurgeEligibleResponse struct {
	Flagged int64 `json:"flagged"`
}

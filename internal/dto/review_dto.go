package dto

// ReviewActionRequest drives the generic review-action endpoint. The
// single-purpose decision endpoints reuse Notes/Rating with a fixed status.
type ReviewActionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
	Rating *int   `json:"rating,omitempty"`
}

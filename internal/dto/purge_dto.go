package dto

type PurgeRequest struct {
	SubmissionIDs []string `json:"submission_ids"`
	Confirm       bool     `json:"confirm"`
}

type PurgePreviewItem struct {
	SubmissionID string `json:"submission_id"`
	Found        bool   `json:"found"`
	Contents     int64  `json:"contents"`
	Reviews      int64  `json:"reviews"`
}

type PurgePreviewResponse struct {
	Items          []PurgePreviewItem `json:"items"`
	TotalContents  int64              `json:"total_contents"`
	TotalReviews   int64              `json:"total_reviews"`
	TotalSubmitted int                `json:"total_submitted"`
}

type PurgeFailure struct {
	SubmissionID string `json:"submission_id"`
	Error        string `json:"error"`
}

type PurgeResultResponse struct {
	Deleted         int            `json:"deleted"`
	ContentsDeleted int64          `json:"contents_deleted"`
	ReviewsDeleted  int64          `json:"reviews_deleted"`
	Failures        []PurgeFailure `json:"failures"`
}

type BackfillResponse struct {
	TagsCreated        int `json:"tags_created"`
	ContentsUpdated    int `json:"contents_updated"`
	SubmissionsUpdated int `json:"submissions_updated"`
}

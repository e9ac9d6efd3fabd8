package dto

// PublishRequest carries optional SEO overrides; blank fields fall back to
// values derived from the content itself.
type PublishRequest struct {
	Slug            string `json:"slug,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}

package domain

// Banner is one slide of the promotional strip shown on the home page.
// ImageURL follows the same rules as FileAttachment.DataURL.
type Banner struct {
	ID          string `json:"id"          validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

package domain

import "errors"

// Disease validation errors
var (
	// ErrDiseaseIDEmpty is returned when a disease has no identifier.
	ErrDiseaseIDEmpty = errors.New("disease ID cannot be empty")

	// ErrDiseaseNameEmpty is returned when a disease has no display name.
	ErrDiseaseNameEmpty = errors.New("disease name cannot be empty")
)

// Disease is an entry of a section. Description holds the raw markup text
// (paragraphs separated by newlines, **bold** spans) that is rendered on the
// disease page and exported as a document.
type Disease struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Files       []*FileAttachment `json:"files"`
}

// NewDisease creates a disease without attachments whose ID is derived from name.
func NewDisease(name, description string) *Disease {
	return &Disease{
		ID:          Slugify(name),
		Name:        name,
		Description: description,
		Files:       []*FileAttachment{},
	}
}

// Validate checks the fields every disease must carry.
func (d *Disease) Validate() error {
	if d.ID == "" {
		return ErrDiseaseIDEmpty
	}
	if d.Name == "" {
		return ErrDiseaseNameEmpty
	}
	return nil
}

// FindFile returns the attachment with the given ID and its index,
// or nil and -1 when the disease holds no such file.
func (d *Disease) FindFile(id string) (*FileAttachment, int) {
	for i, f := range d.Files {
		if f.ID == id {
			return f, i
		}
	}
	return nil, -1
}

package domain

import "errors"

// Section validation errors
var (
	// ErrSectionIDEmpty is returned when a section has no identifier.
	ErrSectionIDEmpty = errors.New("section ID cannot be empty")

	// ErrSectionNameEmpty is returned when a section has no display name.
	ErrSectionNameEmpty = errors.New("section name cannot be empty")
)

// Section is the top level of the catalog tree. It owns its diseases
// exclusively; deleting a section discards every disease and file below it.
//
// Sections reachable from a published catalog snapshot are immutable.
// Mutations build a replacement node and share the untouched diseases.
type Section struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Icon       string     `json:"icon"`
	ColorClass string     `json:"colorClass"`
	Diseases   []*Disease `json:"diseases"`
}

// NewSection creates an empty section whose ID is derived from name.
func NewSection(name, icon, colorClass string) *Section {
	return &Section{
		ID:         Slugify(name),
		Name:       name,
		Icon:       icon,
		ColorClass: colorClass,
		Diseases:   []*Disease{},
	}
}

// Validate checks the fields required of a section loaded from the content origin.
func (s *Section) Validate() error {
	if s.ID == "" {
		return ErrSectionIDEmpty
	}
	if s.Name == "" {
		return ErrSectionNameEmpty
	}
	return nil
}

// FindDisease returns the disease with the given ID and its index,
// or nil and -1 when the section holds no such disease.
func (s *Section) FindDisease(id string) (*Disease, int) {
	for i, d := range s.Diseases {
		if d.ID == id {
			return d, i
		}
	}
	return nil, -1
}

// FindSection returns the first section with the given ID and its index.
// When two sections share an ID the first one wins.
func FindSection(sections []*Section, id string) (*Section, int) {
	for i, s := range sections {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

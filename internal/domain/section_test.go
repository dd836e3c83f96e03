package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSection(t *testing.T) {
	s := NewSection("Heart Diseases", "heart", "bg-rose-100")

	assert.Equal(t, "heart-diseases", s.ID)
	assert.Equal(t, "Heart Diseases", s.Name)
	assert.Equal(t, "heart", s.Icon)
	assert.Equal(t, "bg-rose-100", s.ColorClass)
	assert.NotNil(t, s.Diseases)
	assert.Empty(t, s.Diseases)
}

func TestSection_Validate(t *testing.T) {
	assert.NoError(t, (&Section{ID: "a", Name: "A"}).Validate())
	assert.ErrorIs(t, (&Section{Name: "A"}).Validate(), ErrSectionIDEmpty)
	assert.ErrorIs(t, (&Section{ID: "a"}).Validate(), ErrSectionNameEmpty)
}

func TestFindSectionAndDisease(t *testing.T) {
	flu := &Disease{ID: "flu"}
	sections := []*Section{
		{ID: "a", Diseases: []*Disease{flu}},
		{ID: "b"},
		{ID: "a"},
	}

	s, i := FindSection(sections, "a")
	assert.Same(t, sections[0], s, "first match wins")
	assert.Equal(t, 0, i)

	s, i = FindSection(sections, "missing")
	assert.Nil(t, s)
	assert.Equal(t, -1, i)

	d, i := sections[0].FindDisease("flu")
	assert.Same(t, flu, d)
	assert.Equal(t, 0, i)

	d, i = sections[1].FindDisease("flu")
	assert.Nil(t, d)
	assert.Equal(t, -1, i)
}

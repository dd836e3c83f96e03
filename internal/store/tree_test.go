package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/patientedu/internal/domain"
)

func fixtureTree() []*domain.Section {
	return []*domain.Section{
		{
			ID: "cardiology", Name: "Cardiology",
			Diseases: []*domain.Disease{
				{
					ID: "heart-failure", Name: "Heart Failure", Description: "HF",
					Files: []*domain.FileAttachment{
						{ID: "f1", Name: "Leaflet", Type: domain.FileTypePDF, DataURL: "./data/cardiology/heart-failure/leaflet.pdf"},
						{ID: "f2", Name: "Diet", Type: domain.FileTypeImage, DataURL: "blob:123"},
					},
				},
				{ID: "angina", Name: "Angina", Files: []*domain.FileAttachment{}},
			},
		},
		{ID: "pulmonology", Name: "Pulmonology", Diseases: []*domain.Disease{}},
	}
}

func TestUpdateDisease_SharesUntouchedNodes(t *testing.T) {
	root := fixtureTree()

	next, ok := UpdateDisease(root, "cardiology", "angina", "Stable Angina", "new text")
	require.True(t, ok)

	assert.NotSame(t, root[0], next[0], "section on the path is copied")
	assert.Same(t, root[1], next[1], "sibling section is shared")
	assert.Same(t, root[0].Diseases[0], next[0].Diseases[0], "sibling disease is shared")
	assert.NotSame(t, root[0].Diseases[1], next[0].Diseases[1])
	assert.Equal(t, "Stable Angina", next[0].Diseases[1].Name)
	assert.Equal(t, "new text", next[0].Diseases[1].Description)

	assert.Equal(t, "Angina", root[0].Diseases[1].Name, "old root is untouched")
}

func TestUpdateSection_SharesDiseases(t *testing.T) {
	root := fixtureTree()

	next, ok := UpdateSection(root, "cardiology", "Heart", "heart-icon", "bg-red-100")

	require.True(t, ok)
	assert.Equal(t, "Heart", next[0].Name)
	assert.Equal(t, "heart-icon", next[0].Icon)
	assert.Equal(t, "bg-red-100", next[0].ColorClass)
	assert.Equal(t, "cardiology", next[0].ID, "id is stable")
	assert.Same(t, root[0].Diseases[0], next[0].Diseases[0])
	assert.Equal(t, "Cardiology", root[0].Name)
}

func TestTransitions_MissingTargetReturnsSameRoot(t *testing.T) {
	root := fixtureTree()
	d := &domain.Disease{ID: "x", Name: "X"}
	f := &domain.FileAttachment{ID: "x"}

	tests := []struct {
		name  string
		apply func() ([]*domain.Section, bool)
	}{
		{"update section", func() ([]*domain.Section, bool) { return UpdateSection(root, "nope", "a", "b", "c") }},
		{"add disease", func() ([]*domain.Section, bool) { return AddDisease(root, "nope", d) }},
		{"update disease in missing section", func() ([]*domain.Section, bool) {
			return UpdateDisease(root, "nope", "angina", "a", "b")
		}},
		{"update missing disease", func() ([]*domain.Section, bool) {
			return UpdateDisease(root, "cardiology", "nope", "a", "b")
		}},
		{"add file to missing disease", func() ([]*domain.Section, bool) { return AddFile(root, "cardiology", "nope", f) }},
		{"delete section", func() ([]*domain.Section, bool) {
			next, removed := DeleteSection(root, "nope")
			return next, removed != nil
		}},
		{"delete disease", func() ([]*domain.Section, bool) {
			next, removed := DeleteDisease(root, "cardiology", "nope")
			return next, removed != nil
		}},
		{"delete file", func() ([]*domain.Section, bool) {
			next, removed := DeleteFile(root, "cardiology", "heart-failure", "nope")
			return next, removed != nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := tt.apply()

			assert.False(t, changed)
			require.Len(t, next, len(root))
			assert.Same(t, &root[0], &next[0], "identical backing array")
		})
	}
}

func TestDeleteDisease_IsIdempotent(t *testing.T) {
	root := fixtureTree()

	once, removed := DeleteDisease(root, "cardiology", "heart-failure")
	require.NotNil(t, removed)
	twice, removedAgain := DeleteDisease(once, "cardiology", "heart-failure")

	assert.Nil(t, removedAgain)
	assert.Equal(t, once, twice)
	require.Len(t, once[0].Diseases, 1)
	assert.Equal(t, "angina", once[0].Diseases[0].ID)
	assert.Len(t, root[0].Diseases, 2)
}

func TestDeleteSection_CascadesAndLeavesNoOrphans(t *testing.T) {
	root := fixtureTree()

	next, removed := DeleteSection(root, "cardiology")

	require.NotNil(t, removed)
	require.Len(t, next, 1)
	assert.Same(t, root[1], next[0])
	for _, s := range next {
		_, i := s.FindDisease("heart-failure")
		assert.Equal(t, -1, i, "no disease of the removed section is reachable")
	}
	assert.Equal(t, []string{"blob:123"}, sectionRefs(removed))
}

func TestAddAndDeleteFile(t *testing.T) {
	root := fixtureTree()
	f := &domain.FileAttachment{ID: "f3", Name: "Audio", Type: domain.FileTypeAudio, DataURL: "blob:456"}

	next, ok := AddFile(root, "cardiology", "angina", f)
	require.True(t, ok)
	require.Len(t, next[0].Diseases[1].Files, 1)
	assert.Same(t, f, next[0].Diseases[1].Files[0])
	assert.Empty(t, root[0].Diseases[1].Files)

	after, removed := DeleteFile(next, "cardiology", "heart-failure", "f1")
	require.NotNil(t, removed)
	require.Len(t, removed, 1)
	assert.Equal(t, "f1", removed[0].ID)
	require.Len(t, after[0].Diseases[0].Files, 1)
	assert.Equal(t, "f2", after[0].Diseases[0].Files[0].ID)
	assert.Same(t, next[0].Diseases[1], after[0].Diseases[1])
}

func TestAppendDoesNotAliasOldRoot(t *testing.T) {
	root := make([]*domain.Section, 1, 4)
	root[0] = &domain.Section{ID: "a"}

	first := AddSection(root, &domain.Section{ID: "b"})
	second := AddSection(root, &domain.Section{ID: "c"})

	assert.Equal(t, "b", first[1].ID)
	assert.Equal(t, "c", second[1].ID)
	assert.Len(t, root, 1)
}

func TestBannerTransitions(t *testing.T) {
	banners := []*domain.Banner{
		{ID: "b1", Title: "One", ImageURL: "./data/b1.jpg"},
		{ID: "b2", Title: "Two", ImageURL: "blob:2"},
	}

	added := AddBanner(banners, &domain.Banner{ID: "b3"})
	assert.Len(t, added, 3)
	assert.Len(t, banners, 2)

	updated, old := UpdateBanner(banners, "b2", "Deux", "desc", "")
	require.NotNil(t, old)
	require.Len(t, old, 1)
	assert.Same(t, banners[1], old[0])
	assert.Equal(t, "Deux", updated[1].Title)
	assert.Equal(t, "blob:2", updated[1].ImageURL, "empty image keeps the current one")
	assert.Same(t, banners[0], updated[0])

	replaced, _ := UpdateBanner(banners, "b2", "Two", "", "blob:9")
	assert.Equal(t, "blob:9", replaced[1].ImageURL)

	same, missing := UpdateBanner(banners, "nope", "x", "y", "")
	assert.Nil(t, missing)
	assert.Same(t, &banners[0], &same[0])

	deleted, removed := DeleteBanner(banners, "b1")
	require.NotNil(t, removed)
	require.Len(t, deleted, 1)
	assert.Equal(t, "b2", deleted[0].ID)

	_, none := DeleteBanner(deleted, "b1")
	assert.Nil(t, none)
}

func TestTransitions_ActOnEveryCollidingID(t *testing.T) {
	first := domain.NewSection("Heart Care", "", "")
	second := domain.NewSection("heart  care", "", "")
	require.Equal(t, first.ID, second.ID, "both names derive the same id")
	other := &domain.Section{ID: "pulmonology", Name: "Pulmonology"}
	root := []*domain.Section{first, other, second}

	t.Run("update replaces every match", func(t *testing.T) {
		next, ok := UpdateSection(root, first.ID, "Cardiac Care", "icon", "bg")

		require.True(t, ok)
		assert.Equal(t, "Cardiac Care", next[0].Name)
		assert.Equal(t, "Cardiac Care", next[2].Name)
		assert.Same(t, other, next[1])
	})

	t.Run("delete removes every match and a repeat is a no-op", func(t *testing.T) {
		once, removed := DeleteSection(root, first.ID)
		require.Len(t, removed, 2)
		assert.Equal(t, []*domain.Section{other}, once)

		twice, again := DeleteSection(once, first.ID)
		assert.Nil(t, again)
		assert.Same(t, &once[0], &twice[0])
	})

	t.Run("nested deletes cover every matching parent", func(t *testing.T) {
		d := &domain.Disease{ID: "angina", Name: "Angina", Files: []*domain.FileAttachment{
			{ID: "f1", DataURL: "blob:1"}, {ID: "f1", DataURL: "blob:2"},
		}}
		withDisease, ok := AddDisease(root, first.ID, d)
		require.True(t, ok)
		assert.Len(t, withDisease[0].Diseases, 1)
		assert.Len(t, withDisease[2].Diseases, 1)

		noFiles, files := DeleteFile(withDisease, first.ID, "angina", "f1")
		assert.Len(t, files, 4, "two files in each of two sections")
		assert.Empty(t, noFiles[0].Diseases[0].Files)

		noDisease, diseases := DeleteDisease(withDisease, first.ID, "angina")
		assert.Len(t, diseases, 2)
		assert.Equal(t, []string{"blob:1", "blob:2", "blob:1", "blob:2"}, diseaseRefs(diseases))
		assert.Empty(t, noDisease[0].Diseases)
		assert.Empty(t, noDisease[2].Diseases)
	})

	t.Run("banners", func(t *testing.T) {
		banners := []*domain.Banner{
			{ID: "b1", ImageURL: "blob:1"}, {ID: "b2"}, {ID: "b1", ImageURL: "blob:3"},
		}

		updated, replaced := UpdateBanner(banners, "b1", "Title", "", "")
		assert.Len(t, replaced, 2)
		assert.Equal(t, "Title", updated[0].Title)
		assert.Equal(t, "Title", updated[2].Title)

		remaining, removed := DeleteBanner(banners, "b1")
		assert.Equal(t, []string{"blob:1", "blob:3"}, bannerRefs(removed))
		require.Len(t, remaining, 1)
		assert.Equal(t, "b2", remaining[0].ID)
	})
}

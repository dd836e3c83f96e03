package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResources_Lifecycle(t *testing.T) {
	r := NewResources(nil)

	ref := r.Acquire("leaflet.pdf", "application/pdf", []byte("%PDF-1.4"))
	assert.True(t, strings.HasPrefix(ref, BlobScheme))
	assert.True(t, IsBlobRef(ref))
	assert.Equal(t, 1, r.Len())

	res, ok := r.Get(ref)
	require.True(t, ok)
	assert.Equal(t, "leaflet.pdf", res.Name)
	assert.Equal(t, "application/pdf", res.MediaType)

	other := r.Acquire("b.png", "image/png", nil)
	assert.NotEqual(t, ref, other)

	assert.True(t, r.Release(ref))
	assert.False(t, r.Release(ref), "second release is a no-op")
	assert.False(t, r.Release("./data/x.pdf"))
	_, ok = r.Get(ref)
	assert.False(t, ok)

	assert.Equal(t, 1, r.ReleaseAll())
	assert.Equal(t, 0, r.Len())
}

func TestUpload_DetectedMediaType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.Equal(t, "audio/mpeg", Upload{MediaType: "audio/mpeg", Data: png}.DetectedMediaType(),
		"a declared type wins")
	assert.Equal(t, "image/png", Upload{Data: png}.DetectedMediaType())
	assert.Equal(t, "application/pdf", Upload{Data: []byte("%PDF-1.7\n")}.DetectedMediaType())
}

func TestIsBlobRef(t *testing.T) {
	assert.True(t, IsBlobRef("blob:abc"))
	assert.False(t, IsBlobRef("./data/blob:abc"))
	assert.False(t, IsBlobRef(""))
}

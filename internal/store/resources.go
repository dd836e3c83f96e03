package store

import (
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/phrazzld/patientedu/internal/platform/metrics"
)

// BlobScheme prefixes every transient content reference.
const BlobScheme = "blob:"

// Upload is content handed to the store by an administrator.
// MediaType may be empty, in which case it is sniffed from Data.
type Upload struct {
	Name      string
	MediaType string
	Data      []byte
}

// DetectedMediaType returns the declared media type, or the one sniffed
// from the content when none was declared.
func (u Upload) DetectedMediaType() string {
	if u.MediaType != "" {
		return u.MediaType
	}
	return mimetype.Detect(u.Data).String()
}

// Resource is the content behind a transient reference.
type Resource struct {
	Ref       string
	Name      string
	MediaType string
	Data      []byte
}

// Resources is the registry of transient content references. Each
// reference is owned by exactly one file or banner and is released when its
// owner is discarded.
type Resources struct {
	mu      sync.RWMutex
	items   map[string]*Resource
	metrics *metrics.Metrics
}

// NewResources creates an empty registry.
func NewResources(m *metrics.Metrics) *Resources {
	return &Resources{
		items:   make(map[string]*Resource),
		metrics: m,
	}
}

// Acquire registers content and returns its reference ("blob:<uuid>").
func (r *Resources) Acquire(name, mediaType string, data []byte) string {
	ref := BlobScheme + uuid.NewString()

	r.mu.Lock()
	r.items[ref] = &Resource{Ref: ref, Name: name, MediaType: mediaType, Data: data}
	n := len(r.items)
	r.mu.Unlock()

	r.metrics.SetTransientResources(n)
	return ref
}

// Get returns the content behind ref.
func (r *Resources) Get(ref string) (*Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[ref]
	return res, ok
}

// Release discards ref. It reports whether ref was registered; references
// that point at the content origin are never registered.
func (r *Resources) Release(ref string) bool {
	r.mu.Lock()
	_, ok := r.items[ref]
	delete(r.items, ref)
	n := len(r.items)
	r.mu.Unlock()

	if ok {
		r.metrics.SetTransientResources(n)
	}
	return ok
}

// ReleaseAll discards every reference and returns how many there were.
func (r *Resources) ReleaseAll() int {
	r.mu.Lock()
	n := len(r.items)
	r.items = make(map[string]*Resource)
	r.mu.Unlock()

	r.metrics.SetTransientResources(0)
	return n
}

// Len returns the number of live references.
func (r *Resources) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// IsBlobRef reports whether url is a transient content reference.
func IsBlobRef(url string) bool {
	return strings.HasPrefix(url, BlobScheme)
}

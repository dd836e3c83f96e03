package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Catalog change event types.
const (
	TypeCatalogInstalled = "catalog.installed"
	TypeSectionAdded     = "section.added"
	TypeSectionUpdated   = "section.updated"
	TypeSectionDeleted   = "section.deleted"
	TypeDiseaseAdded     = "disease.added"
	TypeDiseaseUpdated   = "disease.updated"
	TypeDiseaseDeleted   = "disease.deleted"
	TypeFileAdded        = "file.added"
	TypeFileDeleted      = "file.deleted"
	TypeBannerAdded      = "banner.added"
	TypeBannerUpdated    = "banner.updated"
	TypeBannerDeleted    = "banner.deleted"
)

// CatalogEvent describes one applied change to the catalog.
type CatalogEvent struct {
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Revision is the store revision published by the change.
	Revision uint64 `json:"revision"`

	// Payload identifies the affected node(s).
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// Target identifies the node a change applied to. Empty fields are omitted.
type Target struct {
	SectionID string `json:"sectionId,omitempty"`
	DiseaseID string `json:"diseaseId,omitempty"`
	FileID    string `json:"fileId,omitempty"`
	BannerID  string `json:"bannerId,omitempty"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *CatalogEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewCatalogEvent creates a CatalogEvent for the given revision.
func NewCatalogEvent(eventType string, revision uint64, payload any, now time.Time) (*CatalogEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &CatalogEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Revision:  revision,
		Payload:   payloadBytes,
		CreatedAt: now,
	}, nil
}

// EventHandler reacts to catalog events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *CatalogEvent) error
}

// EventEmitter publishes catalog events to interested handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *CatalogEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *CatalogEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *CatalogEvent) error {
	return f(ctx, event)
}

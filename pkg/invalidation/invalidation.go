// Package invalidation clears the fetch cache when the catalog changes. The
// host's admin surface publishes catalog-changed events; every replica
// subscribes and drops its cached listings so an edit is visible before the
// TTL would have surfaced it.
package invalidation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published when the catalog changes.
const (
	EventProductCreated = "product-created"
	EventProductUpdated = "product-updated"
	EventProductDeleted = "product-deleted"
)

// CatalogEvent is the wire payload of a catalog change.
type CatalogEvent struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"`
	ProductID string    `json:"productId,omitempty"`
	Occurred  time.Time `json:"occurred"`
}

// NewCatalogEvent builds an event with a fresh UUID and timestamp.
func NewCatalogEvent(eventType, productID string) CatalogEvent {
	return CatalogEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		ProductID: productID,
		Occurred:  time.Now().UTC(),
	}
}

// Marshal encodes the event for publishing.
func (e CatalogEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalEvent(payload []byte) (CatalogEvent, error) {
	var event CatalogEvent
	err := json.Unmarshal(payload, &event)
	return event, err
}

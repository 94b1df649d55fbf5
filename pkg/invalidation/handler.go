package invalidation

import (
	"context"
	"errors"
	"fmt"

	"github.com/illmade-knight/go-storefront-cache/pkg/fetchcache"
	"github.com/rs/zerolog"
)

// ErrUndecodableEvent marks payloads that can never be processed; redelivery
// would loop forever, so consumers drop them.
var ErrUndecodableEvent = errors.New("undecodable catalog event")

// Handler applies catalog events to a fetch cache. Listing keys are
// parameterized (pagination, category, search term), so a single product edit
// can touch an unknowable set of entries; the handler clears the whole store
// rather than guessing.
type Handler struct {
	store  fetchcache.Store
	logger zerolog.Logger
}

// NewHandler creates a Handler over the shared store.
func NewHandler(store fetchcache.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With().Str("component", "InvalidationHandler").Logger(),
	}
}

// Handle decodes a catalog event payload and clears the store. An undecodable
// payload is reported so the consumer can drop it rather than redeliver it
// forever.
func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	event, err := unmarshalEvent(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodableEvent, err)
	}

	if err := h.store.Clear(ctx); err != nil {
		h.logger.Error().Err(err).Str("event_id", event.EventID).Msg("Failed to clear cache for catalog event.")
		return fmt.Errorf("clear cache for event %s: %w", event.EventID, err)
	}

	h.logger.Info().
		Str("event_id", event.EventID).
		Str("type", event.Type).
		Str("product_id", event.ProductID).
		Msg("Cleared fetch cache for catalog event.")
	return nil
}

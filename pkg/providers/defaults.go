package providers

import (
	"context"
	"encoding/json"
	"io"

	"cloud.google.com/go/storage"
	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/rs/zerolog"
)

// StaticCategories is the terminal tier of the category chain. It serves a
// fixed in-memory list and can never fail, which is what makes the category
// operation always-available degraded data.
type StaticCategories struct {
	categories []catalog.Category
}

// NewStaticCategories creates the static tier. A nil or empty list falls back
// to the compiled-in catalog.DefaultCategories.
func NewStaticCategories(categories []catalog.Category) *StaticCategories {
	if len(categories) == 0 {
		categories = catalog.DefaultCategories
	}
	return &StaticCategories{categories: categories}
}

// Name identifies this tier in chain logs.
func (s *StaticCategories) Name() string { return "defaults" }

// ListCategories returns the static list. It never errors.
func (s *StaticCategories) ListCategories(_ context.Context) ([]catalog.Category, error) {
	return s.categories, nil
}

// ====================================================================================
// The interfaces below abstract the Google Cloud Storage client so the
// snapshot loader can be tested without a real GCS client.
// ====================================================================================

// SnapshotClient abstracts the top-level *storage.Client.
type SnapshotClient interface {
	Bucket(name string) SnapshotBucketHandle
}

// SnapshotBucketHandle abstracts a *storage.BucketHandle.
type SnapshotBucketHandle interface {
	Object(name string) SnapshotObjectHandle
}

// SnapshotObjectHandle abstracts a *storage.ObjectHandle.
type SnapshotObjectHandle interface {
	NewReader(ctx context.Context) (io.ReadCloser, error)
}

// snapshotClientAdapter wraps a *storage.Client to satisfy SnapshotClient.
type snapshotClientAdapter struct {
	client *storage.Client
}

// NewSnapshotClientAdapter creates an adapter that makes the concrete
// *storage.Client conform to the SnapshotClient interface.
func NewSnapshotClientAdapter(client *storage.Client) SnapshotClient {
	if client == nil {
		return nil
	}
	return &snapshotClientAdapter{client: client}
}

func (a *snapshotClientAdapter) Bucket(name string) SnapshotBucketHandle {
	return &snapshotBucketAdapter{handle: a.client.Bucket(name)}
}

type snapshotBucketAdapter struct {
	handle *storage.BucketHandle
}

func (a *snapshotBucketAdapter) Object(name string) SnapshotObjectHandle {
	return &snapshotObjectAdapter{handle: a.handle.Object(name)}
}

type snapshotObjectAdapter struct {
	handle *storage.ObjectHandle
}

func (a *snapshotObjectAdapter) NewReader(ctx context.Context) (io.ReadCloser, error) {
	return a.handle.NewReader(ctx)
}

// LoadDefaultCategories reads a JSON category snapshot from a GCS object so
// deployments can tune the degraded category list without a rebuild. On any
// error it returns the compiled-in defaults; the loader itself never fails.
func LoadDefaultCategories(ctx context.Context, client SnapshotClient, bucket, object string, logger zerolog.Logger) []catalog.Category {
	loadLogger := logger.With().Str("component", "DefaultsLoader").Str("bucket", bucket).Str("object", object).Logger()

	if client == nil {
		return catalog.DefaultCategories
	}

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		loadLogger.Warn().Err(err).Msg("Could not open category snapshot, using compiled-in defaults.")
		return catalog.DefaultCategories
	}
	defer func() {
		_ = reader.Close()
	}()

	var categories []catalog.Category
	if err := json.NewDecoder(reader).Decode(&categories); err != nil {
		loadLogger.Warn().Err(err).Msg("Could not decode category snapshot, using compiled-in defaults.")
		return catalog.DefaultCategories
	}
	if len(categories) == 0 {
		loadLogger.Warn().Msg("Category snapshot is empty, using compiled-in defaults.")
		return catalog.DefaultCategories
	}

	loadLogger.Info().Int("count", len(categories)).Msg("Loaded category defaults from snapshot.")
	return categories
}

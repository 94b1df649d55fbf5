package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// BigQueryConfig holds configuration for the search-event table.
type BigQueryConfig struct {
	ProjectID       string
	DatasetID       string
	TableID         string
	CredentialsFile string // Optional: path to a service account JSON file.
}

// NewBigQueryClient creates a BigQuery client. It uses Application Default
// Credentials unless a credentials file is provided.
func NewBigQueryClient(ctx context.Context, projectID, credentialsFile string, logger zerolog.Logger) (*bigquery.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
		logger.Info().Str("credentials_file", credentialsFile).Msg("Using specified credentials file for BigQuery client.")
	} else {
		logger.Info().Msg("Using Application Default Credentials (ADC) for BigQuery client.")
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	return client, nil
}

// BigQuerySink streams search events into a BigQuery table.
type BigQuerySink struct {
	client   *bigquery.Client
	table    *bigquery.Table
	inserter *bigquery.Inserter
	logger   zerolog.Logger
}

// NewBigQuerySink creates a sink for the configured table. If the table does
// not exist it is created with the schema inferred from SearchEvent.
func NewBigQuerySink(ctx context.Context, client *bigquery.Client, cfg *BigQueryConfig, logger zerolog.Logger) (*BigQuerySink, error) {
	if client == nil {
		return nil, errors.New("bigquery client cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("BigQueryConfig cannot be nil")
	}

	logger = logger.With().Str("dataset_id", cfg.DatasetID).Str("table_id", cfg.TableID).Logger()

	tableRef := client.Dataset(cfg.DatasetID).Table(cfg.TableID)
	_, err := tableRef.Metadata(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "notFound") {
			logger.Warn().Msg("Search-event table not found. Creating with inferred schema.")
			schema, inferErr := bigquery.InferSchema(SearchEvent{})
			if inferErr != nil {
				return nil, fmt.Errorf("failed to infer search-event schema: %w", inferErr)
			}
			if createErr := tableRef.Create(ctx, &bigquery.TableMetadata{Schema: schema}); createErr != nil {
				return nil, fmt.Errorf("failed to create table %s.%s: %w", cfg.DatasetID, cfg.TableID, createErr)
			}
			logger.Info().Msg("Search-event table created.")
		} else {
			return nil, fmt.Errorf("failed to get table metadata: %w", err)
		}
	}

	return &BigQuerySink{
		client:   client,
		table:    tableRef,
		inserter: tableRef.Inserter(),
		logger:   logger.With().Str("component", "BigQuerySink").Logger(),
	}, nil
}

// InsertBatch streams a batch of search events to the table, logging
// row-level failures individually.
func (s *BigQuerySink) InsertBatch(ctx context.Context, events []*SearchEvent) error {
	if len(events) == 0 {
		return nil
	}

	err := s.inserter.Put(ctx, events)
	if err != nil {
		var multiErr bigquery.PutMultiError
		if errors.As(err, &multiErr) {
			for _, rowErr := range multiErr {
				s.logger.Error().
					Int("row_index", rowErr.RowIndex).
					Msgf("BigQuery insert error for row: %v", rowErr.Errors)
			}
		}
		return fmt.Errorf("bigquery Inserter.Put failed: %w", err)
	}
	return nil
}

// Close is a no-op; the BigQuery client's lifecycle is managed externally.
func (s *BigQuerySink) Close() error {
	s.logger.Info().Msg("BigQuerySink does not close the injected BigQuery client.")
	return nil
}

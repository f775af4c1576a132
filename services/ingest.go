package services

import (
	"context"
	"errors"
	"fmt"

	"outlet-sales/storage"
	"outlet-sales/utils"
)

// Ingester loads CSV rows into the record store.
type Ingester struct {
	cleaner *Cleaner
	records storage.RecordStore
	logger  *utils.Logger
}

// NewIngester creates an Ingester writing to records.
func NewIngester(records storage.RecordStore, logger *utils.Logger) *Ingester {
	return &Ingester{cleaner: NewCleaner(logger), records: records, logger: logger}
}

// Load reads every row from r, cleans it and appends the result to the store.
// It returns the number of rows stored.
func (i *Ingester) Load(ctx context.Context, r storage.RawRowReader) (int, error) {
	raw, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	i.logger.Info("[ingest] Read %d raw rows", len(raw))

	records := i.cleaner.Clean(raw)
	if len(records) == 0 {
		return 0, errors.New("ingest: every row was dropped during cleaning")
	}

	n, err := i.records.InsertRecords(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	i.logger.Info("[ingest] Stored %d rows in sales_data", n)
	return n, nil
}

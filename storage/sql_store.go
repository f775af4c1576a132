package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"outlet-sales/config"
	"outlet-sales/models"
	"outlet-sales/utils"
)

const insertBatchSize = 50

var recordColumns = []string{
	"item_identifier",
	"item_weight",
	"item_fat_content",
	"item_visibility",
	"item_type",
	"item_mrp",
	"outlet_identifier",
	"outlet_establishment_year",
	"outlet_size",
	"outlet_location_type",
	"outlet_type",
	"item_outlet_sales",
}

var predictionColumns = []string{
	"item_identifier",
	"outlet_identifier",
	"predicted_sales",
	"model_id",
	"created_at",
}

// Store persists sales rows, predictions and model artifacts in PostgreSQL
// or SQLite.
type Store struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
}

var (
	_ RecordStore     = (*Store)(nil)
	_ PredictionStore = (*Store)(nil)
	_ ArtifactStore   = (*Store)(nil)
)

// Open connects to the database, retrying the ping with back-off, runs
// schema migrations, and returns a ready-to-use Store.
func Open(ctx context.Context, driver, dsn string, retry *utils.RetryConfig) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := retry.Do(ctx, driver+" ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", driver, err)
	}

	s, err := NewStore(db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", driver, err)
	}
	return s, nil
}

// NewStore wraps an already open database handle.
func NewStore(db *sql.DB, driver string) (*Store, error) {
	var placeholder sq.PlaceholderFormat
	switch driver {
	case config.DriverPostgres:
		placeholder = sq.Dollar
	case config.DriverSQLite:
		placeholder = sq.Question
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}
	return &Store{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := postgresSchema
	if s.driver == config.DriverSQLite {
		ddl = sqliteSchema
	}
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS sales_data (
		id                        SERIAL PRIMARY KEY,
		item_identifier           VARCHAR(16)      NOT NULL,
		item_weight               DOUBLE PRECISION,
		item_fat_content          VARCHAR(32)      NOT NULL,
		item_visibility           DOUBLE PRECISION,
		item_type                 VARCHAR(64)      NOT NULL,
		item_mrp                  DOUBLE PRECISION NOT NULL,
		outlet_identifier         VARCHAR(16)      NOT NULL,
		outlet_establishment_year INTEGER          NOT NULL,
		outlet_size               VARCHAR(16),
		outlet_location_type      VARCHAR(16)      NOT NULL,
		outlet_type               VARCHAR(32)      NOT NULL,
		item_outlet_sales         DOUBLE PRECISION
	);

	CREATE INDEX IF NOT EXISTS idx_sales_data_item   ON sales_data(item_identifier);
	CREATE INDEX IF NOT EXISTS idx_sales_data_outlet ON sales_data(outlet_identifier);

	CREATE TABLE IF NOT EXISTS sales_predictions (
		id                SERIAL PRIMARY KEY,
		item_identifier   VARCHAR(16)      NOT NULL,
		outlet_identifier VARCHAR(16)      NOT NULL,
		predicted_sales   DOUBLE PRECISION NOT NULL,
		model_id          VARCHAR(36)      NOT NULL,
		created_at        TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS model_artifacts (
		id          VARCHAR(36) PRIMARY KEY,
		fingerprint CHAR(64)    NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		payload     TEXT        NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_model_artifacts_created ON model_artifacts(created_at);
`

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS sales_data (
		id                        INTEGER PRIMARY KEY AUTOINCREMENT,
		item_identifier           TEXT    NOT NULL,
		item_weight               REAL,
		item_fat_content          TEXT    NOT NULL,
		item_visibility           REAL,
		item_type                 TEXT    NOT NULL,
		item_mrp                  REAL    NOT NULL,
		outlet_identifier         TEXT    NOT NULL,
		outlet_establishment_year INTEGER NOT NULL,
		outlet_size               TEXT,
		outlet_location_type      TEXT    NOT NULL,
		outlet_type               TEXT    NOT NULL,
		item_outlet_sales         REAL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_data_item   ON sales_data(item_identifier);
	CREATE INDEX IF NOT EXISTS idx_sales_data_outlet ON sales_data(outlet_identifier);

	CREATE TABLE IF NOT EXISTS sales_predictions (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		item_identifier   TEXT      NOT NULL,
		outlet_identifier TEXT      NOT NULL,
		predicted_sales   REAL      NOT NULL,
		model_id          TEXT      NOT NULL,
		created_at        TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS model_artifacts (
		id          TEXT      PRIMARY KEY,
		fingerprint TEXT      NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		payload     TEXT      NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_model_artifacts_created ON model_artifacts(created_at);
`

// InsertRecords appends rows to sales_data in batches inside one
// transaction and returns how many were written.
func (s *Store) InsertRecords(ctx context.Context, records []*models.SalesRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i := 0; i < len(records); i += insertBatchSize {
			end := min(i+insertBatchSize, len(records))
			q := s.sb.Insert("sales_data").Columns(recordColumns...)
			for _, r := range records[i:end] {
				q = q.Values(
					r.ItemIdentifier, r.ItemWeight, r.ItemFatContent, r.ItemVisibility,
					r.ItemType, r.ItemMRP, r.OutletIdentifier, r.OutletEstablishmentYear,
					r.OutletSize, r.OutletLocationType, r.OutletType, r.ItemOutletSales,
				)
			}
			query, args, err := q.ToSql()
			if err != nil {
				return fmt.Errorf("building insert query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("inserting sales rows %d-%d: %w", i, end, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: insert records: %w", s.driver, err)
	}
	return len(records), nil
}

// FetchRecords retrieves every stored row in id order. This is the reference
// population snapshot used for training.
func (s *Store) FetchRecords(ctx context.Context) ([]*models.SalesRecord, error) {
	return s.queryRecords(ctx, s.selectRecords().OrderBy("id"))
}

// FetchRecord retrieves one row by id.
func (s *Store) FetchRecord(ctx context.Context, id int64) (*models.SalesRecord, error) {
	return s.queryRecord(ctx, s.selectRecords().Where(sq.Eq{"id": id}))
}

// FirstRecord retrieves the row with the lowest id.
func (s *Store) FirstRecord(ctx context.Context) (*models.SalesRecord, error) {
	return s.queryRecord(ctx, s.selectRecords().OrderBy("id").Limit(1))
}

// RandomRecord retrieves one row chosen by the database.
func (s *Store) RandomRecord(ctx context.Context) (*models.SalesRecord, error) {
	return s.queryRecord(ctx, s.selectRecords().OrderBy("RANDOM()").Limit(1))
}

func (s *Store) selectRecords() sq.SelectBuilder {
	return s.sb.Select(append([]string{"id"}, recordColumns...)...).From("sales_data")
}

func (s *Store) queryRecord(ctx context.Context, q sq.SelectBuilder) (*models.SalesRecord, error) {
	records, err := s.queryRecords(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

func (s *Store) queryRecords(ctx context.Context, q sq.SelectBuilder) ([]*models.SalesRecord, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building select query: %w", s.driver, err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch records: %w", s.driver, err)
	}
	defer rows.Close()

	var records []*models.SalesRecord
	for rows.Next() {
		r := &models.SalesRecord{}
		if err := rows.Scan(
			&r.ID, &r.ItemIdentifier, &r.ItemWeight, &r.ItemFatContent, &r.ItemVisibility,
			&r.ItemType, &r.ItemMRP, &r.OutletIdentifier, &r.OutletEstablishmentYear,
			&r.OutletSize, &r.OutletLocationType, &r.OutletType, &r.ItemOutletSales,
		); err != nil {
			return nil, fmt.Errorf("%s: scan record: %w", s.driver, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ReplacePredictions clears sales_predictions and writes the new batch, all
// in one transaction.
func (s *Store) ReplacePredictions(ctx context.Context, predictions []*models.Prediction) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sales_predictions"); err != nil {
			return fmt.Errorf("clearing predictions: %w", err)
		}
		for i := 0; i < len(predictions); i += insertBatchSize {
			end := min(i+insertBatchSize, len(predictions))
			if err := s.insertPredictions(ctx, tx, predictions[i:end]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: replace predictions: %w", s.driver, err)
	}
	return nil
}

// AppendPrediction adds a single prediction to the history.
func (s *Store) AppendPrediction(ctx context.Context, p *models.Prediction) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return s.insertPredictions(ctx, tx, []*models.Prediction{p})
	})
	if err != nil {
		return fmt.Errorf("%s: append prediction: %w", s.driver, err)
	}
	return nil
}

func (s *Store) insertPredictions(ctx context.Context, tx *sql.Tx, batch []*models.Prediction) error {
	q := s.sb.Insert("sales_predictions").Columns(predictionColumns...)
	for _, p := range batch {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		q = q.Values(p.ItemIdentifier, p.OutletIdentifier, p.PredictedSales, p.ModelID, p.CreatedAt)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting predictions: %w", err)
	}
	return nil
}

// LatestPredictions returns up to limit predictions, newest first.
func (s *Store) LatestPredictions(ctx context.Context, limit int) ([]*models.Prediction, error) {
	if limit < 1 {
		limit = 10
	}
	return s.queryPredictions(ctx, s.selectPredictions().OrderBy("id DESC").Limit(uint64(limit)))
}

// AllPredictions returns every stored prediction in id order.
func (s *Store) AllPredictions(ctx context.Context) ([]*models.Prediction, error) {
	return s.queryPredictions(ctx, s.selectPredictions().OrderBy("id"))
}

func (s *Store) selectPredictions() sq.SelectBuilder {
	return s.sb.Select(append([]string{"id"}, predictionColumns...)...).From("sales_predictions")
}

func (s *Store) queryPredictions(ctx context.Context, q sq.SelectBuilder) ([]*models.Prediction, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building select query: %w", s.driver, err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch predictions: %w", s.driver, err)
	}
	defer rows.Close()

	var out []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		if err := rows.Scan(&p.ID, &p.ItemIdentifier, &p.OutletIdentifier, &p.PredictedSales, &p.ModelID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan prediction: %w", s.driver, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveArtifact stores a trained model together with its schema and stats.
func (s *Store) SaveArtifact(ctx context.Context, a *models.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	query, args, err := s.sb.Insert("model_artifacts").
		Columns("id", "fingerprint", "created_at", "payload").
		Values(a.ID, a.Fingerprint, a.CreatedAt, string(payload)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: save artifact: %w", s.driver, err)
	}
	return nil
}

// LatestArtifact loads the most recently trained artifact.
func (s *Store) LatestArtifact(ctx context.Context) (*models.Artifact, error) {
	query, args, err := s.sb.Select("payload").
		From("model_artifacts").
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var payload string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoArtifact
		}
		return nil, fmt.Errorf("%s: load artifact: %w", s.driver, err)
	}

	var a models.Artifact
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

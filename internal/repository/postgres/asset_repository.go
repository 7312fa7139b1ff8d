package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-qr/internal/domain"
	"asset-qr/internal/metrics"
	"asset-qr/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the postgres repositories.
// ids are UUIDs generated by the database.
const Schema = `
CREATE TABLE IF NOT EXISTS laptop_assets (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	laptop_details  TEXT NOT NULL,
	serial_number   TEXT NOT NULL,
	employee_id     TEXT NOT NULL,
	contact_number  TEXT NOT NULL,
	employee_email  TEXT NOT NULL,
	support_contact TEXT NOT NULL,
	company_link    TEXT NOT NULL,
	generated_at    TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS asset_scans (
	id          BIGSERIAL PRIMARY KEY,
	asset_id    UUID NOT NULL REFERENCES laptop_assets(id),
	scanned_at  TIMESTAMPTZ NOT NULL,
	ip_address  TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	referer     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_asset_scans_asset_id ON asset_scans(asset_id);
`

// invalidTextRepresentation is the SQLSTATE postgres reports when an id is not a UUID.
const invalidTextRepresentation = "22P02"

type assetRepository struct {
	db *pgxpool.Pool
}

// NewAssetRepository creates a PostgreSQL asset repository.
func NewAssetRepository(db *pgxpool.Pool) repository.AssetRepository {
	return &assetRepository{db: db}
}

// Create inserts a record and returns the generated UUID.
func (r *assetRepository) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	defer observe("create", time.Now())

	query := `
		INSERT INTO laptop_assets (
			laptop_details, serial_number, employee_id, contact_number,
			employee_email, support_contact, company_link, generated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id::text
	`

	var id string
	err := r.db.QueryRow(
		ctx,
		query,
		record.LaptopDetails,
		record.SerialNumber,
		record.EmployeeID,
		record.ContactNumber,
		record.EmployeeEmail,
		record.SupportContact,
		record.CompanyLink,
		record.GeneratedAt,
	).Scan(&id)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("create").Inc()
		return "", fmt.Errorf("failed to create asset: %w", err)
	}

	return id, nil
}

// GetByID retrieves a record by its UUID.
func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.AssetRecord, error) {
	defer observe("get", time.Now())

	query := `
		SELECT laptop_details, serial_number, employee_id, contact_number,
		       employee_email, support_contact, company_link, generated_at
		FROM laptop_assets
		WHERE id = $1
	`

	record := &domain.AssetRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.LaptopDetails,
		&record.SerialNumber,
		&record.EmployeeID,
		&record.ContactNumber,
		&record.EmployeeEmail,
		&record.SupportContact,
		&record.CompanyLink,
		&record.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		// an id that is not a UUID cannot exist
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
			return nil, repository.ErrNotFound
		}
		metrics.DatabaseErrorsTotal.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return record, nil
}

func observe(operation string, start time.Time) {
	metrics.DatabaseQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// InitDB initializes the database connection pool
func InitDB(ctx context.Context, dsn string, maxConns, minConns int, maxLifetime time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnLifetime = maxLifetime
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates missing tables. gen_random_uuid needs PostgreSQL 13+.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Package sqlite is a single-node backend for the record store, for setups
// that do not run PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"asset-qr/internal/domain"
	"asset-qr/internal/repository"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS laptop_assets (
	id              TEXT PRIMARY KEY,
	laptop_details  TEXT NOT NULL,
	serial_number   TEXT NOT NULL,
	employee_id     TEXT NOT NULL,
	contact_number  TEXT NOT NULL,
	employee_email  TEXT NOT NULL,
	support_contact TEXT NOT NULL,
	company_link    TEXT NOT NULL,
	generated_at    TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS asset_scans (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id    TEXT NOT NULL REFERENCES laptop_assets(id),
	scanned_at  TIMESTAMP NOT NULL,
	ip_address  TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	referer     TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a SQLite handle shared by the sqlite repositories.
type DB struct {
	db *sql.DB
	l  *sync.Mutex // sqlite allows a single writer
}

// Open opens (or creates) the database at dsn and applies the schema.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open SQLite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not apply SQLite schema: %w", err)
	}

	return &DB{db: db, l: new(sync.Mutex)}, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

type assetRepository struct {
	*DB
}

// compile-time assertions that we implement the repository interfaces
var (
	_ repository.AssetRepository = &assetRepository{}
	_ repository.ScanRepository  = &scanRepository{}
)

// NewAssetRepository returns an AssetRepository backed by d. ids are random UUIDs.
func NewAssetRepository(d *DB) repository.AssetRepository {
	return &assetRepository{DB: d}
}

func (r *assetRepository) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	r.l.Lock()
	defer r.l.Unlock()

	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO laptop_assets (
			id, laptop_details, serial_number, employee_id, contact_number,
			employee_email, support_contact, company_link, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		record.LaptopDetails,
		record.SerialNumber,
		record.EmployeeID,
		record.ContactNumber,
		record.EmployeeEmail,
		record.SupportContact,
		record.CompanyLink,
		record.GeneratedAt,
	)
	if err != nil {
		return "", fmt.Errorf("error adding asset to database: %w", err)
	}

	return id, nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.AssetRecord, error) {
	r.l.Lock()
	defer r.l.Unlock()

	record := &domain.AssetRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT laptop_details, serial_number, employee_id, contact_number,
		       employee_email, support_contact, company_link, generated_at
		FROM laptop_assets WHERE id = ?`, id).Scan(
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error resolving asset %s in database: %w", id, err)
	}

	return record, nil
}

type scanRepository struct {
	*DB
}

// NewScanRepository returns a ScanRepository backed by d.
func NewScanRepository(d *DB) repository.ScanRepository {
	return &scanRepository{DB: d}
}

func (r *scanRepository) Create(ctx context.Context, scan *domain.ScanEvent) error {
	r.l.Lock()
	defer r.l.Unlock()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO asset_scans (asset_id, scanned_at, ip_address, user_agent, referer) VALUES (?, ?, ?, ?, ?)`,
		scan.AssetID, scan.ScannedAt, scan.IPAddress, scan.UserAgent, scan.Referer,
	)
	if err != nil {
		return fmt.Errorf("error adding scan event to database: %w", err)
	}

	if scan.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("error reading scan event id: %w", err)
	}
	return nil
}

func (r *scanRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	r.l.Lock()
	defer r.l.Unlock()

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM asset_scans WHERE asset_id = ?`, assetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting scans: %w", err)
	}
	return count, nil
}

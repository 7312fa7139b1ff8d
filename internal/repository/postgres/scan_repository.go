package postgres

import (
	"context"
	"fmt"
	"time"

	"asset-qr/internal/domain"
	"asset-qr/internal/metrics"
	"asset-qr/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type scanRepository struct {
	db *pgxpool.Pool
}

// NewScanRepository creates a PostgreSQL scan repository.
func NewScanRepository(db *pgxpool.Pool) repository.ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *domain.ScanEvent) error {
	defer observe("scan_create", time.Now())

	query := `
		INSERT INTO asset_scans (asset_id, scanned_at, ip_address, user_agent, referer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		scan.AssetID,
		scan.ScannedAt,
		scan.IPAddress,
		scan.UserAgent,
		scan.Referer,
	).Scan(&scan.ID)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("scan_create").Inc()
		return fmt.Errorf("failed to create scan event: %w", err)
	}

	return nil
}

func (r *scanRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	query := `SELECT COUNT(*) FROM asset_scans WHERE asset_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, assetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}

	return count, nil
}

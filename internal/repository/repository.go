package repository

import (
	"context"
	"errors"

	"asset-qr/internal/domain"
)

// ErrNotFound is returned by repositories when no row matches the lookup key.
var ErrNotFound = errors.New("record not found")

// AssetRepository persists asset records.
// Records are immutable, so there is no Update or Delete.
type AssetRepository interface {
	// Create inserts a record and returns the opaque id assigned to it.
	Create(ctx context.Context, record *domain.AssetRecord) (string, error)

	// GetByID returns the record stored under id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.AssetRecord, error)
}

// ScanRepository stores scan events of reference-mode codes.
type ScanRepository interface {
	Create(ctx context.Context, scan *domain.ScanEvent) error

	// CountByAsset returns how many times a code was resolved.
	CountByAsset(ctx context.Context, assetID string) (int64, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"asset-qr/internal/domain"
	"asset-qr/internal/metrics"
	"asset-qr/internal/repository"
)

// AssetService is the server side of the record store. It sits between the
// HTTP handlers and the repositories.
type AssetService struct {
	assetRepo repository.AssetRepository
	scanRepo  repository.ScanRepository
	cache     Cache
	logger    *slog.Logger
}

var _ RecordStore = (*AssetService)(nil)

// NewAssetService creates a new asset service. cache and scanRepo may be nil.
func NewAssetService(assetRepo repository.AssetRepository, scanRepo repository.ScanRepository, cache Cache, logger *slog.Logger) *AssetService {
	if cache == nil {
		cache = NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetService{
		assetRepo: assetRepo,
		scanRepo:  scanRepo,
		cache:     cache,
		logger:    logger,
	}
}

// Create persists a record and returns its id.
// A record missing any field is rejected with *domain.ValidationError.
func (s *AssetService) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	if record == nil {
		return "", &domain.ValidationError{}
	}
	if err := record.CheckRequired(); err != nil {
		return "", err
	}

	id, err := s.assetRepo.Create(ctx, record)
	if err != nil {
		return "", &domain.StoreError{Op: "create", Err: err}
	}

	// the database already has the record; a cold cache only costs a lookup
	if err := s.cache.SetAsset(ctx, id, record); err != nil {
		s.logger.Warn("Failed to cache asset", "id", id, "error", err)
	}

	metrics.RecordAssetCreated()
	return id, nil
}

// Get returns the record stored under id, checking the cache first.
func (s *AssetService) Get(ctx context.Context, id string) (*domain.AssetRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.NotFoundError{ID: id}
	}

	cached, err := s.cache.GetAsset(ctx, id)
	if err != nil {
		s.logger.Warn("Asset cache lookup failed", "id", id, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	record, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StoreError{Op: "get", Err: err}
	}

	if err := s.cache.SetAsset(ctx, id, record); err != nil {
		s.logger.Warn("Failed to cache asset", "id", id, "error", err)
	}

	return record, nil
}

// RecordScan stores a scan event for a reference-mode code.
func (s *AssetService) RecordScan(ctx context.Context, assetID, ipAddress, userAgent, referer string) error {
	if s.scanRepo == nil {
		return nil
	}

	scan := domain.NewScanEvent(assetID, ipAddress, userAgent, referer)
	if err := s.scanRepo.Create(ctx, scan); err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}

	metrics.RecordScan()
	return nil
}

// ScanCount returns how many times the code for assetID was resolved.
func (s *AssetService) ScanCount(ctx context.Context, assetID string) (int64, error) {
	if s.scanRepo == nil {
		return 0, nil
	}
	return s.scanRepo.CountByAsset(ctx, assetID)
}

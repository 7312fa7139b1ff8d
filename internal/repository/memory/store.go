// Package memory keeps records in process memory. Nothing survives a
// restart, which is what local development and demos want.
package memory

import (
	"context"
	"sync"

	"asset-qr/internal/domain"
	"asset-qr/internal/repository"

	"github.com/google/uuid"
)

// Store holds assets and their scans behind one mutex.
type Store struct {
	mu     sync.Mutex
	assets map[string]domain.AssetRecord
	scans  map[string][]domain.ScanEvent
	nextID int64
}

func NewStore() *Store {
	return &Store{
		assets: make(map[string]domain.AssetRecord),
		scans:  make(map[string][]domain.ScanEvent),
	}
}

// Assets returns the store as an asset repository.
func (s *Store) Assets() repository.AssetRepository { return assetRepository{s} }

// Scans returns the store as a scan repository.
func (s *Store) Scans() repository.ScanRepository { return scanRepository{s} }

type assetRepository struct{ s *Store }

func (r assetRepository) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	id := uuid.New().String()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.assets[id] = *record
	return id, nil
}

func (r assetRepository) GetByID(ctx context.Context, id string) (*domain.AssetRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record, ok := r.s.assets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &record, nil
}

type scanRepository struct{ s *Store }

func (r scanRepository) Create(ctx context.Context, scan *domain.ScanEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assets[scan.AssetID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextID++
	scan.ID = r.s.nextID
	r.s.scans[scan.AssetID] = append(r.s.scans[scan.AssetID], *scan)
	return nil
}

func (r scanRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.scans[assetID])), nil
}

package service

import (
	"context"

	"asset-qr/internal/domain"
)

// RecordStore is the persistence API the encoder side composes with.
//
// Create fails with *domain.StoreError on any transport or server failure.
// Get fails with *domain.NotFoundError for an unknown id and with
// *domain.StoreError on transport failure.
//
// Implemented in-process by AssetService and remotely by storeclient.Client.
type RecordStore interface {
	Create(ctx context.Context, record *domain.AssetRecord) (string, error)
	Get(ctx context.Context, id string) (*domain.AssetRecord, error)
}

// Cache is a read-through cache in front of the asset repository.
type Cache interface {
	GetAsset(ctx context.Context, id string) (*domain.AssetRecord, error)
	SetAsset(ctx context.Context, id string, record *domain.AssetRecord) error
}

// NoopCache is used when Redis is disabled. Every lookup is a miss.
type NoopCache struct{}

func (NoopCache) GetAsset(context.Context, string) (*domain.AssetRecord, error) { return nil, nil }

func (NoopCache) SetAsset(context.Context, string, *domain.AssetRecord) error { return nil }

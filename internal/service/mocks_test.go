package service

import (
	"context"

	"asset-qr/internal/domain"

	"github.com/stretchr/testify/mock"
)

// ==================== MOCKS ====================

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id string) (*domain.AssetRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetRecord), args.Error(1)
}

type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) Create(ctx context.Context, scan *domain.ScanEvent) error {
	args := m.Called(ctx, scan)
	return args.Error(0)
}

func (m *MockScanRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetAsset(ctx context.Context, id string) (*domain.AssetRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetRecord), args.Error(1)
}

func (m *MockCache) SetAsset(ctx context.Context, id string, record *domain.AssetRecord) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockRecordStore) Get(ctx context.Context, id string) (*domain.AssetRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetRecord), args.Error(1)
}

// ==================== FIXTURES ====================

func scenarioRecord() *domain.AssetRecord {
	return &domain.AssetRecord{
		LaptopDetails:  "Dell XPS 13",
		SerialNumber:   "SN1234",
		EmployeeID:     "E001",
		ContactNumber:  "+1 (555) 123-4567",
		EmployeeEmail:  "a@b.com",
		SupportContact: "555-000-1111",
		CompanyLink:    "https://example.com",
		GeneratedAt:    "2024-01-01T00:00:00.000Z",
	}
}

func otherRecord() *domain.AssetRecord {
	r := scenarioRecord()
	r.LaptopDetails = "MacBook Air"
	r.SerialNumber = "C02XYZ"
	r.EmployeeID = "E999"
	return r
}

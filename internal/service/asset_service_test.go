package service

import (
	"context"
	"errors"
	"testing"

	"asset-qr/internal/domain"
	"asset-qr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssetServiceCreate_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	mockCache := new(MockCache)
	svc := NewAssetService(mockRepo, nil, mockCache, nil)
	record := scenarioRecord()

	mockRepo.On("Create", ctx, record).Return("asset-1", nil)
	mockCache.On("SetAsset", ctx, "asset-1", record).Return(nil)

	// Act
	id, err := svc.Create(ctx, record)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "asset-1", id)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAssetServiceCreate_MissingFields(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	svc := NewAssetService(mockRepo, nil, nil, nil)

	record := scenarioRecord()
	record.GeneratedAt = ""

	_, err := svc.Create(ctx, record)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"generatedAt"}, vErr.FieldNames())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssetServiceCreate_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	mockCache := new(MockCache)
	svc := NewAssetService(mockRepo, nil, mockCache, nil)

	mockRepo.On("Create", ctx, mock.Anything).Return("", errors.New("connection reset"))

	id, err := svc.Create(ctx, scenarioRecord())

	assert.Empty(t, id)
	var sErr *domain.StoreError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "create", sErr.Op)
	mockCache.AssertNotCalled(t, "SetAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssetServiceCreate_CacheFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	mockCache := new(MockCache)
	svc := NewAssetService(mockRepo, nil, mockCache, nil)

	mockRepo.On("Create", ctx, mock.Anything).Return("asset-1", nil)
	mockCache.On("SetAsset", ctx, "asset-1", mock.Anything).Return(errors.New("redis down"))

	id, err := svc.Create(ctx, scenarioRecord())

	require.NoError(t, err)
	assert.Equal(t, "asset-1", id)
}

func TestAssetServiceGet_CacheHit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	mockCache := new(MockCache)
	svc := NewAssetService(mockRepo, nil, mockCache, nil)
	record := scenarioRecord()

	mockCache.On("GetAsset", ctx, "asset-1").Return(record, nil)

	got, err := svc.Get(ctx, "asset-1")

	require.NoError(t, err)
	assert.Equal(t, record, got)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAssetServiceGet_CacheMiss_DatabaseHit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	mockCache := new(MockCache)
	svc := NewAssetService(mockRepo, nil, mockCache, nil)
	record := scenarioRecord()

	mockCache.On("GetAsset", ctx, "asset-1").Return(nil, nil)
	mockRepo.On("GetByID", ctx, "asset-1").Return(record, nil)
	mockCache.On("SetAsset", ctx, "asset-1", record).Return(nil)

	got, err := svc.Get(ctx, "asset-1")

	require.NoError(t, err)
	assert.Equal(t, record, got)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAssetServiceGet_CacheErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAssetRepository)
	mockCache := new(MockCache)
	svc := NewAssetService(mockRepo, nil, mockCache, nil)
	record := scenarioRecord()

	mockCache.On("GetAsset", ctx, "asset-1").Return(nil, errors.New("redis down"))
	mockRepo.On("GetByID", ctx, "asset-1").Return(record, nil)
	mockCache.On("SetAsset", ctx, "asset-1", record).Return(errors.New("redis down"))

	got, err := svc.Get(ctx, "asset-1")

	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestAssetServiceGet_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantKind string
	}{
		{"unknown id", "missing", repository.ErrNotFound, "not_found"},
		{"wrapped not found", "missing", errors.Join(errors.New("ctx"), repository.ErrNotFound), "not_found"},
		{"database failure", "asset-1", errors.New("timeout"), "store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockRepo := new(MockAssetRepository)
			svc := NewAssetService(mockRepo, nil, nil, nil)

			mockRepo.On("GetByID", ctx, tt.id).Return(nil, tt.repoErr)

			got, err := svc.Get(ctx, tt.id)

			assert.Nil(t, got)
			assert.Equal(t, tt.wantKind, domain.Kind(err))
		})
	}
}

func TestAssetServiceGet_BlankID(t *testing.T) {
	svc := NewAssetService(new(MockAssetRepository), nil, nil, nil)

	_, err := svc.Get(context.Background(), "  ")

	assert.Equal(t, "not_found", domain.Kind(err))
}

func TestAssetServiceRecordScan(t *testing.T) {
	ctx := context.Background()
	mockScans := new(MockScanRepository)
	svc := NewAssetService(new(MockAssetRepository), mockScans, nil, nil)

	mockScans.On("Create", ctx, mock.MatchedBy(func(s *domain.ScanEvent) bool {
		return s.AssetID == "asset-1" && s.IPAddress == "10.0.0.1" && !s.ScannedAt.IsZero()
	})).Return(nil)
	mockScans.On("CountByAsset", ctx, "asset-1").Return(int64(1), nil)

	require.NoError(t, svc.RecordScan(ctx, "asset-1", "10.0.0.1", "agent", ""))

	count, err := svc.ScanCount(ctx, "asset-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	mockScans.AssertExpectations(t)
}

func TestAssetServiceRecordScan_NoRepository(t *testing.T) {
	svc := NewAssetService(new(MockAssetRepository), nil, nil, nil)

	assert.NoError(t, svc.RecordScan(context.Background(), "asset-1", "", "", ""))
	count, err := svc.ScanCount(context.Background(), "asset-1")
	assert.NoError(t, err)
	assert.Zero(t, count)
}

package integration

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogSource is a mock implementation of integration.CatalogSource
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) Fetch(ctx context.Context, req integration.FetchRequest) integration.FetchResult {
	args := m.Called(ctx, req)
	return args.Get(0).(integration.FetchResult)
}

// MockSyncJobStore is a mock implementation of integration.SyncJobStore
type MockSyncJobStore struct {
	mock.Mock
}

func (m *MockSyncJobStore) Create(ctx context.Context, job *integration.SyncJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockSyncJobStore) Start(ctx context.Context, job *integration.SyncJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockSyncJobStore) UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error {
	args := m.Called(ctx, id, processed)
	return args.Error(0)
}

func (m *MockSyncJobStore) Finalize(ctx context.Context, job *integration.SyncJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockSyncJobStore) FindByID(ctx context.Context, id uuid.UUID) (*integration.SyncJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncJob), args.Error(1)
}

func (m *MockSyncJobStore) ListRecent(ctx context.Context, limit int) ([]integration.SyncJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.SyncJob), args.Error(1)
}

// MockProductStore is a mock implementation of catalog.ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductStore) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

func (m *MockProductStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMappingStore is a mock implementation of integration.MappingStore
type MockMappingStore struct {
	mock.Mock
}

func (m *MockMappingStore) UpsertMapping(ctx context.Context, mapping *integration.ProductMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingStore) FindByExternalID(ctx context.Context, externalID string) (*integration.ProductMapping, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductMapping), args.Error(1)
}

// MockSummaryStore is a mock implementation of integration.SummaryStore
type MockSummaryStore struct {
	mock.Mock
}

func (m *MockSummaryStore) Save(ctx context.Context, summary integration.SyncSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryStore) Latest(ctx context.Context) (*integration.SyncSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncSummary), args.Error(1)
}

func (m *MockSummaryStore) Close() error {
	return m.Called().Error(0)
}

var (
	_ integration.CatalogSource = (*MockCatalogSource)(nil)
	_ integration.SyncJobStore  = (*MockSyncJobStore)(nil)
	_ catalog.ProductStore      = (*MockProductStore)(nil)
	_ integration.MappingStore  = (*MockMappingStore)(nil)
	_ integration.SummaryStore  = (*MockSummaryStore)(nil)
)

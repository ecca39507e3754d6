package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockEmployeeRepository is a mock implementation of ports.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

var _ ports.EmployeeRepository = (*MockEmployeeRepository)(nil)

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{}
}

func (m *MockEmployeeRepository) GetByHashKey(ctx context.Context, hashKey string) (*domain.Employee, error) {
	args := m.Called(ctx, hashKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

// MockEmployeeCache is a mock implementation of ports.EmployeeCache
type MockEmployeeCache struct {
	mock.Mock
}

var _ ports.EmployeeCache = (*MockEmployeeCache)(nil)

func NewMockEmployeeCache() *MockEmployeeCache {
	return &MockEmployeeCache{}
}

func (m *MockEmployeeCache) Get(ctx context.Context, hashKey string) (*domain.Employee, error) {
	args := m.Called(ctx, hashKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeCache) Set(ctx context.Context, employee *domain.Employee, ttl time.Duration) error {
	args := m.Called(ctx, employee, ttl)
	return args.Error(0)
}

// MockLookupService is a mock implementation of ports.LookupService
type MockLookupService struct {
	mock.Mock
}

var _ ports.LookupService = (*MockLookupService)(nil)

func NewMockLookupService() *MockLookupService {
	return &MockLookupService{}
}

func (m *MockLookupService) Lookup(ctx context.Context, hashKey string) *domain.Employee {
	args := m.Called(ctx, hashKey)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Employee)
}

func (m *MockLookupService) FindByHashKey(ctx context.Context, hashKey string) (*domain.Employee, error) {
	args := m.Called(ctx, hashKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

// MockScanService is a mock implementation of ports.ScanService
type MockScanService struct {
	mock.Mock
}

var _ ports.ScanService = (*MockScanService)(nil)

func NewMockScanService() *MockScanService {
	return &MockScanService{}
}

func (m *MockScanService) Ingest(ctx context.Context, params ports.IngestScanParams) (*domain.ScanEvent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanEvent), args.Error(1)
}

func (m *MockScanService) Shutdown() {
	m.Called()
}

// MockEventBroadcaster records broadcast events. It is safe for use from the
// goroutines the scan service spawns.
type MockEventBroadcaster struct {
	mu     sync.Mutex
	events []domain.ScanEvent
	report domain.DeliveryReport
}

var _ ports.EventBroadcaster = (*MockEventBroadcaster)(nil)

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

// WithReport sets the report returned by Broadcast.
func (m *MockEventBroadcaster) WithReport(report domain.DeliveryReport) *MockEventBroadcaster {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.report = report
	return m
}

func (m *MockEventBroadcaster) Broadcast(ctx context.Context, event domain.ScanEvent) domain.DeliveryReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.report
}

// Events returns a copy of the broadcast events.
func (m *MockEventBroadcaster) Events() []domain.ScanEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ScanEvent(nil), m.events...)
}

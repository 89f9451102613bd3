// test/mock/stores.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// MockIntegrationStore is a mock implementation of service.IntegrationStore
type MockIntegrationStore struct {
	mock.Mock
}

func (m *MockIntegrationStore) CreateIntegration(ctx context.Context, integration model.Integration, userID string) (string, error) {
	args := m.Called(ctx, integration, userID)
	return args.String(0), args.Error(1)
}

func (m *MockIntegrationStore) UpdateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error) {
	args := m.Called(ctx, integration, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Integration), args.Error(1)
}

func (m *MockIntegrationStore) GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	args := m.Called(ctx, integrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Integration), args.Error(1)
}

func (m *MockIntegrationStore) ListIntegrations(ctx context.Context, limit int, offset int) ([]*model.Integration, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Integration), args.Error(1)
}

func (m *MockIntegrationStore) ListActiveIntegrations(ctx context.Context) ([]*model.Integration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Integration), args.Error(1)
}

func (m *MockIntegrationStore) FindActiveByCompany(ctx context.Context, companyID string) (*model.Integration, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Integration), args.Error(1)
}

func (m *MockIntegrationStore) UpdateSyncStatus(ctx context.Context, integrationID string, syncedAt time.Time, status model.SyncStatus, syncError string) error {
	args := m.Called(ctx, integrationID, syncedAt, status, syncError)
	return args.Error(0)
}

func (m *MockIntegrationStore) SetActive(ctx context.Context, integrationID string, active bool, userID string) error {
	args := m.Called(ctx, integrationID, active, userID)
	return args.Error(0)
}

// MockContractStore is a mock implementation of service.ContractStore
type MockContractStore struct {
	mock.Mock
}

func (m *MockContractStore) GetContract(ctx context.Context, contractID string) (*model.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractStore) ListActiveContractsByCompany(ctx context.Context, companyID string) ([]*model.Contract, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contract), args.Error(1)
}

// MockComplianceCheckStore is a mock implementation of service.ComplianceCheckStore
type MockComplianceCheckStore struct {
	mock.Mock
}

func (m *MockComplianceCheckStore) CreateCheck(ctx context.Context, check model.ComplianceCheck) (string, error) {
	args := m.Called(ctx, check)
	return args.String(0), args.Error(1)
}

func (m *MockComplianceCheckStore) GetLatestCheck(ctx context.Context, contractID, variableID string) (*model.ComplianceCheck, error) {
	args := m.Called(ctx, contractID, variableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ComplianceCheck), args.Error(1)
}

func (m *MockComplianceCheckStore) ListChecksForContract(ctx context.Context, contractID string, limit int, offset int) ([]*model.ComplianceCheck, error) {
	args := m.Called(ctx, contractID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ComplianceCheck), args.Error(1)
}

func (m *MockComplianceCheckStore) ListLatestForContract(ctx context.Context, contractID string) ([]*model.ComplianceCheck, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ComplianceCheck), args.Error(1)
}

// MockMasterVariableStore is a mock implementation of service.MasterVariableStore
type MockMasterVariableStore struct {
	mock.Mock
}

func (m *MockMasterVariableStore) UpsertMasterVariable(ctx context.Context, mv model.MasterVariable, userID string) (*model.MasterVariable, error) {
	args := m.Called(ctx, mv, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MasterVariable), args.Error(1)
}

func (m *MockMasterVariableStore) DeleteByMasterType(ctx context.Context, contractID string, masterType model.MasterType, userID string) error {
	args := m.Called(ctx, contractID, masterType, userID)
	return args.Error(0)
}

func (m *MockMasterVariableStore) GetByMasterType(ctx context.Context, contractID string, masterType model.MasterType) (*model.MasterVariable, error) {
	args := m.Called(ctx, contractID, masterType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MasterVariable), args.Error(1)
}

func (m *MockMasterVariableStore) ListByContract(ctx context.Context, contractID string) ([]*model.MasterVariable, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MasterVariable), args.Error(1)
}

// MockAdapterFactory is a mock implementation of service.AdapterFactory
type MockAdapterFactory struct {
	mock.Mock
}

func (m *MockAdapterFactory) CreateForIntegration(integration *model.Integration) (adapter.ERPAdapter, error) {
	args := m.Called(integration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(adapter.ERPAdapter), args.Error(1)
}

// MockIntegrationCache is a mock implementation of service.IntegrationCache
type MockIntegrationCache struct {
	mock.Mock
}

func (m *MockIntegrationCache) GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	args := m.Called(ctx, integrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Integration), args.Error(1)
}

func (m *MockIntegrationCache) SetIntegration(ctx context.Context, integration model.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationCache) DeleteIntegration(ctx context.Context, integrationID string) error {
	args := m.Called(ctx, integrationID)
	return args.Error(0)
}

// MockDateStatusCache is a mock implementation of service.DateStatusCache
type MockDateStatusCache struct {
	mock.Mock
}

func (m *MockDateStatusCache) GetContractDateStatus(ctx context.Context, contractID string) (*model.ContractDateStatus, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractDateStatus), args.Error(1)
}

func (m *MockDateStatusCache) SetContractDateStatus(ctx context.Context, status model.ContractDateStatus, ttl time.Duration) error {
	args := m.Called(ctx, status, ttl)
	return args.Error(0)
}

func (m *MockDateStatusCache) DeleteContractDateStatus(ctx context.Context, contractID string) error {
	args := m.Called(ctx, contractID)
	return args.Error(0)
}

// MockResourceLocker is a mock implementation of service.ResourceLocker
type MockResourceLocker struct {
	mock.Mock
}

func (m *MockResourceLocker) Lock(ctx context.Context, resourceName string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, resourceName, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockResourceLocker) Unlock(ctx context.Context, resourceName string) error {
	args := m.Called(ctx, resourceName)
	return args.Error(0)
}

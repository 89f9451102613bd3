// test/mock/adapter.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// MockERPAdapter is a mock implementation of adapter.ERPAdapter
type MockERPAdapter struct {
	mock.Mock
}

func (m *MockERPAdapter) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockERPAdapter) FetchData(ctx context.Context, contractID string, tracked []model.ContractVariable) (adapter.RawRecord, error) {
	args := m.Called(ctx, contractID, tracked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(adapter.RawRecord), args.Error(1)
}

func (m *MockERPAdapter) ExtractVariableValues(record adapter.RawRecord, tracked []model.ContractVariable) ([]adapter.ExtractedValue, error) {
	args := m.Called(record, tracked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]adapter.ExtractedValue), args.Error(1)
}

func (m *MockERPAdapter) TestConnection(ctx context.Context) (bool, string) {
	args := m.Called(ctx)
	return args.Bool(0), args.String(1)
}

func (m *MockERPAdapter) SourceType() model.ComplianceSource {
	args := m.Called()
	return args.Get(0).(model.ComplianceSource)
}

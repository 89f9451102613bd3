// service/sync_service_test.go
package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	"github.com/mehmetNetAx/papirai-sub001/compliance/engine"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/service"
	mock_store "github.com/mehmetNetAx/papirai-sub001/test/mock"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

func TestMain(m *testing.M) {
	logger.InitLogger(os.TempDir())
	os.Exit(m.Run())
}

type syncFixture struct {
	integrationStore *mock_store.MockIntegrationStore
	contractStore    *mock_store.MockContractStore
	checkStore       *mock_store.MockComplianceCheckStore
	factory          *mock_store.MockAdapterFactory
	cache            *mock_store.MockIntegrationCache
	locker           *mock_store.MockResourceLocker
	auditSvc         *mock_store.MockAuditService
	svc              *service.SyncService
}

func newSyncFixture(workers int) *syncFixture {
	f := &syncFixture{
		integrationStore: new(mock_store.MockIntegrationStore),
		contractStore:    new(mock_store.MockContractStore),
		checkStore:       new(mock_store.MockComplianceCheckStore),
		factory:          new(mock_store.MockAdapterFactory),
		cache:            new(mock_store.MockIntegrationCache),
		locker:           new(mock_store.MockResourceLocker),
		auditSvc:         new(mock_store.MockAuditService),
	}
	f.svc = service.NewSyncService(
		f.integrationStore,
		f.contractStore,
		f.checkStore,
		f.factory,
		engine.NewComplianceEvaluator(3),
		f.cache,
		f.locker,
		util.NewNotificationService(),
		util.NewEventBus(),
		f.auditSvc,
		workers,
		5*time.Second,
		time.Minute,
	)
	return f
}

func testIntegration() *model.Integration {
	return &model.Integration{
		ID:        "int-1",
		CompanyID: "comp-1",
		Name:      "Main ERP",
		Type:      model.IntegrationSAP,
		Active:    true,
	}
}

func testContract(id string) *model.Contract {
	return &model.Contract{
		ID:        id,
		CompanyID: "comp-1",
		Title:     "Contract " + id,
		Active:    true,
		Variables: []model.ContractVariable{
			{ID: id + "-v1", ContractID: id, Name: "contractValue", Type: model.VariableCurrency, Value: "1000", IsTracked: true},
			{ID: id + "-v2", ContractID: id, Name: "notes", Type: model.VariableText, Value: "internal", IsTracked: false},
		},
	}
}

func (f *syncFixture) expectLocking(integrationID string) {
	f.locker.On("Lock", mock.Anything, "sync:"+integrationID, mock.Anything).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, "sync:"+integrationID).Return(nil)
}

func TestRunIntegration(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()
		contracts := []*model.Contract{testContract("c1"), testContract("c2")}

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").Return(contracts, nil)
		f.expectLocking("int-1")

		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
		erpAdapter.On("SourceType").Return(model.SourceSAP)
		erpAdapter.On("FetchData", mock.Anything, mock.Anything, mock.Anything).
			Return(adapter.RawRecord{"totalAmount": 1000.0}, nil)
		erpAdapter.On("ExtractVariableValues", mock.Anything, mock.Anything).
			Return([]adapter.ExtractedValue{
				{VariableName: "contractValue", RawValue: 1000.0, SourceField: "totalAmount"},
			}, nil)

		f.checkStore.On("CreateCheck", mock.Anything, mock.Anything).Return("check-id", nil)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncSuccess, "").Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)
		f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.NoError(t, err)
		assert.Equal(t, model.SyncSuccess, result.Status)
		assert.Equal(t, 2, result.ContractsProcessed)
		assert.Equal(t, 0, result.ContractsFailed)
		assert.Equal(t, 2, result.ChecksCreated)

		f.integrationStore.AssertExpectations(t)
		f.checkStore.AssertNumberOfCalls(t, "CreateCheck", 2)
	})

	t.Run("OneContractFailingDoesNotStopTheRest", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()

		contracts := make([]*model.Contract, 0, 10)
		for i := 1; i <= 10; i++ {
			contracts = append(contracts, testContract(fmt.Sprintf("c%d", i)))
		}

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").Return(contracts, nil)
		f.expectLocking("int-1")

		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
		erpAdapter.On("SourceType").Return(model.SourceSAP)
		erpAdapter.On("FetchData", mock.Anything, "c4", mock.Anything).
			Return(nil, papirai_errors.ErrFetchFailed)
		erpAdapter.On("FetchData", mock.Anything, mock.Anything, mock.Anything).
			Return(adapter.RawRecord{"totalAmount": 1000.0}, nil)
		erpAdapter.On("ExtractVariableValues", mock.Anything, mock.Anything).
			Return([]adapter.ExtractedValue{
				{VariableName: "contractValue", RawValue: 1000.0, SourceField: "totalAmount"},
			}, nil)

		f.checkStore.On("CreateCheck", mock.Anything, mock.Anything).Return("check-id", nil)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncError,
			mock.MatchedBy(func(msg string) bool { return msg != "" })).Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)
		f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.NoError(t, err)
		assert.Equal(t, model.SyncError, result.Status)
		assert.Equal(t, 9, result.ContractsProcessed)
		assert.Equal(t, 1, result.ContractsFailed)
		assert.Equal(t, 9, result.ChecksCreated)
		assert.Contains(t, result.Error, "c4")

		f.checkStore.AssertNumberOfCalls(t, "CreateCheck", 9)
	})

	t.Run("ContractWithNoTrackedVariables", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()
		contract := testContract("c1")
		for i := range contract.Variables {
			contract.Variables[i].IsTracked = false
		}

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").
			Return([]*model.Contract{contract}, nil)
		f.expectLocking("int-1")

		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)

		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncSuccess, "").Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)
		f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.NoError(t, err)
		assert.Equal(t, model.SyncSuccess, result.Status)
		assert.Equal(t, 1, result.NoTrackedVariables)
		assert.Equal(t, 0, result.ChecksCreated)

		// No fetch should happen for a contract with nothing to verify
		erpAdapter.AssertNotCalled(t, "FetchData", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnextractedTrackedVariableIsRecordedPending", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()
		contract := testContract("c1")

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").
			Return([]*model.Contract{contract}, nil)
		f.expectLocking("int-1")

		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
		erpAdapter.On("SourceType").Return(model.SourceSAP)
		erpAdapter.On("FetchData", mock.Anything, mock.Anything, mock.Anything).
			Return(adapter.RawRecord{"unrelated": true}, nil)
		// Extraction finds nothing for the tracked variable
		erpAdapter.On("ExtractVariableValues", mock.Anything, mock.Anything).
			Return([]adapter.ExtractedValue{}, nil)

		var created []model.ComplianceCheck
		f.checkStore.On("CreateCheck", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(model.ComplianceCheck))
			}).
			Return("check-id", nil)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncSuccess, "").Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)
		f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, result.ChecksCreated)
		if assert.Len(t, created, 1) {
			assert.Equal(t, model.StatusPending, created[0].Status)
			assert.Equal(t, "contractValue", created[0].VariableName)
			assert.Equal(t, "c1", created[0].ContractID)
		}
	})

	t.Run("InactiveIntegration", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()
		integration.Active = false

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)

		_, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrNoActiveIntegration)
	})

	t.Run("LockHeldElsewhere", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.locker.On("Lock", mock.Anything, "sync:int-1", mock.Anything).Return(false, nil)

		_, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrSyncInProgress)
	})

	t.Run("UnsupportedTypePersistsErrorStatus", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()
		integration.Type = "oracle"

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.expectLocking("int-1")
		f.factory.On("CreateForIntegration", integration).
			Return(nil, papirai_errors.ErrUnsupportedIntegrationType)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncError,
			mock.MatchedBy(func(msg string) bool { return msg != "" })).Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)

		_, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrUnsupportedIntegrationType)

		// The failed run must land on the integration record, not just in
		// the returned error
		f.integrationStore.AssertExpectations(t)
	})

	t.Run("ContractListFailurePersistsErrorStatus", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()

		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.expectLocking("int-1")
		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
		f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").
			Return(nil, papirai_errors.ErrDatabaseOperation)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncError,
			mock.MatchedBy(func(msg string) bool { return msg != "" })).Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)

		_, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
		assert.Error(t, err)

		f.integrationStore.AssertExpectations(t)
	})
}

func TestRunForContract(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newSyncFixture(2)
		integration := testIntegration()
		contract := testContract("c1")

		f.contractStore.On("GetContract", mock.Anything, "c1").Return(contract, nil)
		f.integrationStore.On("FindActiveByCompany", mock.Anything, "comp-1").Return(integration, nil)

		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
		erpAdapter.On("SourceType").Return(model.SourceSAP)
		erpAdapter.On("FetchData", mock.Anything, "c1", mock.Anything).
			Return(adapter.RawRecord{"totalAmount": 1150.0}, nil)
		erpAdapter.On("ExtractVariableValues", mock.Anything, mock.Anything).
			Return([]adapter.ExtractedValue{
				{VariableName: "contractValue", RawValue: 1150.0, SourceField: "totalAmount"},
			}, nil)

		var created []model.ComplianceCheck
		f.checkStore.On("CreateCheck", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(model.ComplianceCheck))
			}).
			Return("check-id", nil)
		f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.RunForContract(context.Background(), "c1", "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, result.ChecksCreated)
		if assert.Len(t, created, 1) {
			assert.Equal(t, model.StatusNonCompliant, created[0].Status)
			assert.Equal(t, model.AlertHigh, created[0].AlertLevel)
		}

		// On-demand runs never touch the integration's sync bookkeeping
		f.integrationStore.AssertNotCalled(t, "UpdateSyncStatus",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoActiveIntegration", func(t *testing.T) {
		f := newSyncFixture(2)
		contract := testContract("c1")

		f.contractStore.On("GetContract", mock.Anything, "c1").Return(contract, nil)
		f.integrationStore.On("FindActiveByCompany", mock.Anything, "comp-1").
			Return(nil, papirai_errors.ErrNoActiveIntegration)

		_, err := f.svc.RunForContract(context.Background(), "c1", "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrNoActiveIntegration)
	})
}

func TestRunAll(t *testing.T) {
	t.Run("FailureIsolationAcrossIntegrations", func(t *testing.T) {
		f := newSyncFixture(4)

		healthy := testIntegration()
		broken := &model.Integration{ID: "int-2", CompanyID: "comp-2", Name: "Broken ERP", Type: model.IntegrationLogo, Active: true}

		f.integrationStore.On("ListActiveIntegrations", mock.Anything).
			Return([]*model.Integration{healthy, broken}, nil)

		// Healthy integration completes an empty run
		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(healthy, nil)
		f.expectLocking("int-1")
		erpAdapter := new(mock_store.MockERPAdapter)
		f.factory.On("CreateForIntegration", healthy).Return(erpAdapter, nil)
		f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").
			Return([]*model.Contract{}, nil)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncSuccess, "").Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)
		f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

		// Broken integration cannot even be loaded
		f.integrationStore.On("GetIntegration", mock.Anything, "int-2").
			Return(nil, papirai_errors.ErrDatabaseOperation)

		batch, err := f.svc.RunAll(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 2, batch.Total)
		assert.Equal(t, 1, batch.Succeeded)
		assert.Equal(t, 1, batch.Failed)
	})

	t.Run("FactoryFailureIsRecordedOnTheIntegration", func(t *testing.T) {
		f := newSyncFixture(4)
		integration := testIntegration()
		integration.Type = "oracle"

		f.integrationStore.On("ListActiveIntegrations", mock.Anything).
			Return([]*model.Integration{integration}, nil)
		f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
		f.expectLocking("int-1")
		f.factory.On("CreateForIntegration", integration).
			Return(nil, papirai_errors.ErrUnsupportedIntegrationType)
		f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncError,
			mock.MatchedBy(func(msg string) bool { return msg != "" })).Return(nil)
		f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)

		batch, err := f.svc.RunAll(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, batch.Failed)

		f.integrationStore.AssertCalled(t, "UpdateSyncStatus",
			mock.Anything, "int-1", mock.Anything, model.SyncError,
			mock.MatchedBy(func(msg string) bool { return msg != "" }))
	})

	t.Run("NoActiveIntegrations", func(t *testing.T) {
		f := newSyncFixture(4)
		f.integrationStore.On("ListActiveIntegrations", mock.Anything).
			Return([]*model.Integration{}, nil)

		batch, err := f.svc.RunAll(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.Equal(t, 0, batch.Total)
	})
}

func TestTestIntegration(t *testing.T) {
	f := newSyncFixture(2)
	integration := testIntegration()

	f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
	erpAdapter := new(mock_store.MockERPAdapter)
	f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
	erpAdapter.On("TestConnection", mock.Anything).Return(true, "connection to sap established")

	ok, message, err := f.svc.TestIntegration(context.Background(), "int-1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, message, "sap")
}

// Two concurrent runs of the same integration must not interleave: the
// second caller either waits on the redis lock or is turned away.
func TestRunIntegrationSerialization(t *testing.T) {
	f := newSyncFixture(2)
	integration := testIntegration()

	f.integrationStore.On("GetIntegration", mock.Anything, "int-1").Return(integration, nil)
	f.contractStore.On("ListActiveContractsByCompany", mock.Anything, "comp-1").
		Return([]*model.Contract{}, nil)

	locked := false
	f.locker.On("Lock", mock.Anything, "sync:int-1", mock.Anything).
		Return(true, nil).
		Run(func(args mock.Arguments) {
			if locked {
				// The keyed mutex must prevent a second concurrent lock call
				panic("concurrent sync run acquired the lock twice")
			}
			locked = true
		})
	f.locker.On("Unlock", mock.Anything, "sync:int-1").
		Return(nil).
		Run(func(args mock.Arguments) { locked = false })

	erpAdapter := new(mock_store.MockERPAdapter)
	f.factory.On("CreateForIntegration", integration).Return(erpAdapter, nil)
	f.integrationStore.On("UpdateSyncStatus", mock.Anything, "int-1", mock.Anything, model.SyncSuccess, "").Return(nil)
	f.cache.On("DeleteIntegration", mock.Anything, "int-1").Return(nil)
	f.auditSvc.On("LogAction", mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.RunIntegration(context.Background(), "int-1", "user-1")
			done <- err
		}()
	}

	for i := 0; i < 2; i++ {
		err := <-done
		if err != nil {
			assert.True(t, errors.Is(err, papirai_errors.ErrSyncInProgress))
		}
	}
}

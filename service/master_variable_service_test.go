// service/master_variable_service_test.go
package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	"github.com/mehmetNetAx/papirai-sub001/model"
	"github.com/mehmetNetAx/papirai-sub001/service"
	mock_store "github.com/mehmetNetAx/papirai-sub001/test/mock"
	"github.com/mehmetNetAx/papirai-sub001/util"
)

type masterVariableFixture struct {
	masterStore   *mock_store.MockMasterVariableStore
	contractStore *mock_store.MockContractStore
	cache         *mock_store.MockDateStatusCache
	svc           *service.MasterVariableService
}

func newMasterVariableFixture() *masterVariableFixture {
	f := &masterVariableFixture{
		masterStore:   new(mock_store.MockMasterVariableStore),
		contractStore: new(mock_store.MockContractStore),
		cache:         new(mock_store.MockDateStatusCache),
	}
	f.svc = service.NewMasterVariableService(
		f.masterStore,
		f.contractStore,
		util.NewValidationUtil(),
		f.cache,
		30,
		7,
		15*time.Minute,
	)
	return f
}

func masterVar(masterType model.MasterType, varType model.VariableType, value string) model.MasterVariable {
	return model.MasterVariable{
		ContractID: "c1",
		MasterType: masterType,
		Name:       string(masterType),
		Type:       varType,
		Value:      value,
		IsActive:   true,
	}
}

func TestSetMasterVariable(t *testing.T) {
	t.Run("DeadlineDerivedFromEndDateAndPeriod", func(t *testing.T) {
		f := newMasterVariableFixture()
		endDate := masterVar(model.MasterEndDate, model.VariableDate, "2025-06-30")
		period := masterVar(model.MasterTerminationPeriod, model.VariableNumber, "30")

		f.contractStore.On("GetContract", mock.Anything, "c1").Return(&model.Contract{ID: "c1"}, nil)
		f.masterStore.On("UpsertMasterVariable", mock.Anything, mock.Anything, "user-1").
			Return(&endDate, nil)
		f.masterStore.On("GetByMasterType", mock.Anything, "c1", model.MasterEndDate).Return(&endDate, nil)
		f.masterStore.On("GetByMasterType", mock.Anything, "c1", model.MasterTerminationPeriod).Return(&period, nil)
		f.cache.On("DeleteContractDateStatus", mock.Anything, "c1").Return(nil)

		_, err := f.svc.SetMasterVariable(context.Background(), endDate, "user-1")
		assert.NoError(t, err)
		_, err = f.svc.SetMasterVariable(context.Background(), period, "user-1")
		assert.NoError(t, err)

		// 2025-06-30 minus 30 days is 2025-05-31
		derived := false
		for _, call := range f.masterStore.Calls {
			if call.Method != "UpsertMasterVariable" {
				continue
			}
			mv := call.Arguments.Get(1).(model.MasterVariable)
			if mv.MasterType == model.MasterTerminationDeadline {
				derived = true
				assert.Equal(t, "2025-05-31", mv.Value)
				assert.Equal(t, model.VariableDate, mv.Type)
			}
		}
		assert.True(t, derived, "termination deadline was never written")
	})

	t.Run("DirectSetOfDeadlineRejected", func(t *testing.T) {
		f := newMasterVariableFixture()
		mv := masterVar(model.MasterTerminationDeadline, model.VariableDate, "2025-05-31")

		_, err := f.svc.SetMasterVariable(context.Background(), mv, "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrDerivedFieldImmutable)
		f.masterStore.AssertNotCalled(t, "UpsertMasterVariable", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownMasterTypeRejected", func(t *testing.T) {
		f := newMasterVariableFixture()
		mv := masterVar("somethingElse", model.VariableText, "x")

		_, err := f.svc.SetMasterVariable(context.Background(), mv, "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrInvalidMasterType)
	})

	t.Run("MissingPeriodRemovesDerivedDeadline", func(t *testing.T) {
		f := newMasterVariableFixture()
		endDate := masterVar(model.MasterEndDate, model.VariableDate, "2025-06-30")

		f.contractStore.On("GetContract", mock.Anything, "c1").Return(&model.Contract{ID: "c1"}, nil)
		f.masterStore.On("UpsertMasterVariable", mock.Anything, mock.Anything, "user-1").
			Return(&endDate, nil)
		f.masterStore.On("GetByMasterType", mock.Anything, "c1", model.MasterEndDate).Return(&endDate, nil)
		f.masterStore.On("GetByMasterType", mock.Anything, "c1", model.MasterTerminationPeriod).
			Return(nil, papirai_errors.ErrMasterVariableNotFound)
		f.masterStore.On("DeleteByMasterType", mock.Anything, "c1", model.MasterTerminationDeadline, "user-1").
			Return(papirai_errors.ErrMasterVariableNotFound)
		f.cache.On("DeleteContractDateStatus", mock.Anything, "c1").Return(nil)

		_, err := f.svc.SetMasterVariable(context.Background(), endDate, "user-1")
		assert.NoError(t, err)
		f.masterStore.AssertCalled(t, "DeleteByMasterType", mock.Anything, "c1", model.MasterTerminationDeadline, "user-1")
	})
}

func TestUnsetMasterVariable(t *testing.T) {
	t.Run("UnsetEndDateRemovesDerivedDeadline", func(t *testing.T) {
		f := newMasterVariableFixture()

		f.masterStore.On("DeleteByMasterType", mock.Anything, "c1", model.MasterEndDate, "user-1").Return(nil)
		f.masterStore.On("GetByMasterType", mock.Anything, "c1", model.MasterEndDate).
			Return(nil, papirai_errors.ErrMasterVariableNotFound)
		period := masterVar(model.MasterTerminationPeriod, model.VariableNumber, "30")
		f.masterStore.On("GetByMasterType", mock.Anything, "c1", model.MasterTerminationPeriod).Return(&period, nil)
		f.masterStore.On("DeleteByMasterType", mock.Anything, "c1", model.MasterTerminationDeadline, "user-1").Return(nil)
		f.cache.On("DeleteContractDateStatus", mock.Anything, "c1").Return(nil)

		err := f.svc.UnsetMasterVariable(context.Background(), "c1", model.MasterEndDate, "user-1")
		assert.NoError(t, err)
		f.masterStore.AssertCalled(t, "DeleteByMasterType", mock.Anything, "c1", model.MasterTerminationDeadline, "user-1")
	})

	t.Run("DirectUnsetOfDeadlineRejected", func(t *testing.T) {
		f := newMasterVariableFixture()

		err := f.svc.UnsetMasterVariable(context.Background(), "c1", model.MasterTerminationDeadline, "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrDerivedFieldImmutable)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newMasterVariableFixture()

		f.masterStore.On("DeleteByMasterType", mock.Anything, "c1", model.MasterCurrency, "user-1").
			Return(papirai_errors.ErrMasterVariableNotFound)

		err := f.svc.UnsetMasterVariable(context.Background(), "c1", model.MasterCurrency, "user-1")
		assert.ErrorIs(t, err, papirai_errors.ErrMasterVariableNotFound)
	})
}

func TestContractDateStatus(t *testing.T) {
	t.Run("ClassifiesDateBearingVariables", func(t *testing.T) {
		f := newMasterVariableFixture()

		soon := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")
		farOut := time.Now().UTC().AddDate(0, 0, 90).Format("2006-01-02")

		endDate := masterVar(model.MasterEndDate, model.VariableDate, soon)
		renewal := masterVar(model.MasterRenewalDate, model.VariableDate, farOut)
		currency := masterVar(model.MasterCurrency, model.VariableText, "TRY")

		f.cache.On("GetContractDateStatus", mock.Anything, "c1").Return(nil, nil)
		f.masterStore.On("ListByContract", mock.Anything, "c1").
			Return([]*model.MasterVariable{&endDate, &renewal, &currency}, nil)
		f.cache.On("SetContractDateStatus", mock.Anything, mock.Anything, 15*time.Minute).Return(nil)

		status, err := f.svc.ContractDateStatus(context.Background(), "c1")
		assert.NoError(t, err)
		assert.Equal(t, model.DateCritical, status.Overall)
		assert.Len(t, status.Dates, 2, "non-date master variables must not be classified")
	})

	t.Run("ServedFromCache", func(t *testing.T) {
		f := newMasterVariableFixture()
		cached := &model.ContractDateStatus{ContractID: "c1", Overall: model.DateWarning}

		f.cache.On("GetContractDateStatus", mock.Anything, "c1").Return(cached, nil)

		status, err := f.svc.ContractDateStatus(context.Background(), "c1")
		assert.NoError(t, err)
		assert.Equal(t, model.DateWarning, status.Overall)
		f.masterStore.AssertNotCalled(t, "ListByContract", mock.Anything, mock.Anything)
	})

	t.Run("NoDatesIsNormal", func(t *testing.T) {
		f := newMasterVariableFixture()

		f.cache.On("GetContractDateStatus", mock.Anything, "c1").Return(nil, nil)
		f.masterStore.On("ListByContract", mock.Anything, "c1").Return([]*model.MasterVariable{}, nil)
		f.cache.On("SetContractDateStatus", mock.Anything, mock.Anything, 15*time.Minute).Return(nil)

		status, err := f.svc.ContractDateStatus(context.Background(), "c1")
		assert.NoError(t, err)
		assert.Equal(t, model.DateNormal, status.Overall)
		assert.Empty(t, status.Dates)
	})
}

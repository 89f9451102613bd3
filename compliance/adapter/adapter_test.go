// compliance/adapter/adapter_test.go
package adapter_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

func TestMain(m *testing.M) {
	logger.InitLogger(os.TempDir())
	os.Exit(m.Run())
}

func trackedVariables() []model.ContractVariable {
	return []model.ContractVariable{
		{ID: "v1", ContractID: "c1", Name: "contractValue", Type: model.VariableCurrency, Value: "1000", IsTracked: true},
		{ID: "v2", ContractID: "c1", Name: "currency", Type: model.VariableText, Value: "TRY", IsTracked: true},
		{ID: "v3", ContractID: "c1", Name: "endDate", Type: model.VariableDate, Value: "2025-06-30", IsTracked: true},
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := adapter.NewFactory()

	t.Run("KnownFamilies", func(t *testing.T) {
		expected := map[model.IntegrationType]model.ComplianceSource{
			model.IntegrationSAP:    model.SourceSAP,
			model.IntegrationNebim:  model.SourceNebim,
			model.IntegrationLogo:   model.SourceLogo,
			model.IntegrationNetsis: model.SourceNetsis,
		}
		for integrationType, source := range expected {
			erpAdapter, err := factory.Create(integrationType, model.ConnectionConfig{}, nil)
			assert.NoError(t, err)
			assert.Equal(t, source, erpAdapter.SourceType())
		}
	})

	t.Run("UnknownFamily", func(t *testing.T) {
		_, err := factory.Create("oracle", model.ConnectionConfig{}, nil)
		assert.ErrorIs(t, err, papirai_errors.ErrUnsupportedIntegrationType)
	})

	t.Run("FromIntegration", func(t *testing.T) {
		integration := &model.Integration{Type: model.IntegrationSAP}
		erpAdapter, err := factory.CreateForIntegration(integration)
		assert.NoError(t, err)
		assert.Equal(t, model.SourceSAP, erpAdapter.SourceType())
	})
}

func TestSimulatedFetchAndExtract(t *testing.T) {
	factory := adapter.NewFactory()
	tracked := trackedVariables()

	for _, integrationType := range []model.IntegrationType{
		model.IntegrationSAP,
		model.IntegrationNebim,
		model.IntegrationLogo,
		model.IntegrationNetsis,
	} {
		t.Run(string(integrationType), func(t *testing.T) {
			erpAdapter, err := factory.Create(integrationType, model.ConnectionConfig{}, nil)
			assert.NoError(t, err)

			record, err := erpAdapter.FetchData(context.Background(), "contract-1", tracked)
			assert.NoError(t, err)
			assert.NotEmpty(t, record)

			extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
			assert.NoError(t, err)
			assert.Len(t, extracted, len(tracked))

			byName := make(map[string]adapter.ExtractedValue)
			for _, ev := range extracted {
				byName[ev.VariableName] = ev
			}
			assert.Contains(t, byName, "contractValue")
			assert.Contains(t, byName, "currency")
			assert.Contains(t, byName, "endDate")
			assert.Equal(t, "TRY", byName["currency"].RawValue)
		})
	}
}

// Repeated fetches for the same contract must produce identical records, or
// the same contract would flap between statuses across sync runs.
func TestSimulatedFetchIsDeterministic(t *testing.T) {
	factory := adapter.NewFactory()
	tracked := trackedVariables()

	erpAdapter, err := factory.Create(model.IntegrationSAP, model.ConnectionConfig{}, nil)
	assert.NoError(t, err)

	first, err := erpAdapter.FetchData(context.Background(), "contract-1", tracked)
	assert.NoError(t, err)
	second, err := erpAdapter.FetchData(context.Background(), "contract-1", tracked)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractVariableValues(t *testing.T) {
	factory := adapter.NewFactory()

	t.Run("AliasResolution", func(t *testing.T) {
		// The variable is named "contractValue"; the Netsis record spells the
		// field GENELTOPLAM. The family alias table must bridge the two.
		erpAdapter, err := factory.Create(model.IntegrationNetsis, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		record := adapter.RawRecord{"GENELTOPLAM": 1070.0}
		tracked := []model.ContractVariable{
			{ID: "v1", Name: "contractValue", Type: model.VariableCurrency, Value: "1000", IsTracked: true},
		}

		extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
		assert.NoError(t, err)
		if assert.Len(t, extracted, 1) {
			assert.Equal(t, "contractValue", extracted[0].VariableName)
			assert.Equal(t, 1070.0, extracted[0].RawValue)
			assert.Equal(t, "GENELTOPLAM", extracted[0].SourceField)
		}
	})

	t.Run("MappingOverridesAliases", func(t *testing.T) {
		mapping := map[string]string{"myPrice": "NETTOTAL"}
		erpAdapter, err := factory.Create(model.IntegrationLogo, model.ConnectionConfig{}, mapping)
		assert.NoError(t, err)

		record := adapter.RawRecord{"NETTOTAL": 500.0}
		tracked := []model.ContractVariable{
			{ID: "v1", Name: "myPrice", Type: model.VariableCurrency, Value: "500", IsTracked: true},
		}

		extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
		assert.NoError(t, err)
		if assert.Len(t, extracted, 1) {
			assert.Equal(t, 500.0, extracted[0].RawValue)
		}
	})

	t.Run("MissingFieldIsOmittedNotErrored", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationSAP, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		record := adapter.RawRecord{"totalAmount": 1000.0}
		tracked := []model.ContractVariable{
			{ID: "v1", Name: "contractValue", Type: model.VariableCurrency, Value: "1000", IsTracked: true},
			{ID: "v2", Name: "warrantyMonths", Type: model.VariableNumber, Value: "24", IsTracked: true},
		}

		extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
		assert.NoError(t, err)
		if assert.Len(t, extracted, 1) {
			assert.Equal(t, "contractValue", extracted[0].VariableName)
		}
	})

	t.Run("NestedLineItems", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationNebim, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		record := adapter.RawRecord{
			"belge_no": "NBM-1",
			"satirlar": []interface{}{
				map[string]interface{}{"toplam_tutar": 950.0},
			},
		}
		tracked := []model.ContractVariable{
			{ID: "v1", Name: "contractValue", Type: model.VariableCurrency, Value: "1000", IsTracked: true},
		}

		extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
		assert.NoError(t, err)
		if assert.Len(t, extracted, 1) {
			assert.Equal(t, 950.0, extracted[0].RawValue)
		}
	})

	t.Run("TopLevelWinsOverNested", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationNebim, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		record := adapter.RawRecord{
			"toplam_tutar": 1000.0,
			"satirlar": []interface{}{
				map[string]interface{}{"toplam_tutar": 1.0},
			},
		}
		tracked := []model.ContractVariable{
			{ID: "v1", Name: "contractValue", Type: model.VariableCurrency, Value: "1000", IsTracked: true},
		}

		extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
		assert.NoError(t, err)
		if assert.Len(t, extracted, 1) {
			assert.Equal(t, 1000.0, extracted[0].RawValue)
		}
	})
}

// A variable name matching more than one vocabulary entry must resolve to
// the same record field on every call, or the same contract would flap
// between compliant and non-compliant across syncs of identical data.
func TestAmbiguousFieldResolution(t *testing.T) {
	factory := adapter.NewFactory()

	// In the Logo vocabulary "amount" is both the canonical AMOUNT field and
	// an alias of NETTOTAL.
	record := adapter.RawRecord{"NETTOTAL": 5000.0, "AMOUNT": 12.0}

	t.Run("CanonicalMatchWinsOverAlias", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationLogo, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		tracked := []model.ContractVariable{
			{ID: "v1", Name: "amount", Type: model.VariableNumber, Value: "12", IsTracked: true},
		}

		for i := 0; i < 100; i++ {
			extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
			assert.NoError(t, err)
			if assert.Len(t, extracted, 1) {
				assert.Equal(t, "AMOUNT", extracted[0].SourceField)
				assert.Equal(t, 12.0, extracted[0].RawValue)
			}
		}
	})

	t.Run("PlainAliasStillResolves", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationLogo, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		// "price" is only an alias, declared under NETTOTAL.
		tracked := []model.ContractVariable{
			{ID: "v1", Name: "price", Type: model.VariableCurrency, Value: "5000", IsTracked: true},
		}

		for i := 0; i < 100; i++ {
			extracted, err := erpAdapter.ExtractVariableValues(record, tracked)
			assert.NoError(t, err)
			if assert.Len(t, extracted, 1) {
				assert.Equal(t, "NETTOTAL", extracted[0].SourceField)
				assert.Equal(t, 5000.0, extracted[0].RawValue)
			}
		}
	})

	t.Run("FetchAndExtractAgree", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationLogo, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		tracked := []model.ContractVariable{
			{ID: "v1", Name: "amount", Type: model.VariableNumber, Value: "100", IsTracked: true},
		}

		fetched, err := erpAdapter.FetchData(context.Background(), "contract-1", tracked)
		assert.NoError(t, err)

		extracted, err := erpAdapter.ExtractVariableValues(fetched, tracked)
		assert.NoError(t, err)
		if assert.Len(t, extracted, 1) {
			assert.Equal(t, "AMOUNT", extracted[0].SourceField)
			assert.NotNil(t, extracted[0].RawValue)
		}
	})
}

func TestTestConnection(t *testing.T) {
	factory := adapter.NewFactory()

	t.Run("SimulatedAlwaysSucceeds", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationSAP, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		ok, message := erpAdapter.TestConnection(context.Background())
		assert.True(t, ok)
		assert.NotEmpty(t, message)
	})

	t.Run("CancelledContextReportsFailure", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationLogo, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ok, message := erpAdapter.TestConnection(ctx)
		assert.False(t, ok)
		assert.NotEmpty(t, message)
	})
}

func TestFetchDataErrors(t *testing.T) {
	factory := adapter.NewFactory()

	t.Run("CancelledContext", func(t *testing.T) {
		erpAdapter, err := factory.Create(model.IntegrationSAP, model.ConnectionConfig{}, nil)
		assert.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = erpAdapter.FetchData(ctx, "contract-1", trackedVariables())
		assert.Error(t, err)
		assert.True(t,
			errors.Is(err, papirai_errors.ErrConnectionFailed) || errors.Is(err, papirai_errors.ErrFetchFailed))
	})
}

// compliance/adapter/factory.go
package adapter

import (
	"fmt"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// families binds each integration type tag to its vocabulary and simulated
// fetch strategy. This is the closed set of known adapter families.
var families = map[model.IntegrationType]func(config model.ConnectionConfig, mapping map[string]string) ERPAdapter{
	model.IntegrationSAP: func(config model.ConnectionConfig, mapping map[string]string) ERPAdapter {
		return newGenericAdapter(sapVocabulary, config, mapping, &simulatedStrategy{
			vocab:    sapVocabulary,
			shape:    shapeFlat,
			metadata: sapMetadata,
		})
	},
	model.IntegrationNebim: func(config model.ConnectionConfig, mapping map[string]string) ERPAdapter {
		return newGenericAdapter(nebimVocabulary, config, mapping, &simulatedStrategy{
			vocab:    nebimVocabulary,
			shape:    shapeNested,
			lineKey:  "satirlar",
			metadata: nebimMetadata,
		})
	},
	model.IntegrationLogo: func(config model.ConnectionConfig, mapping map[string]string) ERPAdapter {
		return newGenericAdapter(logoVocabulary, config, mapping, &simulatedStrategy{
			vocab:    logoVocabulary,
			shape:    shapeFlat,
			metadata: logoMetadata,
		})
	},
	model.IntegrationNetsis: func(config model.ConnectionConfig, mapping map[string]string) ERPAdapter {
		return newGenericAdapter(netsisVocabulary, config, mapping, &simulatedStrategy{
			vocab:    netsisVocabulary,
			shape:    shapeNested,
			lineKey:  "KALEMLER",
			metadata: netsisMetadata,
		})
	},
}

// Factory constructs adapters from integration records. Pure construction,
// no I/O.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create builds the adapter for an integration type. An unknown type tag is
// misconfiguration and fails immediately with ErrUnsupportedIntegrationType.
func (f *Factory) Create(integrationType model.IntegrationType, config model.ConnectionConfig, mapping map[string]string) (ERPAdapter, error) {
	build, ok := families[integrationType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", papirai_errors.ErrUnsupportedIntegrationType, integrationType)
	}
	return build(config, mapping), nil
}

// CreateForIntegration is a convenience wrapper over Create.
func (f *Factory) CreateForIntegration(integration *model.Integration) (ERPAdapter, error) {
	return f.Create(integration.Type, integration.Config, integration.VariableMapping)
}

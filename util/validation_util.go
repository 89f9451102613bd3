// util/validation_util.go

package util

import (
	"fmt"

	"github.com/mehmetNetAx/papirai-sub001/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateIntegration(integration model.Integration) error {
	if integration.Name == "" {
		return fmt.Errorf("integration name cannot be empty")
	}
	if integration.CompanyID == "" {
		return fmt.Errorf("integration company ID cannot be empty")
	}
	switch integration.Type {
	case model.IntegrationSAP, model.IntegrationNebim, model.IntegrationLogo, model.IntegrationNetsis:
	default:
		return fmt.Errorf("unknown integration type: %s", integration.Type)
	}
	for variable, field := range integration.VariableMapping {
		if variable == "" {
			return fmt.Errorf("variable mapping key cannot be empty")
		}
		if field == "" {
			return fmt.Errorf("variable mapping for %q cannot be empty", variable)
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateMasterVariable(mv model.MasterVariable) error {
	if mv.ContractID == "" {
		return fmt.Errorf("master variable contract ID cannot be empty")
	}
	if !mv.MasterType.Valid() {
		return fmt.Errorf("unknown master type: %s", mv.MasterType)
	}
	if mv.MasterType == model.MasterOther && mv.Name == "" {
		return fmt.Errorf("master variable of type other needs a name")
	}
	if mv.Value == "" {
		return fmt.Errorf("master variable value cannot be empty")
	}
	return nil
}

// controller/controllers.go
package controller

import "github.com/mehmetNetAx/papirai-sub001/service"

type Controllers struct {
	Integration    *IntegrationController
	Sync           *SyncController
	MasterVariable *MasterVariableController
	Compliance     *ComplianceController
}

func InitializeControllers(
	integrationService service.IIntegrationService,
	syncService service.ISyncService,
	masterVariableService service.IMasterVariableService,
	complianceService service.IComplianceService,
) *Controllers {
	return &Controllers{
		Integration:    NewIntegrationController(integrationService),
		Sync:           NewSyncController(syncService),
		MasterVariable: NewMasterVariableController(masterVariableService),
		Compliance:     NewComplianceController(complianceService),
	}
}

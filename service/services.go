// service/services.go
package service

import (
	"context"
	"time"

	"github.com/mehmetNetAx/papirai-sub001/compliance/adapter"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// The store interfaces below are satisfied by the dao package. Services
// depend on them rather than on the concrete DAOs so the sync runner and the
// deadline monitor can be exercised against in-memory fakes.

// IntegrationStore persists integrations and their sync bookkeeping.
type IntegrationStore interface {
	CreateIntegration(ctx context.Context, integration model.Integration, userID string) (string, error)
	UpdateIntegration(ctx context.Context, integration model.Integration, userID string) (*model.Integration, error)
	GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error)
	ListIntegrations(ctx context.Context, limit int, offset int) ([]*model.Integration, error)
	ListActiveIntegrations(ctx context.Context) ([]*model.Integration, error)
	FindActiveByCompany(ctx context.Context, companyID string) (*model.Integration, error)
	UpdateSyncStatus(ctx context.Context, integrationID string, syncedAt time.Time, status model.SyncStatus, syncError string) error
	SetActive(ctx context.Context, integrationID string, active bool, userID string) error
}

// ContractStore reads contracts and their variables. Contracts are owned by
// the contract-lifecycle service; this engine never writes them.
type ContractStore interface {
	GetContract(ctx context.Context, contractID string) (*model.Contract, error)
	ListActiveContractsByCompany(ctx context.Context, companyID string) ([]*model.Contract, error)
}

// ComplianceCheckStore persists append-only compliance checks.
type ComplianceCheckStore interface {
	CreateCheck(ctx context.Context, check model.ComplianceCheck) (string, error)
	GetLatestCheck(ctx context.Context, contractID, variableID string) (*model.ComplianceCheck, error)
	ListChecksForContract(ctx context.Context, contractID string, limit int, offset int) ([]*model.ComplianceCheck, error)
	ListLatestForContract(ctx context.Context, contractID string) ([]*model.ComplianceCheck, error)
}

// MasterVariableStore persists contract master variables.
type MasterVariableStore interface {
	UpsertMasterVariable(ctx context.Context, mv model.MasterVariable, userID string) (*model.MasterVariable, error)
	DeleteByMasterType(ctx context.Context, contractID string, masterType model.MasterType, userID string) error
	GetByMasterType(ctx context.Context, contractID string, masterType model.MasterType) (*model.MasterVariable, error)
	ListByContract(ctx context.Context, contractID string) ([]*model.MasterVariable, error)
}

// AdapterFactory builds the ERP adapter for an integration.
type AdapterFactory interface {
	CreateForIntegration(integration *model.Integration) (adapter.ERPAdapter, error)
}

// IntegrationCache caches integration records. Implemented by
// util.CacheService on top of redis.
type IntegrationCache interface {
	GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error)
	SetIntegration(ctx context.Context, integration model.Integration) error
	DeleteIntegration(ctx context.Context, integrationID string) error
}

// ResourceLocker takes a cross-process lock on a named resource.
type ResourceLocker interface {
	Lock(ctx context.Context, resourceName string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, resourceName string) error
}

// DateStatusCache caches computed contract date statuses.
type DateStatusCache interface {
	GetContractDateStatus(ctx context.Context, contractID string) (*model.ContractDateStatus, error)
	SetContractDateStatus(ctx context.Context, status model.ContractDateStatus, ttl time.Duration) error
	DeleteContractDateStatus(ctx context.Context, contractID string) error
}

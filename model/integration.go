// model/integration.go
package model

import (
	"time"
)

// IntegrationType tags the adapter family an integration belongs to.
type IntegrationType string

const (
	IntegrationSAP    IntegrationType = "sap"
	IntegrationNebim  IntegrationType = "nebim"
	IntegrationLogo   IntegrationType = "logo"
	IntegrationNetsis IntegrationType = "netsis"
)

// SyncStatus is the outcome of the most recent sync run for an integration.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// ConnectionConfig holds connection settings for an external ERP system.
// Every field is optional: adapters run in simulated mode when unconfigured.
type ConnectionConfig struct {
	Endpoint string            `json:"endpoint,omitempty"`
	Username string            `json:"username,omitempty"`
	Password string            `json:"password,omitempty"`
	Database string            `json:"database,omitempty"`
	Port     int               `json:"port,omitempty"`
	Custom   map[string]string `json:"custom,omitempty"`
}

// Integration identifies one external record-of-truth connection owned by a
// company. The sync fields (LastSyncAt, LastSyncStatus, LastSyncError) are
// written only by the sync runner; everything else is administrator-owned.
type Integration struct {
	ID        string           `json:"id"`
	CompanyID string           `json:"company_id"`
	Name      string           `json:"name"`
	Type      IntegrationType  `json:"type"`
	Config    ConnectionConfig `json:"config"`
	// VariableMapping maps a contract variable name to the external field
	// name configured for this integration.
	VariableMapping map[string]string `json:"variable_mapping,omitempty"`
	Active          bool              `json:"active"`
	LastSyncAt      *time.Time        `json:"last_sync_at,omitempty"`
	LastSyncStatus  SyncStatus        `json:"last_sync_status,omitempty"`
	LastSyncError   string            `json:"last_sync_error,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ExternalFieldFor resolves the external field name for a contract variable,
// falling back to the variable's own name when unmapped.
func (i *Integration) ExternalFieldFor(variableName string) string {
	if field, ok := i.VariableMapping[variableName]; ok && field != "" {
		return field
	}
	return variableName
}

type IntegrationSearchCriteria struct {
	CompanyID string
	Type      IntegrationType
	Active    *bool
	Limit     int
}

// model/sync.go
package model

import "time"

// SyncResult summarizes one integration run. ContractsFailed counts
// contracts whose fetch or persistence failed; their error messages are
// collapsed into Error (last one wins, mirroring the persisted sync status).
type SyncResult struct {
	IntegrationID      string        `json:"integration_id"`
	IntegrationName    string        `json:"integration_name"`
	Status             SyncStatus    `json:"status"`
	ContractsProcessed int           `json:"contracts_processed"`
	ContractsFailed    int           `json:"contracts_failed"`
	ChecksCreated      int           `json:"checks_created"`
	NoTrackedVariables int           `json:"no_tracked_variables"`
	Error              string        `json:"error,omitempty"`
	StartedAt          time.Time     `json:"started_at"`
	Duration           time.Duration `json:"duration"`
}

// BatchSyncResult aggregates a run across every active integration.
type BatchSyncResult struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []SyncResult `json:"results"`
}

// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceID    string          `json:"resource_id"`
	Success       bool            `json:"success"`
	IntegrationID string          `json:"integration_id,omitempty"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}

// Actions recorded by the compliance engine.
const (
	ActionCreateIntegration     = "CREATE_INTEGRATION"
	ActionUpdateIntegration     = "UPDATE_INTEGRATION"
	ActionDeactivateIntegration = "DEACTIVATE_INTEGRATION"
	ActionRunSync               = "RUN_SYNC"
	ActionSetMasterVariable     = "SET_MASTER_VARIABLE"
	ActionUnsetMasterVariable   = "UNSET_MASTER_VARIABLE"
)

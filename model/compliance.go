// model/compliance.go
package model

import (
	"encoding/json"
	"time"
)

// ComplianceStatus classifies the outcome of one expected-vs-actual
// comparison.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusWarning      ComplianceStatus = "warning"
	StatusNonCompliant ComplianceStatus = "non_compliant"
	StatusPending      ComplianceStatus = "pending"
)

// AlertLevel is the severity attached to a compliance check or a
// date-status result.
type AlertLevel string

const (
	AlertLow      AlertLevel = "low"
	AlertMedium   AlertLevel = "medium"
	AlertHigh     AlertLevel = "high"
	AlertCritical AlertLevel = "critical"
)

// ComplianceSource identifies which adapter family produced a check.
type ComplianceSource string

const (
	SourceSAP    ComplianceSource = "sap"
	SourceNebim  ComplianceSource = "nebim"
	SourceLogo   ComplianceSource = "logo"
	SourceNetsis ComplianceSource = "netsis"
)

// DeviationType says which comparison produced the deviation figures.
type DeviationType string

const (
	DeviationNumeric DeviationType = "numeric"
	DeviationDate    DeviationType = "date"
	DeviationText    DeviationType = "text"
	DeviationNone    DeviationType = "none"
)

// Deviation describes the signed difference between expected and actual.
// Percentage is nil when expected is zero or the comparison is not numeric.
type Deviation struct {
	Type        DeviationType `json:"type"`
	Amount      float64       `json:"amount"`
	Percentage  *float64      `json:"percentage,omitempty"`
	Description string        `json:"description"`
}

// ComplianceCheck is one immutable evaluation record. Checks are append-only:
// history is reconstructed by querying the most recent check per
// (contract, variable) pair.
type ComplianceCheck struct {
	ID            string           `json:"id"`
	ContractID    string           `json:"contract_id"`
	VariableID    string           `json:"variable_id"`
	VariableName  string           `json:"variable_name"`
	ExpectedValue string           `json:"expected_value"`
	ActualValue   string           `json:"actual_value"`
	Status        ComplianceStatus `json:"status"`
	AlertLevel    AlertLevel       `json:"alert_level"`
	Deviation     Deviation        `json:"deviation"`
	Source        ComplianceSource `json:"source"`
	RawSnapshot   json.RawMessage  `json:"raw_snapshot,omitempty"`
	CheckedAt     time.Time        `json:"checked_at"`
}

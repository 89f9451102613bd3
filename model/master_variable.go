// model/master_variable.go
package model

import (
	"time"
)

// MasterType is the reserved semantic role a master variable plays in
// contract lifecycle alerting.
type MasterType string

const (
	MasterEndDate             MasterType = "endDate"
	MasterStartDate           MasterType = "startDate"
	MasterTerminationPeriod   MasterType = "terminationPeriod"
	MasterTerminationDeadline MasterType = "terminationDeadline"
	MasterContractValue       MasterType = "contractValue"
	MasterCurrency            MasterType = "currency"
	MasterRenewalDate         MasterType = "renewalDate"
	MasterCounterparty        MasterType = "counterparty"
	MasterContractType        MasterType = "contractType"
	MasterOther               MasterType = "other"
)

// KnownMasterTypes enumerates every accepted master type.
var KnownMasterTypes = []MasterType{
	MasterEndDate, MasterStartDate, MasterTerminationPeriod,
	MasterTerminationDeadline, MasterContractValue, MasterCurrency,
	MasterRenewalDate, MasterCounterparty, MasterContractType, MasterOther,
}

// Valid reports whether t is one of the known master types.
func (t MasterType) Valid() bool {
	for _, known := range KnownMasterTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MasterVariable is a contract-scoped field with a reserved semantic role.
// At most one active master variable exists per (contract, masterType) pair,
// except MasterOther which may repeat under distinct names.
// terminationDeadline is derived (endDate minus terminationPeriod days) and
// is written only by the deadline monitor, never by callers.
type MasterVariable struct {
	ID         string       `json:"id"`
	ContractID string       `json:"contract_id"`
	MasterType MasterType   `json:"master_type"`
	Name       string       `json:"name"`
	Type       VariableType `json:"type"`
	Value      string       `json:"value"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// DateStatus classifies a single date relative to "now". It is computed on
// demand and never persisted.
type DateStatus string

const (
	DatePassed   DateStatus = "passed"
	DateCritical DateStatus = "critical"
	DateWarning  DateStatus = "warning"
	DateNormal   DateStatus = "normal"
)

// urgency orders date statuses from least to most urgent.
var dateStatusUrgency = map[DateStatus]int{
	DateNormal:   0,
	DateWarning:  1,
	DateCritical: 2,
	DatePassed:   3,
}

// MoreUrgentThan reports whether s outranks other for dashboard rollups.
func (s DateStatus) MoreUrgentThan(other DateStatus) bool {
	return dateStatusUrgency[s] > dateStatusUrgency[other]
}

// DateStatusResult is the transient classification of one date.
type DateStatusResult struct {
	MasterType    MasterType `json:"master_type,omitempty"`
	Date          time.Time  `json:"date"`
	Status        DateStatus `json:"status"`
	DaysRemaining int        `json:"days_remaining"`
	Message       string     `json:"message"`
}

// ContractDateStatus aggregates the date classifications of one contract;
// Overall carries the most urgent of them.
type ContractDateStatus struct {
	ContractID string             `json:"contract_id"`
	Overall    DateStatus         `json:"overall"`
	Dates      []DateStatusResult `json:"dates"`
}

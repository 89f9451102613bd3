// model/contract.go
package model

import (
	"time"
)

// VariableType is the declared type of a contract variable. It decides how
// raw values are normalized before comparison.
type VariableType string

const (
	VariableText       VariableType = "text"
	VariableNumber     VariableType = "number"
	VariableDate       VariableType = "date"
	VariableCurrency   VariableType = "currency"
	VariablePercentage VariableType = "percentage"
)

// IsNumeric reports whether values of this type compare as 64-bit floats.
func (t VariableType) IsNumeric() bool {
	switch t {
	case VariableNumber, VariableCurrency, VariablePercentage:
		return true
	default:
		return false
	}
}

// ContractVariable is a named, typed value owned by a contract. Only
// variables with IsTracked set participate in compliance evaluation. The
// sync runner reads Value as the expected side of a comparison and never
// mutates it.
type ContractVariable struct {
	ID         string       `json:"id"`
	ContractID string       `json:"contract_id"`
	Name       string       `json:"name"`
	Type       VariableType `json:"type"`
	Value      string       `json:"value"`
	IsTracked  bool         `json:"is_tracked"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Contract is the slice of the contract record this subsystem reads. The
// wider document lifecycle lives in the surrounding application.
type Contract struct {
	ID        string             `json:"id"`
	CompanyID string             `json:"company_id"`
	Title     string             `json:"title"`
	Active    bool               `json:"active"`
	Variables []ContractVariable `json:"variables,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TrackedVariables returns the compliance-tracked subset of the contract's
// variables.
func (c *Contract) TrackedVariables() []ContractVariable {
	var tracked []ContractVariable
	for _, v := range c.Variables {
		if v.IsTracked {
			tracked = append(tracked, v)
		}
	}
	return tracked
}

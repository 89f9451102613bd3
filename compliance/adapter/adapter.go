// compliance/adapter/adapter.go
package adapter

import (
	"context"

	"github.com/mehmetNetAx/papirai-sub001/model"
)

// RawRecord is one logical order/record retrieved from an external system.
// Its shape is family-specific: some systems return flat documents, others
// nest line items.
type RawRecord map[string]interface{}

// ExtractedValue is one resolved (variable, value) pair together with the
// external field name the value came from.
type ExtractedValue struct {
	VariableName string      `json:"variable_name"`
	RawValue     interface{} `json:"raw_value"`
	SourceField  string      `json:"source_field"`
}

// ERPAdapter is the uniform capability contract every external system family
// implements. Implementations differ only in field-name vocabulary and wire
// simulation; the extraction algorithm and error policy are identical across
// families, so new systems are added by supplying an alias table and a fetch
// strategy, never by touching the runner or the evaluator.
type ERPAdapter interface {
	// Connect establishes a session. It is idempotent and safe to call
	// repeatedly; in simulated mode it succeeds without a live endpoint.
	Connect(ctx context.Context) error

	// FetchData retrieves the external record associated with a contract.
	// It lazily connects on first use.
	FetchData(ctx context.Context, contractID string, tracked []model.ContractVariable) (RawRecord, error)

	// ExtractVariableValues resolves a raw value for each tracked variable
	// using the configured field mapping and the family alias table.
	// Variables with no resolvable value are omitted, not errored.
	ExtractVariableValues(record RawRecord, tracked []model.ContractVariable) ([]ExtractedValue, error)

	// TestConnection wraps Connect and reports a human-readable outcome.
	// It never returns an error; failures are reported in the tuple.
	TestConnection(ctx context.Context) (bool, string)

	// SourceType identifies which compliance-check source classification
	// this family writes.
	SourceType() model.ComplianceSource
}

// FetchStrategy supplies the family-specific wire behavior behind the
// generic adapter. The concrete strategies in this repository simulate their
// systems; a real strategy would speak the vendor protocol.
type FetchStrategy interface {
	Connect(ctx context.Context, config model.ConnectionConfig) error
	Fetch(ctx context.Context, contractID string, tracked []model.ContractVariable) (RawRecord, error)
}

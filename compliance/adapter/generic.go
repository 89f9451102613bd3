// compliance/adapter/generic.go
package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	papirai_errors "github.com/mehmetNetAx/papirai-sub001/errors"
	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

// FieldAliases binds one canonical record field to the external spellings
// that resolve to it.
type FieldAliases struct {
	Canonical string
	Aliases   []string
}

// Vocabulary is the declarative description of one adapter family: its
// source tag and the alias table mapping each canonical record field to the
// external spellings that resolve to it. The table is ordered; resolution
// precedence is an exact canonical-name match first, then aliases in declared
// order. Lookups are case-insensitive.
type Vocabulary struct {
	Source model.ComplianceSource
	Fields []FieldAliases
}

// canonicalFor maps a variable name to the family's canonical record field,
// with the same precedence extraction uses, so fetch and extract agree on
// where a value lands.
func (v Vocabulary) canonicalFor(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, field := range v.Fields {
		if strings.ToLower(field.Canonical) == lower {
			return field.Canonical, true
		}
	}
	for _, field := range v.Fields {
		if containsFold(field.Aliases, lower) {
			return field.Canonical, true
		}
	}
	return "", false
}

// genericAdapter implements ERPAdapter once for all families. A family is
// the combination of a Vocabulary and a FetchStrategy.
type genericAdapter struct {
	vocab    Vocabulary
	config   model.ConnectionConfig
	mapping  map[string]string // contract variable name -> external field name
	strategy FetchStrategy

	mu        sync.Mutex
	connected bool
}

func newGenericAdapter(vocab Vocabulary, config model.ConnectionConfig, mapping map[string]string, strategy FetchStrategy) *genericAdapter {
	return &genericAdapter{
		vocab:    vocab,
		config:   config,
		mapping:  mapping,
		strategy: strategy,
	}
}

func (a *genericAdapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.connected {
		return nil
	}

	if err := a.strategy.Connect(ctx, a.config); err != nil {
		return fmt.Errorf("%w: %s: %v", papirai_errors.ErrConnectionFailed, a.vocab.Source, err)
	}

	a.connected = true
	logger.Debug("Adapter connected", zap.String("source", string(a.vocab.Source)))
	return nil
}

func (a *genericAdapter) FetchData(ctx context.Context, contractID string, tracked []model.ContractVariable) (RawRecord, error) {
	if err := a.Connect(ctx); err != nil {
		return nil, err
	}

	record, err := a.strategy.Fetch(ctx, contractID, tracked)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: contract %s: %v", papirai_errors.ErrFetchFailed, a.vocab.Source, contractID, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s: contract %s: empty record", papirai_errors.ErrFetchFailed, a.vocab.Source, contractID)
	}

	return record, nil
}

func (a *genericAdapter) ExtractVariableValues(record RawRecord, tracked []model.ContractVariable) ([]ExtractedValue, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: %s: nil record", papirai_errors.ErrExtractionFailed, a.vocab.Source)
	}

	flat := flatten(record)

	var extracted []ExtractedValue
	for _, variable := range tracked {
		fieldName := variable.Name
		if mapped, ok := a.mapping[variable.Name]; ok && mapped != "" {
			fieldName = mapped
		}

		value, sourceField, found := a.resolveField(flat, fieldName)
		if !found {
			// Field not present in this record. Omission, not error.
			continue
		}

		extracted = append(extracted, ExtractedValue{
			VariableName: variable.Name,
			RawValue:     value,
			SourceField:  sourceField,
		})
	}

	return extracted, nil
}

// resolveField routes the configured field name through the family alias
// table, then falls back to a direct case-insensitive lookup. Precedence is
// fixed: an exact canonical-name match wins, then aliases in declared order,
// so a name matching more than one entry always resolves to the same field.
func (a *genericAdapter) resolveField(flat map[string]interface{}, fieldName string) (interface{}, string, bool) {
	lower := strings.ToLower(fieldName)

	for _, field := range a.vocab.Fields {
		if strings.ToLower(field.Canonical) != lower {
			continue
		}
		if value, ok := flat[lower]; ok {
			return value, field.Canonical, true
		}
	}

	for _, field := range a.vocab.Fields {
		if !containsFold(field.Aliases, lower) {
			continue
		}
		if value, ok := flat[strings.ToLower(field.Canonical)]; ok {
			return value, field.Canonical, true
		}
	}

	if value, ok := flat[lower]; ok {
		return value, fieldName, true
	}

	return nil, "", false
}

func containsFold(values []string, lowerField string) bool {
	for _, v := range values {
		if strings.ToLower(v) == lowerField {
			return true
		}
	}
	return false
}

func (a *genericAdapter) TestConnection(ctx context.Context) (success bool, message string) {
	defer func() {
		if r := recover(); r != nil {
			success = false
			message = fmt.Sprintf("connection test panicked: %v", r)
		}
	}()

	if err := a.Connect(ctx); err != nil {
		return false, fmt.Sprintf("connection to %s failed: %v", a.vocab.Source, err)
	}
	return true, fmt.Sprintf("connection to %s established", a.vocab.Source)
}

func (a *genericAdapter) SourceType() model.ComplianceSource {
	return a.vocab.Source
}

// flatten lowers every key and folds nested maps and line-item slices into a
// single lookup table, so extraction works identically against flat and
// nested record shapes. Top-level fields win on key collisions; only the
// first line item of a slice is considered, since a fetch returns one
// logical order.
func flatten(record RawRecord) map[string]interface{} {
	flat := make(map[string]interface{})
	flattenInto(flat, map[string]interface{}(record))
	return flat
}

func flattenInto(flat map[string]interface{}, value map[string]interface{}) {
	// Scalars first, so fields at the current level win over nested ones.
	for key, v := range value {
		switch v.(type) {
		case map[string]interface{}, []interface{}, []map[string]interface{}:
		default:
			setIfAbsent(flat, key, v)
		}
	}

	for key, v := range value {
		switch nested := v.(type) {
		case map[string]interface{}:
			flattenInto(flat, nested)
		case []interface{}:
			if len(nested) > 0 {
				if item, ok := nested[0].(map[string]interface{}); ok {
					flattenInto(flat, item)
					continue
				}
			}
			setIfAbsent(flat, key, v)
		case []map[string]interface{}:
			if len(nested) > 0 {
				flattenInto(flat, nested[0])
			}
		}
	}
}

func setIfAbsent(flat map[string]interface{}, key string, value interface{}) {
	lower := strings.ToLower(key)
	if _, exists := flat[lower]; !exists {
		flat[lower] = value
	}
}

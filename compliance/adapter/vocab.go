// compliance/adapter/vocab.go
package adapter

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mehmetNetAx/papirai-sub001/model"
	helper_util "github.com/mehmetNetAx/papirai-sub001/util/helper"
)

// Family vocabularies. Each alias list enumerates the contract-variable
// spellings that resolve to the canonical record field of that family, in
// resolution order. Adding a new external system means adding a vocabulary
// and a fetch strategy here; the generic adapter does the rest.

var sapVocabulary = Vocabulary{
	Source: model.SourceSAP,
	Fields: []FieldAliases{
		{Canonical: "totalAmount", Aliases: []string{"amount", "price", "total", "contractValue", "netValue"}},
		{Canonical: "currency", Aliases: []string{"currencyCode", "curr"}},
		{Canonical: "deliveryDate", Aliases: []string{"dueDate", "endDate", "terminationDate"}},
		{Canonical: "quantity", Aliases: []string{"qty", "orderQuantity"}},
		{Canonical: "vendorName", Aliases: []string{"vendor", "supplier", "counterparty"}},
		{Canonical: "paymentTerms", Aliases: []string{"paymentTerm", "terms"}},
	},
}

var nebimVocabulary = Vocabulary{
	Source: model.SourceNebim,
	Fields: []FieldAliases{
		{Canonical: "toplam_tutar", Aliases: []string{"tutar", "fiyat", "totalAmount", "amount", "contractValue"}},
		{Canonical: "para_birimi", Aliases: []string{"doviz", "currency", "currencyCode"}},
		{Canonical: "teslim_tarihi", Aliases: []string{"vade_tarihi", "deliveryDate", "endDate", "dueDate"}},
		{Canonical: "miktar", Aliases: []string{"adet", "quantity", "qty"}},
		{Canonical: "cari_unvan", Aliases: []string{"cari", "vendorName", "counterparty", "supplier"}},
		{Canonical: "odeme_kosulu", Aliases: []string{"vade", "paymentTerms"}},
	},
}

var logoVocabulary = Vocabulary{
	Source: model.SourceLogo,
	Fields: []FieldAliases{
		{Canonical: "NETTOTAL", Aliases: []string{"TOTAL", "totalAmount", "amount", "price", "contractValue"}},
		{Canonical: "TRCURR", Aliases: []string{"CURR", "currency", "currencyCode"}},
		{Canonical: "DUEDATE", Aliases: []string{"DATE_", "deliveryDate", "endDate", "dueDate"}},
		{Canonical: "AMOUNT", Aliases: []string{"QUANTITY", "quantity", "qty"}},
		{Canonical: "CLIENTREF", Aliases: []string{"CLIENT", "vendorName", "counterparty"}},
		{Canonical: "PAYDEFREF", Aliases: []string{"paymentTerms"}},
	},
}

var netsisVocabulary = Vocabulary{
	Source: model.SourceNetsis,
	Fields: []FieldAliases{
		{Canonical: "GENELTOPLAM", Aliases: []string{"TUTAR", "totalAmount", "amount", "contractValue"}},
		{Canonical: "DOVIZ_CINSI", Aliases: []string{"DOVIZ", "currency", "currencyCode"}},
		{Canonical: "VADE_TARIHI", Aliases: []string{"TESLIM_TARIHI", "deliveryDate", "endDate", "dueDate"}},
		{Canonical: "MIKTAR", Aliases: []string{"quantity", "qty"}},
		{Canonical: "CARI_ISIM", Aliases: []string{"CARI_KOD", "vendorName", "counterparty"}},
		{Canonical: "ODEME_GUNU", Aliases: []string{"paymentTerms"}},
	},
}

// recordShape controls how a simulated strategy lays out its record: flat
// documents or a header with nested line items.
type recordShape int

const (
	shapeFlat recordShape = iota
	shapeNested
)

// simulatedStrategy produces contract-shaped records offline so adapters
// stay usable for demos and tests without real credentials. Values are
// derived from the contract's own variables with a deterministic drift, so
// repeated syncs of the same contract classify identically.
type simulatedStrategy struct {
	vocab    Vocabulary
	shape    recordShape
	lineKey  string
	metadata func(contractID string) map[string]interface{}
}

func (s *simulatedStrategy) Connect(ctx context.Context, config model.ConnectionConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Simulated mode: a missing endpoint is not an error, the session is
	// local. A configured endpoint is accepted without a live handshake.
	return nil
}

func (s *simulatedStrategy) Fetch(ctx context.Context, contractID string, tracked []model.ContractVariable) (RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	for _, variable := range tracked {
		key := s.fieldKeyFor(variable.Name)
		fields[key] = s.simulatedValue(contractID, variable)
	}

	header := s.metadata(contractID)

	if s.shape == shapeFlat {
		record := RawRecord{}
		for k, v := range header {
			record[k] = v
		}
		for k, v := range fields {
			record[k] = v
		}
		return record, nil
	}

	record := RawRecord{}
	for k, v := range header {
		record[k] = v
	}
	record[s.lineKey] = []interface{}{fields}
	return record, nil
}

// fieldKeyFor stores a simulated value under the family's canonical field
// when the variable name is in the vocabulary, otherwise under the variable
// name itself. It uses the same precedence as extraction, so a fetched value
// always lands on the field extraction reads.
func (s *simulatedStrategy) fieldKeyFor(variableName string) string {
	if canonical, ok := s.vocab.canonicalFor(variableName); ok {
		return canonical
	}
	return variableName
}

func (s *simulatedStrategy) simulatedValue(contractID string, variable model.ContractVariable) interface{} {
	seed := fmt.Sprintf("%s:%s:%s", s.vocab.Source, contractID, variable.Name)

	switch {
	case variable.Type.IsNumeric():
		base, err := strconv.ParseFloat(strings.TrimSpace(variable.Value), 64)
		if err != nil {
			return variable.Value
		}
		// Drift in the -3%..+4% band: some variables come back compliant,
		// some cross the warning threshold.
		return base * (1 + numericDrift(seed))
	case variable.Type == model.VariableDate:
		t, err := time.Parse("2006-01-02", strings.TrimSpace(variable.Value))
		if err != nil {
			if t, err = helper_util.ParseTime(strings.TrimSpace(variable.Value)); err != nil {
				return variable.Value
			}
		}
		return t.AddDate(0, 0, dayDrift(seed)).Format("2006-01-02")
	default:
		return variable.Value
	}
}

func numericDrift(seed string) float64 {
	return (float64(hash32(seed)%700) - 300) / 10000
}

func dayDrift(seed string) int {
	return int(hash32(seed)%7) - 3
}

func hash32(seed string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return h.Sum32()
}

func sapMetadata(contractID string) map[string]interface{} {
	return map[string]interface{}{
		"orderId":      "SAP-" + shortRef(contractID),
		"documentType": "contract",
		"salesOrg":     "1000",
	}
}

func nebimMetadata(contractID string) map[string]interface{} {
	return map[string]interface{}{
		"belge_no":   "NBM-" + shortRef(contractID),
		"firma_kodu": "001",
	}
}

func logoMetadata(contractID string) map[string]interface{} {
	return map[string]interface{}{
		"FICHENO": "LG-" + shortRef(contractID),
		"TRCODE":  8,
	}
}

func netsisMetadata(contractID string) map[string]interface{} {
	return map[string]interface{}{
		"FATIRS_NO": "NT-" + shortRef(contractID),
		"SUBE_KODU": 0,
	}
}

func shortRef(contractID string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, contractID)
	if len(cleaned) > 8 {
		cleaned = cleaned[:8]
	}
	return strings.ToUpper(cleaned)
}

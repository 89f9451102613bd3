// compliance/engine/normalizer.go
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mehmetNetAx/papirai-sub001/model"
)

// CanonicalKind says which comparison family a normalized value belongs to.
type CanonicalKind string

const (
	KindNumber CanonicalKind = "number"
	KindDate   CanonicalKind = "date"
	KindText   CanonicalKind = "text"
)

// CanonicalValue is the comparable form of a raw value. Valid is false when
// the raw input could not be coerced into the declared type; such values are
// routed into the pending path instead of being compared.
type CanonicalValue struct {
	Kind   CanonicalKind
	Number float64
	Time   time.Time
	Text   string
	Valid  bool
}

// String renders the canonical value back to its stored form. Normalizing
// the result again yields an identical canonical value.
func (v CanonicalValue) String() string {
	if !v.Valid {
		return ""
	}
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindDate:
		return v.Time.UTC().Format(time.RFC3339)
	default:
		return v.Text
	}
}

// dateLayouts are tried in order when coercing a string to a date. The last
// two cover the day.month.year forms Turkish ERP exports use.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
}

// Normalize converts a raw value to its canonical comparable form for the
// declared variable type: number, currency and percentage compare as 64-bit
// floats, dates as absolute instants, everything else as strings. It has no
// side effects and is deterministic. Unparsable numeric or date input yields
// an invalid value rather than a zero; the evaluator turns those into
// pending checks.
func Normalize(raw interface{}, declaredType model.VariableType) CanonicalValue {
	if raw == nil {
		return CanonicalValue{Kind: kindFor(declaredType)}
	}

	switch {
	case declaredType.IsNumeric():
		return normalizeNumber(raw)
	case declaredType == model.VariableDate:
		return normalizeDate(raw)
	default:
		return CanonicalValue{Kind: KindText, Text: stringify(raw), Valid: true}
	}
}

func kindFor(t model.VariableType) CanonicalKind {
	switch {
	case t.IsNumeric():
		return KindNumber
	case t == model.VariableDate:
		return KindDate
	default:
		return KindText
	}
}

func normalizeNumber(raw interface{}) CanonicalValue {
	switch n := raw.(type) {
	case float64:
		return CanonicalValue{Kind: KindNumber, Number: n, Valid: true}
	case float32:
		return CanonicalValue{Kind: KindNumber, Number: float64(n), Valid: true}
	case int:
		return CanonicalValue{Kind: KindNumber, Number: float64(n), Valid: true}
	case int64:
		return CanonicalValue{Kind: KindNumber, Number: float64(n), Valid: true}
	case string:
		f, err := parseDecimal(n)
		if err != nil {
			return CanonicalValue{Kind: KindNumber}
		}
		return CanonicalValue{Kind: KindNumber, Number: f, Valid: true}
	default:
		f, err := parseDecimal(fmt.Sprintf("%v", raw))
		if err != nil {
			return CanonicalValue{Kind: KindNumber}
		}
		return CanonicalValue{Kind: KindNumber, Number: f, Valid: true}
	}
}

// parseDecimal accepts the numeric spellings seen in external records:
// currency symbols, percent signs, and both "1,234.56" and "1.234,56"
// grouping conventions.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, symbol := range []string{"%", "$", "€", "£", "₺", "TL", "TRY", "USD", "EUR"} {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Whichever separator comes last is the decimal mark.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	return strconv.ParseFloat(s, 64)
}

func normalizeDate(raw interface{}) CanonicalValue {
	switch d := raw.(type) {
	case time.Time:
		return CanonicalValue{Kind: KindDate, Time: d.UTC(), Valid: true}
	case *time.Time:
		if d == nil {
			return CanonicalValue{Kind: KindDate}
		}
		return CanonicalValue{Kind: KindDate, Time: d.UTC(), Valid: true}
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return CanonicalValue{Kind: KindDate, Time: t.UTC(), Valid: true}
			}
		}
		return CanonicalValue{Kind: KindDate}
	default:
		return CanonicalValue{Kind: KindDate}
	}
}

func stringify(raw interface{}) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", raw)
}

// truncateToDay drops the time-of-day component in UTC so day arithmetic is
// stable regardless of the hour a sync runs at.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the signed whole-day distance from a to b.
func daysBetween(a, b time.Time) int {
	return int(truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24)
}

// compliance/engine/evaluator.go
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mehmetNetAx/papirai-sub001/model"
)

// Status thresholds for numeric comparisons, as a percentage of the
// expected value.
const (
	compliantPercent = 2.0
	warningPercent   = 10.0
)

// Alert-level buckets shared by the numeric (percent) and date (days)
// comparisons.
const (
	alertLowBound    = 5.0
	alertMediumBound = 10.0
	alertHighBound   = 25.0
)

// DefaultDateToleranceDays is the day window within which a date mismatch
// still classifies as a warning rather than non-compliant.
const DefaultDateToleranceDays = 3

// ComplianceEvaluator compares expected against observed values and
// classifies the outcome. It is stateless apart from its thresholds and
// needs neither an adapter nor a database.
type ComplianceEvaluator struct {
	dateToleranceDays int
}

func NewComplianceEvaluator(dateToleranceDays int) *ComplianceEvaluator {
	if dateToleranceDays <= 0 {
		dateToleranceDays = DefaultDateToleranceDays
	}
	return &ComplianceEvaluator{dateToleranceDays: dateToleranceDays}
}

// Evaluate normalizes both sides and produces one compliance check. A nil
// actual value, or a value that cannot be coerced into the declared type,
// classifies as pending; no deviation math is attempted in that case.
func (e *ComplianceEvaluator) Evaluate(expectedRaw, actualRaw interface{}, declaredType model.VariableType) model.ComplianceCheck {
	expected := Normalize(expectedRaw, declaredType)

	if actualRaw == nil {
		return e.pendingCheck(expected, "no value extracted from external system")
	}

	actual := Normalize(actualRaw, declaredType)

	if !expected.Valid || !actual.Valid {
		side := "expected"
		if expected.Valid {
			side = "actual"
		}
		return e.pendingCheck(expected, fmt.Sprintf("%s value could not be normalized as %s", side, declaredType))
	}

	check := model.ComplianceCheck{
		ExpectedValue: expected.String(),
		ActualValue:   actual.String(),
		CheckedAt:     time.Now(),
	}

	switch expected.Kind {
	case KindNumber:
		check.Status, check.AlertLevel, check.Deviation = e.evaluateNumeric(expected.Number, actual.Number)
	case KindDate:
		check.Status, check.AlertLevel, check.Deviation = e.evaluateDate(expected.Time, actual.Time)
	default:
		check.Status, check.AlertLevel, check.Deviation = e.evaluateText(expected.Text, actual.Text)
	}

	return check
}

func (e *ComplianceEvaluator) pendingCheck(expected CanonicalValue, reason string) model.ComplianceCheck {
	return model.ComplianceCheck{
		ExpectedValue: expected.String(),
		Status:        model.StatusPending,
		AlertLevel:    model.AlertLow,
		Deviation: model.Deviation{
			Type:        model.DeviationNone,
			Description: reason,
		},
		CheckedAt: time.Now(),
	}
}

func (e *ComplianceEvaluator) evaluateNumeric(expected, actual float64) (model.ComplianceStatus, model.AlertLevel, model.Deviation) {
	amount := actual - expected
	deviation := model.Deviation{
		Type:   model.DeviationNumeric,
		Amount: amount,
	}

	// Percentage of expected is undefined when expected is zero; fall back
	// to the absolute deviation for classification.
	if expected == 0 {
		if amount == 0 {
			deviation.Description = "actual matches expected"
			return model.StatusCompliant, model.AlertLow, deviation
		}
		deviation.Description = fmt.Sprintf("expected 0, observed %.2f", actual)
		return model.StatusNonCompliant, model.AlertHigh, deviation
	}

	percentage := amount / expected * 100
	deviation.Percentage = &percentage
	deviation.Description = fmt.Sprintf("observed %.2f deviates %.2f (%.1f%%) from expected %.2f",
		actual, amount, percentage, expected)

	p := math.Abs(percentage)

	var status model.ComplianceStatus
	switch {
	case p <= compliantPercent:
		status = model.StatusCompliant
	case p <= warningPercent:
		status = model.StatusWarning
	default:
		status = model.StatusNonCompliant
	}

	return status, alertForMagnitude(p), deviation
}

func (e *ComplianceEvaluator) evaluateDate(expected, actual time.Time) (model.ComplianceStatus, model.AlertLevel, model.Deviation) {
	diff := daysBetween(expected, actual)
	distance := math.Abs(float64(diff))

	deviation := model.Deviation{
		Type:   model.DeviationDate,
		Amount: float64(diff),
	}

	var status model.ComplianceStatus
	switch {
	case diff == 0:
		status = model.StatusCompliant
		deviation.Description = "dates match"
	case distance <= float64(e.dateToleranceDays):
		status = model.StatusWarning
		deviation.Description = fmt.Sprintf("observed date is %d day(s) off within the %d-day tolerance", diff, e.dateToleranceDays)
	default:
		status = model.StatusNonCompliant
		deviation.Description = fmt.Sprintf("observed date is %d day(s) off", diff)
	}

	return status, alertForMagnitude(distance), deviation
}

func (e *ComplianceEvaluator) evaluateText(expected, actual string) (model.ComplianceStatus, model.AlertLevel, model.Deviation) {
	if strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(actual)) {
		return model.StatusCompliant, model.AlertLow, model.Deviation{
			Type:        model.DeviationNone,
			Description: "values match",
		}
	}

	return model.StatusNonCompliant, model.AlertMedium, model.Deviation{
		Type:        model.DeviationText,
		Description: fmt.Sprintf("expected %q, observed %q", expected, actual),
	}
}

// alertForMagnitude maps a deviation magnitude (percent for numerics, days
// for dates) onto the shared alert buckets.
func alertForMagnitude(magnitude float64) model.AlertLevel {
	switch {
	case magnitude < alertLowBound:
		return model.AlertLow
	case magnitude <= alertMediumBound:
		return model.AlertMedium
	case magnitude <= alertHighBound:
		return model.AlertHigh
	default:
		return model.AlertCritical
	}
}

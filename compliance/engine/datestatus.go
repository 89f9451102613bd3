// compliance/engine/datestatus.go
package engine

import (
	"fmt"
	"time"

	"github.com/mehmetNetAx/papirai-sub001/model"
)

// Default classification thresholds for the deadline monitor.
const (
	DefaultWarningDays  = 30
	DefaultCriticalDays = 7
)

// ClassifyDate classifies a single date against "now". Day distances are
// computed on UTC-truncated days, so the result does not depend on the hour
// of the evaluation. The result is transient and never persisted.
func ClassifyDate(date, now time.Time, warningDays, criticalDays int) model.DateStatusResult {
	if warningDays <= 0 {
		warningDays = DefaultWarningDays
	}
	if criticalDays <= 0 {
		criticalDays = DefaultCriticalDays
	}

	daysRemaining := daysBetween(now, date)

	result := model.DateStatusResult{
		Date:          date,
		DaysRemaining: daysRemaining,
	}

	switch {
	case daysRemaining < 0:
		result.Status = model.DatePassed
		result.Message = fmt.Sprintf("date passed %d day(s) ago", -daysRemaining)
	case daysRemaining <= criticalDays:
		result.Status = model.DateCritical
		result.Message = fmt.Sprintf("%d day(s) remaining", daysRemaining)
	case daysRemaining <= warningDays:
		result.Status = model.DateWarning
		result.Message = fmt.Sprintf("%d day(s) remaining", daysRemaining)
	default:
		result.Status = model.DateNormal
		result.Message = fmt.Sprintf("%d day(s) remaining", daysRemaining)
	}

	return result
}

// WorstDateStatus picks the most urgent status out of a set of per-date
// classifications; it drives the contract's overall alert badge.
func WorstDateStatus(results []model.DateStatusResult) model.DateStatus {
	worst := model.DateNormal
	for _, r := range results {
		if r.Status.MoreUrgentThan(worst) {
			worst = r.Status
		}
	}
	return worst
}

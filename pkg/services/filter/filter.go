// Package filter selects the subset of stored reports shown by the dashboard.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/domain"
)

var windowMonths = map[domain.PeriodWindow]int{
	domain.PeriodCurrent: 0,
	domain.PeriodLast3:   3,
	domain.PeriodLast6:   6,
}

// ParsePeriod validates a period window selector. Empty means all.
func ParsePeriod(value string) (domain.PeriodWindow, error) {
	window := domain.PeriodWindow(strings.ToLower(strings.TrimSpace(value)))
	if window == "" || window == domain.PeriodAll {
		return domain.PeriodAll, nil
	}
	if _, ok := windowMonths[window]; !ok {
		return "", domain.NewValidationError("period", fmt.Sprintf("unknown period %q (use all, current, last3 or last6)", value))
	}
	return window, nil
}

// ParsePlatform validates a platform selector. Empty means all.
func ParsePlatform(value string) (domain.Platform, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, string(domain.PlatformAll)) {
		return domain.PlatformAll, nil
	}
	for _, p := range domain.Platforms {
		if strings.EqualFold(value, string(p)) {
			return p, nil
		}
	}
	return "", domain.NewValidationError("platform", fmt.Sprintf("unknown platform %q", value))
}

// Cutoff returns the earliest end date kept by the window: the current
// instant with the month shifted back by 0, 3 or 6. End dates are midnight, so
// a report ending today falls outside "current" once the day has started. The
// second result is false for "all".
func Cutoff(window domain.PeriodWindow, now time.Time) (time.Time, bool) {
	months, ok := windowMonths[window]
	if !ok {
		return time.Time{}, false
	}
	return now.UTC().AddDate(0, -months, 0), true
}

// Apply keeps the reports matching both the period window and the platform,
// preserving their order.
func Apply(reports []domain.Report, f domain.ReportFilter, now time.Time) []domain.Report {
	cutoff, byWindow := Cutoff(f.Period, now)
	byPlatform := f.Platform != "" && f.Platform != domain.PlatformAll

	filtered := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if byWindow && r.EndDate.Before(cutoff) {
			continue
		}
		if byPlatform && !r.HasPlatform(f.Platform) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

package domain

// PeriodWindow selects reports by how recently they ended.
type PeriodWindow string

const (
	PeriodAll     PeriodWindow = "all"
	PeriodCurrent PeriodWindow = "current"
	PeriodLast3   PeriodWindow = "last3"
	PeriodLast6   PeriodWindow = "last6"
)

// PlatformAll disables platform filtering.
const PlatformAll Platform = "all"

// ReportFilter is the active selection applied to the stored collection.
type ReportFilter struct {
	Period   PeriodWindow
	Platform Platform
}

// NoFilter keeps every report.
var NoFilter = ReportFilter{Period: PeriodAll, Platform: PlatformAll}

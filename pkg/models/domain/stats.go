package domain

// Stats aggregates a filtered set of reports.
type Stats struct {
	TotalReports             int
	TotalEbooks              int
	TotalPrintedBooks        int
	TotalVisualIdentities    int
	TotalDiagrammedMaterials int
	AverageEbooks            float64
	AverageDiagrammed        float64
	// MostUsedPlatform is empty when no material was counted.
	MostUsedPlatform Platform
	PlatformTotals   []PlatformTotal
}

// PlatformTotal is the summed quantity of one platform.
type PlatformTotal struct {
	Platform Platform
	Quantity int
}

// Narrative holds the generated summary sentences of a report.
type Narrative struct {
	Production string
	Identity   string
	Diagrammed string
}

// Sentences returns the narrative in reading order.
func (n Narrative) Sentences() []string {
	return []string{n.Production, n.Identity, n.Diagrammed}
}

// ChartData is the pre-aggregated input of the report charts.
type ChartData struct {
	Production []ChartPoint
	Platforms  []PlatformTotal
	Programs   []ProgramBar
}

type ChartPoint struct {
	Name  string
	Value int
}

type ProgramBar struct {
	Name     string
	Quantity int
	Platform Platform
}

// Dashboard is the summary view of a filtered collection.
type Dashboard struct {
	Stats Stats
	// MostRecent is the latest created report of the whole collection, not
	// only the filtered set. It is nil when nothing is stored.
	MostRecent *Report
	Recent     []Report
}

package domain

import (
	"fmt"
	"time"
)

// Platform is the delivery system a diagrammed material was produced for.
type Platform string

const (
	PlatformAVACEAD Platform = "AVACEAD"
	PlatformAVAMEC  Platform = "AVAMEC"
)

// Platforms lists the known platforms in display order.
var Platforms = []Platform{PlatformAVACEAD, PlatformAVAMEC}

func (p Platform) Known() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// DiagrammedMaterial counts materials laid out for one program on one platform.
type DiagrammedMaterial struct {
	Platform Platform
	Program  string
	Quantity int
}

// Key is the grouping identity used when merging duplicate entries.
func (m DiagrammedMaterial) Key() string {
	return fmt.Sprintf("%s-%s", m.Platform, m.Program)
}

type MaterialProduction struct {
	Ebooks       int
	PrintedBooks int
}

// Total is the number of produced materials of both kinds.
func (p MaterialProduction) Total() int {
	return p.Ebooks + p.PrintedBooks
}

type VisualIdentity struct {
	Created int
}

// Report is one periodic production report. ID and CreatedAt are set once when
// the report is created and never change afterwards.
type Report struct {
	ID                  string
	Period              string
	StartDate           time.Time
	EndDate             time.Time
	MaterialProduction  MaterialProduction
	VisualIdentity      VisualIdentity
	DiagrammedMaterials []DiagrammedMaterial
	CreatedAt           time.Time
}

// TotalDiagrammed sums the quantity of every diagrammed material in the report.
func (r Report) TotalDiagrammed() int {
	total := 0
	for _, m := range r.DiagrammedMaterials {
		total += m.Quantity
	}
	return total
}

// PlatformNames returns the distinct platforms of the report in first-seen order.
func (r Report) PlatformNames() []Platform {
	var names []Platform
	seen := make(map[Platform]struct{})
	for _, m := range r.DiagrammedMaterials {
		if _, ok := seen[m.Platform]; ok {
			continue
		}
		seen[m.Platform] = struct{}{}
		names = append(names, m.Platform)
	}
	return names
}

// HasPlatform reports whether at least one material belongs to the platform.
func (r Report) HasPlatform(p Platform) bool {
	for _, m := range r.DiagrammedMaterials {
		if m.Platform == p {
			return true
		}
	}
	return false
}

// DateLayout is the calendar date format used for report start and end dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// ManualEntry carries the fields of the data entry form. Dates are raw text and
// are validated together with the other required fields.
type ManualEntry struct {
	Period           string
	StartDate        string
	EndDate          string
	Ebooks           int
	PrintedBooks     int
	VisualIdentities int
	Materials        []DiagrammedMaterial
}

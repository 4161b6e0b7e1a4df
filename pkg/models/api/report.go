package api

import "time"

type Report struct {
	ID                  string               `json:"id"`
	Period              string               `json:"period"`
	StartDate           string               `json:"startDate"`
	EndDate             string               `json:"endDate"`
	MaterialProduction  MaterialProduction   `json:"materialProduction"`
	VisualIdentity      VisualIdentity       `json:"visualIdentity"`
	DiagrammedMaterials []DiagrammedMaterial `json:"diagrammedMaterials"`
	TotalDiagrammed     int                  `json:"totalDiagrammed"`
	CreatedAt           time.Time            `json:"createdAt"`
}

type MaterialProduction struct {
	Ebooks       int `json:"ebooks"`
	PrintedBooks int `json:"printedBooks"`
}

type VisualIdentity struct {
	Created int `json:"created"`
}

type DiagrammedMaterial struct {
	Platform string `json:"platform"`
	Program  string `json:"program"`
	Quantity int    `json:"quantity"`
}

// ManualReport is the request body of a manually entered report.
type ManualReport struct {
	Period              string               `json:"period"`
	StartDate           string               `json:"startDate"`
	EndDate             string               `json:"endDate"`
	Ebooks              int                  `json:"ebooks"`
	PrintedBooks        int                  `json:"printedBooks"`
	VisualIdentities    int                  `json:"visualIdentities"`
	DiagrammedMaterials []DiagrammedMaterial `json:"diagrammedMaterials"`
}

type Narrative struct {
	Production string `json:"production"`
	Identity   string `json:"identity"`
	Diagrammed string `json:"diagrammed"`
}

type PlatformTotal struct {
	Platform string `json:"platform"`
	Quantity int    `json:"quantity"`
}

type Stats struct {
	TotalReports             int             `json:"totalReports"`
	TotalEbooks              int             `json:"totalEbooks"`
	TotalPrintedBooks        int             `json:"totalPrintedBooks"`
	TotalVisualIdentities    int             `json:"totalVisualIdentities"`
	TotalDiagrammedMaterials int             `json:"totalDiagrammedMaterials"`
	AverageEbooks            float64         `json:"averageEbooks"`
	AverageDiagrammed        float64         `json:"averageDiagrammed"`
	MostUsedPlatform         string          `json:"mostUsedPlatform"`
	PlatformTotals           []PlatformTotal `json:"platformTotals"`
}

// Dashboard is the response of the stats endpoint.
type Dashboard struct {
	Stats      Stats    `json:"stats"`
	MostRecent *Report  `json:"mostRecent,omitempty"`
	Recent     []Report `json:"recent"`
}

type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type ProgramBar struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantidade"`
	Platform string `json:"plataforma"`
}

type Charts struct {
	Production []ChartPoint    `json:"production"`
	Platforms  []PlatformTotal `json:"platforms"`
	Programs   []ProgramBar    `json:"programs"`
}

type ImportResult struct {
	Report  Report `json:"report"`
	Message string `json:"message"`
}

package store

// Report is the persisted shape of a report inside the serialized collection.
type Report struct {
	ID                  string               `json:"id"`
	Period              string               `json:"period"`
	StartDate           string               `json:"startDate"`
	EndDate             string               `json:"endDate"`
	MaterialProduction  MaterialProduction   `json:"materialProduction"`
	VisualIdentity      VisualIdentity       `json:"visualIdentity"`
	DiagrammedMaterials []DiagrammedMaterial `json:"diagrammedMaterials"`
	CreatedAt           string               `json:"createdAt"`
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

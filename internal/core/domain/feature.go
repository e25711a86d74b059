package domain

import (
	"encoding/json"
	"time"
)

// PolygonFeature is a facility boundary extracted from a WFS GML document.
// Ring vertices are [lng, lat] in source order forming a single exterior
// ring; interior rings and multi-part geometries are not represented.
type PolygonFeature struct {
	ID               string       `json:"id"`
	Ring             [][2]float64 `json:"ring"`
	Owner            string       `json:"owner,omitempty"`
	Placement        string       `json:"placement,omitempty"`
	WaterEnvironment string       `json:"waterEnvironment,omitempty"`
	Species          string       `json:"species,omitempty"`
}

// PolygonCollection is a set of extracted facility boundaries.
type PolygonCollection struct {
	Features  []PolygonFeature `json:"features"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Source    string           `json:"source"`
}

// ProtectedArea is a nature conservation area from the environmental
// authority's map service. Geometry is passed through untouched.
type ProtectedArea struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	AreaType        string          `json:"areaType"`
	EstablishedYear int             `json:"establishedYear,omitempty"`
	Regulation      string          `json:"regulation,omitempty"`
	IUCNCategory    string          `json:"iucnCategory,omitempty"`
	Municipality    string          `json:"municipality,omitempty"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
}

// AreaCollection is a set of protected areas.
type AreaCollection struct {
	Features  []ProtectedArea `json:"features"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Source    string          `json:"source"`
}

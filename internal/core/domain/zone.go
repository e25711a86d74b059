package domain

import (
	"fmt"
	"strings"
	"time"
)

// DiseaseType is the canonical classification of an upstream disease code.
type DiseaseType string

const (
	DiseaseILA           DiseaseType = "ILA"
	DiseasePD            DiseaseType = "PD"
	DiseaseBKD           DiseaseType = "BKD"
	DiseaseFrancisellose DiseaseType = "FRANCISELLOSE"
	DiseaseOther         DiseaseType = "OTHER"
)

// ZoneType distinguishes the derived monitoring circles.
type ZoneType string

const (
	ZoneSurveillance ZoneType = "surveillance"
	ZoneProtection   ZoneType = "protection"
)

// Monitoring circle radii in kilometers.
const (
	SurveillanceRadiusKm = 10.0
	ProtectionRadiusKm   = 3.0
)

// ClassifyDisease maps an upstream disease code to its canonical type and a
// localized display name. Unknown codes map to DiseaseOther with the raw
// code as display name.
func ClassifyDisease(code string) (DiseaseType, string) {
	switch {
	case code == "INFEKSIOES_LAKSEANEMI" || strings.Contains(code, "LAKSEANEMI"):
		return DiseaseILA, "Infeksiøs lakseanemi (ILA)"
	case code == "PANKREASSYKDOM":
		return DiseasePD, "Pankreassykdom (PD)"
	case code == "BAKTERIELL_NYRESYKE":
		return DiseaseBKD, "Bakteriell nyresyke (BKD)"
	case code == "FRANCISELLOSE":
		return DiseaseFrancisellose, "Francisellose"
	default:
		return DiseaseOther, code
	}
}

// ZoneFeature is a derived monitoring circle around a disease-reporting
// locality. It is regenerated on every cache refresh and never persisted.
type ZoneFeature struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Disease      DiseaseType `json:"diseaseType"`
	DiseaseName  string      `json:"diseaseName"`
	Zone         ZoneType    `json:"zoneType"`
	LocalityNo   int         `json:"localityNo"`
	LocalityName string      `json:"localityName,omitempty"`
	Municipality string      `json:"municipality,omitempty"`
	RadiusKm     float64     `json:"radiusKm"`
	Center       LatLng      `json:"center"`
}

// ZoneID builds the stable feature identifier for a (disease, locality,
// zone type) combination.
func ZoneID(disease DiseaseType, localityNo int, zone ZoneType) string {
	return fmt.Sprintf("%s-%d-%s", disease, localityNo, zone)
}

// ZoneStats summarizes a generated zone set.
type ZoneStats struct {
	Total      int `json:"totalZones"`
	ILAZones   int `json:"ilaZones"`
	PDZones    int `json:"pdZones"`
	OtherZones int `json:"otherZones"`
}

// ZoneCollection is the result of one zone generation pass.
type ZoneCollection struct {
	Features  []ZoneFeature `json:"features"`
	Stats     ZoneStats     `json:"stats"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Source    string        `json:"source"`
}

// Count recomputes the summary stats over the feature set.
func (c *ZoneCollection) Count() {
	s := ZoneStats{Total: len(c.Features)}
	for _, f := range c.Features {
		switch f.Disease {
		case DiseaseILA:
			s.ILAZones++
		case DiseasePD:
			s.PDZones++
		default:
			s.OtherZones++
		}
	}
	c.Stats = s
}

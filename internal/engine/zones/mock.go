package zones

import (
	"encoding/json"
	"time"

	"go.trai.ch/fjordsync/internal/core/domain"
)

// MockSource marks a collection that came from the built-in fallback data.
const MockSource = "Mock"

// MockDiseaseZones returns the built-in disease zone dataset: typical ILA
// and PD zones along the coast. Used when the upstream API is unreachable
// and nothing is cached.
func MockDiseaseZones(fetchedAt time.Time) domain.ZoneCollection {
	coll := domain.ZoneCollection{
		Features: []domain.ZoneFeature{
			{
				ID:           "mock-ila-1",
				Name:         "ILA-sone Bodø",
				Disease:      domain.DiseaseILA,
				DiseaseName:  "Infeksiøs lakseanemi (ILA)",
				Zone:         domain.ZoneSurveillance,
				Municipality: "Bodø",
				RadiusKm:     domain.SurveillanceRadiusKm,
				Center:       domain.LatLng{Lat: 67.8, Lng: 14.5},
			},
			{
				ID:           "mock-ila-2",
				Name:         "ILA-sone Bodø (indre)",
				Disease:      domain.DiseaseILA,
				DiseaseName:  "Infeksiøs lakseanemi (ILA)",
				Zone:         domain.ZoneProtection,
				Municipality: "Bodø",
				RadiusKm:     domain.ProtectionRadiusKm,
				Center:       domain.LatLng{Lat: 67.8, Lng: 14.5},
			},
			{
				ID:           "mock-pd-1",
				Name:         "PD-sone Hardangerfjorden",
				Disease:      domain.DiseasePD,
				DiseaseName:  "Pankreassykdom (PD)",
				Zone:         domain.ZoneSurveillance,
				Municipality: "Ullensvang",
				RadiusKm:     domain.SurveillanceRadiusKm,
				Center:       domain.LatLng{Lat: 60.4, Lng: 5.3},
			},
			{
				ID:           "mock-ila-3",
				Name:         "ILA-sone Senja",
				Disease:      domain.DiseaseILA,
				DiseaseName:  "Infeksiøs lakseanemi (ILA)",
				Zone:         domain.ZoneSurveillance,
				Municipality: "Senja",
				RadiusKm:     domain.SurveillanceRadiusKm,
				Center:       domain.LatLng{Lat: 69.4, Lng: 18.5},
			},
			{
				ID:           "mock-pd-2",
				Name:         "PD-sone Ålesund",
				Disease:      domain.DiseasePD,
				DiseaseName:  "Pankreassykdom (PD)",
				Zone:         domain.ZoneSurveillance,
				Municipality: "Ålesund",
				RadiusKm:     domain.SurveillanceRadiusKm,
				Center:       domain.LatLng{Lat: 62.5, Lng: 6.3},
			},
		},
		FetchedAt: fetchedAt,
		Source:    MockSource,
	}
	coll.Count()
	return coll
}

func rect(minLng, minLat, maxLng, maxLat float64) json.RawMessage {
	geom, _ := json.Marshal(map[string]any{
		"type": "Polygon",
		"coordinates": [][][2]float64{{
			{minLng, minLat},
			{maxLng, minLat},
			{maxLng, maxLat},
			{minLng, maxLat},
			{minLng, minLat},
		}},
	})
	return geom
}

// MockProtectedAreas returns the built-in conservation area dataset.
func MockProtectedAreas(fetchedAt time.Time) domain.AreaCollection {
	return domain.AreaCollection{
		Features: []domain.ProtectedArea{
			{
				ID:              "mock-nr-1",
				Name:            "Røstlandet naturreservat",
				AreaType:        "naturreservat",
				EstablishedYear: 2002,
				Regulation:      "Forskrift om Røstlandet naturreservat",
				Municipality:    "Røst",
				Geometry:        rect(13.5, 68.2, 13.8, 68.35),
			},
			{
				ID:              "mock-df-1",
				Name:            "Vestfjorden dyrelivsfredningsområde",
				AreaType:        "dyrelivsfredning",
				EstablishedYear: 1995,
				Regulation:      "Forskrift om dyrelivsfredning Vestfjorden",
				Municipality:    "Vågan",
				Geometry:        rect(14.0, 67.5, 14.4, 67.7),
			},
			{
				ID:              "mock-nr-2",
				Name:            "Sognefjorden naturreservat",
				AreaType:        "naturreservat",
				EstablishedYear: 2010,
				Regulation:      "Forskrift om Sognefjorden naturreservat",
				Municipality:    "Sogndal",
				Geometry:        rect(6.8, 61.0, 7.2, 61.15),
			},
			{
				ID:              "mock-mv-1",
				Name:            "Tromsøflaket marine verneområde",
				AreaType:        "marint_verneomrade",
				EstablishedYear: 2018,
				Regulation:      "Forskrift om marine verneområder Troms",
				Municipality:    "Tromsø",
				Geometry:        rect(18.2, 69.5, 18.8, 69.7),
			},
		},
		FetchedAt: fetchedAt,
		Source:    MockSource,
	}
}

// mockSite seeds one deterministic mock locality.
type mockSite struct {
	name     string
	lat, lng float64
	muni     string
	lice     float64
	diseases []string
}

var mockSites = []mockSite{
	{"Klongsholmen", 60.5833, 5.4167, "Bergen", 0.65, nil},
	{"Øygarden Nord", 60.5900, 5.4300, "Øygarden", 1.82, []string{"PANKREASSYKDOM"}},
	{"Hardangerfjorden Nord", 60.3000, 6.3000, "Ullensvang", 0.62, []string{"PANKREASSYKDOM"}},
	{"Sognefjorden Indre", 61.0900, 7.2000, "Sogndal", 0.48, nil},
	{"Ålesund Sør", 62.4700, 6.1500, "Ålesund", 1.12, nil},
	{"Hitra Nord", 63.6000, 8.6500, "Hitra", 0.85, nil},
	{"Bodø Vest", 67.2800, 14.4000, "Bodø", 0.35, []string{"INFEKSIOES_LAKSEANEMI"}},
	{"Lofoten Sør", 68.0800, 13.5700, "Vågan", 0.42, nil},
	{"Senja Nord", 69.3500, 17.9700, "Senja", 0.35, []string{"INFEKSIOES_LAKSEANEMI"}},
	{"Alta Vest", 69.9700, 23.2700, "Alta", 0.22, nil},
}

// MockLocalities returns the deterministic locality dataset used when live
// lice data cannot be fetched. Locality numbers start at 10000.
func MockLocalities(year, week int) []domain.Locality {
	out := make([]domain.Locality, 0, len(mockSites))
	for i, site := range mockSites {
		lice := site.lice
		out = append(out, domain.Locality{
			LocalityNo:         10000 + i,
			Name:               site.name,
			Latitude:           site.lat,
			Longitude:          site.lng,
			Municipality:       site.muni,
			Diseases:           site.diseases,
			AvgAdultFemaleLice: &lice,
			HasReported:        true,
			Status:             domain.ClassifyLice(&lice, week),
			Year:               year,
			Week:               week,
		})
	}
	return out
}

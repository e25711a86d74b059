// Package zones derives disease monitoring circles from locality reports
// and serves the cached geodata collections.
package zones

import (
	"fmt"
	"time"

	"go.trai.ch/fjordsync/internal/core/domain"
)

// Generate builds the monitoring circles for every disease-reporting
// locality. Localities without diseases, without coordinates, or without a
// locality number are skipped; duplicate locality numbers contribute only
// once. Every disease yields a surveillance circle, ILA additionally a
// protection circle.
func Generate(localities []domain.Locality, fetchedAt time.Time, source string) domain.ZoneCollection {
	coll := domain.ZoneCollection{
		FetchedAt: fetchedAt,
		Source:    source,
	}

	seen := make(map[int]bool, len(localities))
	for _, loc := range localities {
		if len(loc.Diseases) == 0 {
			continue
		}
		if loc.LocalityNo == 0 || loc.Latitude == 0 || loc.Longitude == 0 {
			continue
		}
		if seen[loc.LocalityNo] {
			continue
		}
		seen[loc.LocalityNo] = true

		label := loc.Name
		if label == "" {
			label = fmt.Sprintf("%d", loc.LocalityNo)
		}
		center := domain.LatLng{Lat: loc.Latitude, Lng: loc.Longitude}

		emitted := make(map[domain.DiseaseType]bool, len(loc.Diseases))
		for _, code := range loc.Diseases {
			dtype, displayName := domain.ClassifyDisease(code)
			if emitted[dtype] {
				continue
			}
			emitted[dtype] = true

			coll.Features = append(coll.Features, domain.ZoneFeature{
				ID:           domain.ZoneID(dtype, loc.LocalityNo, domain.ZoneSurveillance),
				Name:         fmt.Sprintf("%s-sone %s", dtype, label),
				Disease:      dtype,
				DiseaseName:  displayName,
				Zone:         domain.ZoneSurveillance,
				LocalityNo:   loc.LocalityNo,
				LocalityName: loc.Name,
				Municipality: loc.Municipality,
				RadiusKm:     domain.SurveillanceRadiusKm,
				Center:       center,
			})

			if dtype == domain.DiseaseILA {
				coll.Features = append(coll.Features, domain.ZoneFeature{
					ID:           domain.ZoneID(dtype, loc.LocalityNo, domain.ZoneProtection),
					Name:         fmt.Sprintf("ILA beskyttelsessone %s", label),
					Disease:      dtype,
					DiseaseName:  displayName,
					Zone:         domain.ZoneProtection,
					LocalityNo:   loc.LocalityNo,
					LocalityName: loc.Name,
					Municipality: loc.Municipality,
					RadiusKm:     domain.ProtectionRadiusKm,
					Center:       center,
				})
			}
		}
	}

	coll.Count()
	return coll
}

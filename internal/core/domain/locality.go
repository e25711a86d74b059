// Package domain contains the core types of the geodata sync engine.
package domain

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Locality is a registered aquaculture site as reported by the fish health
// API. It is read-only within this engine.
type Locality struct {
	LocalityNo   int      `json:"localityNo"`
	Name         string   `json:"name"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Municipality string   `json:"municipality"`
	Diseases     []string `json:"diseases"`

	AvgAdultFemaleLice *float64   `json:"avgAdultFemaleLice"`
	AvgMobileLice      *float64   `json:"avgMobileLice"`
	SeaTemperature     *float64   `json:"seaTemperature"`
	HasReported        bool       `json:"hasReported"`
	IsFallow           bool       `json:"isFallow"`
	Status             LiceStatus `json:"status"`

	Year int `json:"year,omitempty"`
	Week int `json:"week,omitempty"`
}

// LocalityHealth is the per-locality result of the batched fish health
// fan-out.
type LocalityHealth struct {
	LocalityNo         int      `json:"localityNo"`
	AvgAdultFemaleLice *float64 `json:"avgAdultFemaleLice"`
	AvgMobileLice      *float64 `json:"avgMobileLice"`
	SeaTemperature     *float64 `json:"seaTemperature"`
	IsFallow           bool     `json:"isFallow"`
	HasReported        bool     `json:"hasReported"`
	HasSalmonoids      bool     `json:"hasSalmonoids"`
	Diseases           []string `json:"diseases"`
}

// LiceStatus classifies an adult female lice average against the regulatory
// limit in force.
type LiceStatus string

const (
	StatusOK      LiceStatus = "OK"
	StatusWarning LiceStatus = "WARNING"
	StatusDanger  LiceStatus = "DANGER"
	StatusUnknown LiceStatus = "UNKNOWN"
)

// Regulatory lice limits (adult female lice per fish).
const (
	LiceLimitNormal = 0.5
	LiceLimitSpring = 0.2

	// liceWarningFraction of the active limit triggers a warning.
	liceWarningFraction = 0.6
)

// springWeek reports whether the given ISO week falls in the stricter
// spring delousing period.
func springWeek(week int) bool {
	return week >= 16 && week <= 21
}

// LiceLimitForWeek returns the regulatory limit in force for an ISO week.
func LiceLimitForWeek(week int) float64 {
	if springWeek(week) {
		return LiceLimitSpring
	}
	return LiceLimitNormal
}

// ClassifyLice maps an average adult female lice count to a status for the
// given ISO week. A nil average means the locality has not reported.
func ClassifyLice(avg *float64, week int) LiceStatus {
	if avg == nil {
		return StatusUnknown
	}
	limit := LiceLimitForWeek(week)
	switch {
	case *avg >= limit:
		return StatusDanger
	case *avg >= limit*liceWarningFraction:
		return StatusWarning
	default:
		return StatusOK
	}
}

// Package fiskeridir implements clients for the open ArcGIS REST map
// services: nature conservation areas and the aquaculture register. No
// authentication is required.
package fiskeridir

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// areaRecordLimit caps a conservation area query.
const areaRecordLimit = "500"

// localityRecordLimit caps an aquaculture register query.
const localityRecordLimit = "5000"

// Client queries the ArcGIS REST endpoints.
type Client struct {
	areasURL      string
	localitiesURL string
	http          ports.Doer
	log           ports.Logger
	now           func() time.Time
}

// NewClient creates an ArcGIS client. areasURL and localitiesURL are the
// full /query endpoints of the respective layers.
func NewClient(areasURL, localitiesURL string, doer ports.Doer, log ports.Logger) *Client {
	return &Client{
		areasURL:      areasURL,
		localitiesURL: localitiesURL,
		http:          doer,
		log:           log,
		now:           time.Now,
	}
}

type geoJSONCollection struct {
	Features []struct {
		Properties json.RawMessage `json:"properties"`
		Geometry   json.RawMessage `json:"geometry"`
	} `json:"features"`
}

type areaProperties struct {
	NaturvernID           json.Number `json:"naturvernId"`
	ObjectID              json.Number `json:"OBJECTID"`
	Navn                  string      `json:"navn"`
	Verneform             string      `json:"verneform"`
	Vernedato             *int64      `json:"vernedato"`
	Kommune               string      `json:"kommune"`
	Forvaltningsmyndighet string      `json:"forvaltningsmyndighet"`
	IUCN                  string      `json:"iucn"`
}

// ProtectedAreas fetches nature conservation areas as GeoJSON. bbox, when
// non-empty, is a "minLng,minLat,maxLng,maxLat" envelope filter.
func (c *Client) ProtectedAreas(ctx context.Context, bbox string) (domain.AreaCollection, error) {
	params := url.Values{
		"where":             {"1=1"},
		"outFields":         {"naturvernId,navn,verneform,vernedato,kommune,forvaltningsmyndighet,iucn"},
		"f":                 {"geojson"},
		"outSR":             {"4326"},
		"resultRecordCount": {areaRecordLimit},
	}
	if bbox != "" {
		params.Set("geometry", bbox)
		params.Set("geometryType", "esriGeometryEnvelope")
		params.Set("inSR", "4326")
		params.Set("spatialRel", "esriSpatialRelIntersects")
	}

	var wire geoJSONCollection
	if err := c.query(ctx, c.areasURL, params, &wire); err != nil {
		return domain.AreaCollection{}, err
	}

	out := domain.AreaCollection{
		Features:  make([]domain.ProtectedArea, 0, len(wire.Features)),
		FetchedAt: c.now(),
		Source:    "Miljødirektoratet",
	}
	for _, f := range wire.Features {
		var props areaProperties
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			continue
		}
		id := props.NaturvernID.String()
		if id == "" {
			id = props.ObjectID.String()
		}
		name := props.Navn
		if name == "" {
			name = "Ukjent verneområde"
		}
		areaType := props.Verneform
		if areaType == "" {
			areaType = "naturreservat"
		}
		area := domain.ProtectedArea{
			ID:           id,
			Name:         name,
			AreaType:     areaType,
			Regulation:   props.Forvaltningsmyndighet,
			IUCNCategory: props.IUCN,
			Municipality: props.Kommune,
			Geometry:     f.Geometry,
		}
		if props.Vernedato != nil {
			// vernedato comes as an epoch timestamp in milliseconds.
			area.EstablishedYear = time.UnixMilli(*props.Vernedato).UTC().Year()
		}
		out.Features = append(out.Features, area)
	}

	c.log.Debug("protected areas fetched", "count", len(out.Features), "bbox", bbox != "")
	return out, nil
}

type localityProperties struct {
	Loknr   json.Number `json:"loknr"`
	Navn    string      `json:"navn"`
	Kommune string      `json:"kommune"`
	Lat     float64     `json:"lat"`
	Lon     float64     `json:"lon"`
}

// Localities fetches the aquaculture register: every registered site with
// its position. The register has no lice or disease data.
func (c *Client) Localities(ctx context.Context) ([]domain.Locality, error) {
	params := url.Values{
		"where":             {"status_lokalitet='KLARERT' OR status_lokalitet='AKTIV'"},
		"outFields":         {"loknr,navn,kommune,lat,lon"},
		"returnGeometry":    {"false"},
		"f":                 {"geojson"},
		"outSR":             {"4326"},
		"resultRecordCount": {localityRecordLimit},
	}

	var wire geoJSONCollection
	if err := c.query(ctx, c.localitiesURL, params, &wire); err != nil {
		return nil, err
	}

	out := make([]domain.Locality, 0, len(wire.Features))
	for _, f := range wire.Features {
		var props localityProperties
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			continue
		}
		no, err := props.Loknr.Int64()
		if err != nil || no == 0 {
			continue
		}
		out = append(out, domain.Locality{
			LocalityNo:   int(no),
			Name:         props.Navn,
			Latitude:     props.Lat,
			Longitude:    props.Lon,
			Municipality: props.Kommune,
			Status:       domain.StatusUnknown,
		})
	}

	c.log.Debug("aquaculture register fetched", "count", len(out))
	return out, nil
}

func (c *Client) query(ctx context.Context, base string, params url.Values, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return zerr.Wrap(err, "failed to build map service request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zerr.Wrap(err, "map service request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zerr.With(domain.ErrUpstreamStatus, "status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return zerr.Wrap(err, domain.ErrDecodeResponse.Error())
	}
	return nil
}

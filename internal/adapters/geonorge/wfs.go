// Package geonorge implements the WFS client serving aquaculture facility
// boundaries as GML.
package geonorge

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/fjordsync/internal/gml"
	"go.trai.ch/zerr"
)

// featureLimit caps a GetFeature request.
const featureLimit = "10000"

// Client fetches facility boundary polygons over WFS 2.0.
type Client struct {
	base string
	http ports.Doer
	log  ports.Logger
	now  func() time.Time
}

// NewClient creates a WFS client for the given service base URL.
func NewClient(base string, doer ports.Doer, log ports.Logger) *Client {
	return &Client{base: base, http: doer, log: log, now: time.Now}
}

// LocalityPolygons fetches and parses all facility boundaries. The GML body
// is scanned as a stream; it is never buffered whole.
func (c *Client) LocalityPolygons(ctx context.Context) (domain.PolygonCollection, error) {
	params := url.Values{
		"service":  {"WFS"},
		"version":  {"2.0.0"},
		"request":  {"GetFeature"},
		"typeName": {"app:AkvakulturFlate"},
		"srsName":  {"EPSG:4326"},
		"count":    {featureLimit},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+params.Encode(), nil)
	if err != nil {
		return domain.PolygonCollection{}, zerr.Wrap(err, "failed to build WFS request")
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PolygonCollection{}, zerr.Wrap(err, "WFS request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.PolygonCollection{}, zerr.With(domain.ErrUpstreamStatus, "status", resp.StatusCode)
	}

	features := gml.Parse(resp.Body)
	c.log.Debug("facility boundaries fetched", "count", len(features))

	return domain.PolygonCollection{
		Features:  features,
		FetchedAt: c.now(),
		Source:    "GeoNorge",
	}, nil
}

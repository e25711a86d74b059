package barentswatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// RetryPredicate decides whether a failed by-week fetch should fall back to
// an earlier reporting week. The default retries on any non-success status,
// matching the upstream behavior where recent weeks simply have no data yet.
type RetryPredicate func(status int) bool

// RetryAnyFailure is the default RetryPredicate.
func RetryAnyFailure(status int) bool { return status < 200 || status >= 300 }

// RetryNotFoundOnly narrows week fallback to 404 responses, treating other
// failure classes as hard errors.
func RetryNotFoundOnly(status int) bool { return status == http.StatusNotFound }

// Client fetches locality and fish health data.
type Client struct {
	base      string
	http      ports.Doer
	tokens    ports.TokenSource
	log       ports.Logger
	retryWeek RetryPredicate
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryPredicate replaces the week-fallback decision.
func WithRetryPredicate(p RetryPredicate) ClientOption {
	return func(c *Client) { c.retryWeek = p }
}

// NewClient creates a fish health API client.
func NewClient(base string, doer ports.Doer, tokens ports.TokenSource, log ports.Logger, opts ...ClientOption) *Client {
	c := &Client{
		base:      strings.TrimRight(base, "/"),
		http:      doer,
		tokens:    tokens,
		log:       log,
		retryWeek: RetryAnyFailure,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upstream wire shapes.
type (
	wireLocalityRow struct {
		Locality struct {
			No        int     `json:"no"`
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"locality"`
		Municipality struct {
			Name string `json:"name"`
		} `json:"municipality"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Diseases   []string `json:"diseases"`
		LiceReport struct {
			AdultFemaleLice struct {
				Average *float64 `json:"average"`
			} `json:"adultFemaleLice"`
			MobileLice struct {
				Average *float64 `json:"average"`
			} `json:"mobileLice"`
			SeaTemperature *float64 `json:"seaTemperature"`
			HasReported    bool     `json:"hasReported"`
			IsFallow       bool     `json:"isFallow"`
		} `json:"liceReport"`
	}

	wireLocalityWeek struct {
		LocalityWeek struct {
			AvgAdultFemaleLice *float64 `json:"avgAdultFemaleLice"`
			AvgMobileLice      *float64 `json:"avgMobileLice"`
			IsFallow           bool     `json:"isFallow"`
			HasReportedLice    bool     `json:"hasReportedLice"`
			HasSalmonoids      bool     `json:"hasSalmonoids"`
			SeaTemperature     *float64 `json:"seaTemperature"`
		} `json:"localityWeek"`
		IlaPd struct {
			Ila bool `json:"ila"`
			Pd  bool `json:"pd"`
		} `json:"ilaPd"`
		IlaPdCase struct {
			IlaStatus bool `json:"ilaStatus"`
			PdStatus  bool `json:"pdStatus"`
		} `json:"ilaPdCase"`
	}
)

// LocalitiesForWeek fetches all localities with lice and disease data for
// the given reporting week. When the requested week has no data yet, each
// earlier week down to week-lookback is tried in turn, as decided by the
// retry predicate. It returns the week that actually produced data.
func (c *Client) LocalitiesForWeek(ctx context.Context, year, week, lookback int) ([]domain.Locality, int, error) {
	token := c.tokens.Token(ctx)
	if token == "" {
		return nil, 0, domain.ErrTokenUnavailable
	}

	earliest := max(1, week-lookback)
	for w := week; w >= earliest; w-- {
		rows, status, err := c.fetchWeek(ctx, token, year, w)
		if err != nil {
			return nil, 0, err
		}
		if status == http.StatusUnauthorized {
			// Token expired mid-session: force a fresh exchange, one retry.
			c.tokens.Invalidate()
			token = c.tokens.Token(ctx)
			if token == "" {
				return nil, 0, domain.ErrTokenUnavailable
			}
			rows, status, err = c.fetchWeek(ctx, token, year, w)
			if err != nil {
				return nil, 0, err
			}
		}
		if status >= 200 && status < 300 {
			c.log.Debug("fish health data fetched", "year", year, "week", w, "localities", len(rows))
			return c.toLocalities(rows, year, w), w, nil
		}
		if !c.retryWeek(status) {
			return nil, 0, zerr.With(domain.ErrUpstreamStatus, "status", status)
		}
		c.log.Debug("no data for week, trying earlier", "year", year, "week", w, "status", status)
	}

	return nil, 0, domain.ErrNoWeekData
}

func (c *Client) fetchWeek(ctx context.Context, token string, year, week int) ([]wireLocalityRow, int, error) {
	url := fmt.Sprintf("%s/fishhealth/locality/%d/%d", c.base, year, week)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return nil, 0, zerr.Wrap(err, "failed to build fish health request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, zerr.Wrap(err, "fish health request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, nil
	}

	var rows []wireLocalityRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, resp.StatusCode, zerr.Wrap(err, domain.ErrDecodeResponse.Error())
	}
	return rows, resp.StatusCode, nil
}

func (c *Client) toLocalities(rows []wireLocalityRow, year, week int) []domain.Locality {
	out := make([]domain.Locality, 0, len(rows))
	for _, row := range rows {
		lat, lng := row.Locality.Latitude, row.Locality.Longitude
		if lat == 0 && lng == 0 && len(row.Geometry.Coordinates) == 2 {
			// Some rows carry coordinates only as GeoJSON [lng, lat].
			lng, lat = row.Geometry.Coordinates[0], row.Geometry.Coordinates[1]
		}
		avg := row.LiceReport.AdultFemaleLice.Average
		out = append(out, domain.Locality{
			LocalityNo:         row.Locality.No,
			Name:               row.Locality.Name,
			Latitude:           lat,
			Longitude:          lng,
			Municipality:       row.Municipality.Name,
			Diseases:           row.Diseases,
			AvgAdultFemaleLice: avg,
			AvgMobileLice:      row.LiceReport.MobileLice.Average,
			SeaTemperature:     row.LiceReport.SeaTemperature,
			HasReported:        row.LiceReport.HasReported,
			IsFallow:           row.LiceReport.IsFallow,
			Status:             domain.ClassifyLice(avg, week),
			Year:               year,
			Week:               week,
		})
	}
	return out
}

// Localities fetches the bare locality list: number and name only, no lice
// or disease data. It feeds the per-locality fan-out.
func (c *Client) Localities(ctx context.Context) ([]domain.Locality, error) {
	token := c.tokens.Token(ctx)
	if token == "" {
		return nil, domain.ErrTokenUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/fishhealth/localities", nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build locality list request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, zerr.Wrap(err, "locality list request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, zerr.With(domain.ErrUpstreamStatus, "status", resp.StatusCode)
	}

	var wire []struct {
		LocalityNo int    `json:"localityNo"`
		Name       string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDecodeResponse.Error())
	}

	out := make([]domain.Locality, 0, len(wire))
	for _, w := range wire {
		if w.LocalityNo == 0 {
			continue
		}
		out = append(out, domain.Locality{
			LocalityNo: w.LocalityNo,
			Name:       w.Name,
			Status:     domain.StatusUnknown,
		})
	}
	return out, nil
}

// LocalityHealth fetches the per-locality week report used by the batched
// fan-out. A non-success status is an error here; the batch orchestrator
// swallows it.
func (c *Client) LocalityHealth(ctx context.Context, localityNo, year, week int) (domain.LocalityHealth, error) {
	token := c.tokens.Token(ctx)
	if token == "" {
		return domain.LocalityHealth{}, domain.ErrTokenUnavailable
	}

	url := fmt.Sprintf("%s/fishhealth/locality/%d/%d/%d", c.base, localityNo, year, week)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.LocalityHealth{}, zerr.Wrap(err, "failed to build locality request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.LocalityHealth{}, zerr.Wrap(err, "locality request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.LocalityHealth{}, zerr.With(domain.ErrUpstreamStatus, "status", resp.StatusCode)
	}

	var wire wireLocalityWeek
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.LocalityHealth{}, zerr.Wrap(err, domain.ErrDecodeResponse.Error())
	}

	return domain.LocalityHealth{
		LocalityNo:         localityNo,
		AvgAdultFemaleLice: wire.LocalityWeek.AvgAdultFemaleLice,
		AvgMobileLice:      wire.LocalityWeek.AvgMobileLice,
		SeaTemperature:     wire.LocalityWeek.SeaTemperature,
		IsFallow:           wire.LocalityWeek.IsFallow,
		HasReported:        wire.LocalityWeek.HasReportedLice,
		HasSalmonoids:      wire.LocalityWeek.HasSalmonoids,
		Diseases:           extractDiseases(wire),
	}, nil
}

// extractDiseases folds the two disease report shapes into canonical codes.
func extractDiseases(w wireLocalityWeek) []string {
	var out []string
	if w.IlaPd.Ila || w.IlaPdCase.IlaStatus {
		out = append(out, "INFEKSIOES_LAKSEANEMI")
	}
	if w.IlaPd.Pd || w.IlaPdCase.PdStatus {
		out = append(out, "PANKREASSYKDOM")
	}
	return out
}

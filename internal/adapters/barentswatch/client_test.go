package barentswatch

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const weekPayload = `[
	{
		"locality": {"no": 12345, "name": "Storfjorden", "latitude": 62.4, "longitude": 6.1},
		"municipality": {"name": "Fjord"},
		"diseases": ["PANKREASSYKDOM"],
		"liceReport": {
			"adultFemaleLice": {"average": 0.3},
			"mobileLice": {"average": 1.1},
			"seaTemperature": 8.5,
			"hasReported": true,
			"isFallow": false
		}
	},
	{
		"locality": {"no": 23456, "name": "Nordbukta"},
		"municipality": {"name": "Kyst"},
		"geometry": {"coordinates": [5.2, 61.8]},
		"liceReport": {"hasReported": false}
	}
]`

func TestLocalitiesForWeekFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().Token(gomock.Any()).Return("tok").AnyTimes()

	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		if strings.HasSuffix(req.URL.Path, "/fishhealth/locality/2026/35") {
			return jsonResponse(http.StatusNotFound, `{}`), nil
		}
		require.True(t, strings.HasSuffix(req.URL.Path, "/fishhealth/locality/2026/34"))
		require.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		return jsonResponse(http.StatusOK, weekPayload), nil
	}).Times(2)

	c := NewClient("https://api.example.com/geodata", doer, tokens, nopLogger{})

	localities, week, err := c.LocalitiesForWeek(t.Context(), 2026, 35, 4)
	require.NoError(t, err)
	require.Equal(t, 34, week)
	require.Len(t, localities, 2)

	first := localities[0]
	require.Equal(t, 12345, first.LocalityNo)
	require.Equal(t, "Storfjorden", first.Name)
	require.Equal(t, "Fjord", first.Municipality)
	require.Equal(t, []string{"PANKREASSYKDOM"}, first.Diseases)
	require.NotNil(t, first.AvgAdultFemaleLice)
	require.InDelta(t, 0.3, *first.AvgAdultFemaleLice, 1e-9)
	// 0.3 is 60% of the 0.5 limit in week 34.
	require.Equal(t, domain.StatusWarning, first.Status)
	require.Equal(t, 34, first.Week)

	// Second row has no top-level coordinates; the GeoJSON point fills in.
	second := localities[1]
	require.InDelta(t, 61.8, second.Latitude, 1e-9)
	require.InDelta(t, 5.2, second.Longitude, 1e-9)
	require.Equal(t, domain.StatusUnknown, second.Status)
}

func TestLocalitiesForWeekRetriesOnUnauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	gomock.InOrder(
		tokens.EXPECT().Token(gomock.Any()).Return("stale"),
		tokens.EXPECT().Invalidate(),
		tokens.EXPECT().Token(gomock.Any()).Return("fresh"),
	)

	calls := 0
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			require.Equal(t, "Bearer stale", req.Header.Get("Authorization"))
			return jsonResponse(http.StatusUnauthorized, `{}`), nil
		}
		require.Equal(t, "Bearer fresh", req.Header.Get("Authorization"))
		return jsonResponse(http.StatusOK, weekPayload), nil
	}).Times(2)

	c := NewClient("https://api.example.com/geodata", doer, tokens, nopLogger{})

	localities, week, err := c.LocalitiesForWeek(t.Context(), 2026, 35, 4)
	require.NoError(t, err)
	require.Equal(t, 35, week)
	require.Len(t, localities, 2)
}

func TestLocalitiesForWeekExhaustsLookback(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().Token(gomock.Any()).Return("tok").AnyTimes()

	// Weeks 35 down to 31 inclusive, all empty.
	doer.EXPECT().Do(gomock.Any()).
		Return(jsonResponse(http.StatusNotFound, `{}`), nil).
		Times(5)

	c := NewClient("https://api.example.com/geodata", doer, tokens, nopLogger{})

	_, _, err := c.LocalitiesForWeek(t.Context(), 2026, 35, 4)
	require.ErrorIs(t, err, domain.ErrNoWeekData)
}

func TestLocalitiesForWeekWithoutToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().Token(gomock.Any()).Return("")

	c := NewClient("https://api.example.com/geodata", doer, tokens, nopLogger{})

	_, _, err := c.LocalitiesForWeek(t.Context(), 2026, 35, 4)
	require.ErrorIs(t, err, domain.ErrTokenUnavailable)
}

func TestLocalitiesForWeekHardFailureWithNarrowPredicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().Token(gomock.Any()).Return("tok")

	doer.EXPECT().Do(gomock.Any()).
		Return(jsonResponse(http.StatusBadGateway, `{}`), nil)

	c := NewClient("https://api.example.com/geodata", doer, tokens, nopLogger{},
		WithRetryPredicate(RetryNotFoundOnly))

	_, _, err := c.LocalitiesForWeek(t.Context(), 2026, 35, 4)
	require.ErrorIs(t, err, domain.ErrUpstreamStatus)
}

func TestLocalityHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().Token(gomock.Any()).Return("tok")

	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, req.Method)
		require.True(t, strings.HasSuffix(req.URL.Path, "/fishhealth/locality/12345/2026/35"))
		return jsonResponse(http.StatusOK, `{
			"localityWeek": {
				"avgAdultFemaleLice": 0.12,
				"avgMobileLice": 0.8,
				"isFallow": false,
				"hasReportedLice": true,
				"hasSalmonoids": true,
				"seaTemperature": 9.1
			},
			"ilaPd": {"ila": true, "pd": false},
			"ilaPdCase": {"ilaStatus": false, "pdStatus": true}
		}`), nil
	})

	c := NewClient("https://api.example.com/geodata", doer, tokens, nopLogger{})

	health, err := c.LocalityHealth(t.Context(), 12345, 2026, 35)
	require.NoError(t, err)
	require.Equal(t, 12345, health.LocalityNo)
	require.True(t, health.HasReported)
	require.True(t, health.HasSalmonoids)
	require.NotNil(t, health.AvgAdultFemaleLice)
	require.InDelta(t, 0.12, *health.AvgAdultFemaleLice, 1e-9)
	// Either report shape can assert a disease.
	require.Equal(t, []string{"INFEKSIOES_LAKSEANEMI", "PANKREASSYKDOM"}, health.Diseases)
}

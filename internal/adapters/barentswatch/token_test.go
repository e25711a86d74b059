package barentswatch

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// nopLogger discards all output. Shared by the tests in this package.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(error)          {}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func tokenBody(token string, expiresIn int) string {
	return fmt.Sprintf(`{"access_token":%q,"expires_in":%d}`, token, expiresIn)
}

func TestBrokerWithoutCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	b := NewBroker("https://id.example.com/token", "", "", doer, nopLogger{})
	require.Empty(t, b.Token(t.Context()))
}

func TestBrokerExchangesAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))

		require.NoError(t, req.ParseForm())
		require.Equal(t, "client_credentials", req.PostForm.Get("grant_type"))
		require.Equal(t, "client-1", req.PostForm.Get("client_id"))
		require.Equal(t, "secret-1", req.PostForm.Get("client_secret"))
		require.Equal(t, "api", req.PostForm.Get("scope"))

		return jsonResponse(http.StatusOK, tokenBody("tok-a", 3600)), nil
	}).Times(1)

	b := NewBroker("https://id.example.com/token", "client-1", "secret-1", doer, nopLogger{})

	require.Equal(t, "tok-a", b.Token(t.Context()))
	// Second call must come from the cache.
	require.Equal(t, "tok-a", b.Token(t.Context()))
}

func TestBrokerRenewalBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	exchanges := 0
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(*http.Request) (*http.Response, error) {
		exchanges++
		return jsonResponse(http.StatusOK, tokenBody(fmt.Sprintf("tok-%d", exchanges), 3600)), nil
	}).Times(2)

	b := NewBroker("https://id.example.com/token", "client-1", "secret-1", doer, nopLogger{},
		WithBrokerClock(func() time.Time { return now }))

	require.Equal(t, "tok-1", b.Token(t.Context()))

	// 61s before expiry the token is still outside the renewal buffer.
	now = start.Add(3600*time.Second - 61*time.Second)
	require.Equal(t, "tok-1", b.Token(t.Context()))

	// 59s before expiry it must be refreshed.
	now = start.Add(3600*time.Second - 59*time.Second)
	require.Equal(t, "tok-2", b.Token(t.Context()))
}

func TestBrokerExchangeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	doer.EXPECT().Do(gomock.Any()).
		Return(jsonResponse(http.StatusInternalServerError, `{"error":"server_error"}`), nil)

	b := NewBroker("https://id.example.com/token", "client-1", "secret-1", doer, nopLogger{})
	require.Empty(t, b.Token(t.Context()))
}

func TestBrokerInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	exchanges := 0
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(*http.Request) (*http.Response, error) {
		exchanges++
		return jsonResponse(http.StatusOK, tokenBody(fmt.Sprintf("tok-%d", exchanges), 3600)), nil
	}).Times(2)

	b := NewBroker("https://id.example.com/token", "client-1", "secret-1", doer, nopLogger{})

	require.Equal(t, "tok-1", b.Token(t.Context()))
	b.Invalidate()
	require.Equal(t, "tok-2", b.Token(t.Context()))
}

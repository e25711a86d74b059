package offline

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/zerr"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(error)          {}

// stubTransport is a scriptable next round tripper.
type stubTransport struct {
	mu     sync.Mutex
	fail   bool
	status int
	body   string
	seen   []string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, req.Method+" "+req.URL.String())
	if s.fail {
		return nil, zerr.New("connection refused")
	}
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/octet-stream"}},
		Body:       io.NopCloser(strings.NewReader(s.body)),
	}, nil
}

func (s *stubTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *stubTransport) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func testConfig() Config {
	return Config{
		TileHosts:      []string{"tile.example.com"},
		GeodataHosts:   []string{"geodata.example.com"},
		CacheablePaths: []string{"/api/locations", "/api/samples"},
	}
}

func get(t *testing.T, i *Interceptor, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestTilesCacheFirst(t *testing.T) {
	next := &stubTransport{body: "tile-bytes"}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	resp := get(t, i, "https://tile.example.com/10/5/3.png")
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "tile-bytes", string(body))
	require.Equal(t, 1, next.calls())
	<-i.Done()

	// Second request is a cache hit, upstream untouched.
	resp = get(t, i, "https://tile.example.com/10/5/3.png")
	body, _ = io.ReadAll(resp.Body)
	require.Equal(t, "tile-bytes", string(body))
	require.Equal(t, 1, next.calls())
}

func TestTilesOfflineMissYieldsEmptyNotFound(t *testing.T) {
	next := &stubTransport{fail: true}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	resp := get(t, i, "https://tile.example.com/10/5/3.png")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Empty(t, body)

	// The transport failure flips the inferred connectivity.
	require.False(t, i.Online())
}

func TestGeodataNetworkFirstWithCachedFallback(t *testing.T) {
	next := &stubTransport{body: `{"features":[]}`}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	resp := get(t, i, "https://geodata.example.com/fishhealth/locality/2026/35")
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, `{"features":[]}`, string(body))
	<-i.Done()

	next.setFail(true)

	// The cached copy is served once the network goes away.
	resp = get(t, i, "https://geodata.example.com/fishhealth/locality/2026/35")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	require.Equal(t, `{"features":[]}`, string(body))
}

func TestGeodataOfflineWithoutCache(t *testing.T) {
	next := &stubTransport{fail: true}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	resp := get(t, i, "https://geodata.example.com/fishhealth/locality/2026/35")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, "Offline", payload["error"])
	require.Equal(t, true, payload["offline"])
	require.NotEmpty(t, payload["message"])
}

func TestCacheableAPIPathsUseNetworkFirst(t *testing.T) {
	next := &stubTransport{body: `[{"id":1}]`}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	get(t, i, "https://app.example.com/api/locations")
	<-i.Done()
	next.setFail(true)

	resp := get(t, i, "https://app.example.com/api/locations")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Non-cacheable API paths pass straight through, errors included.
	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/api/admin", nil)
	_, err := i.RoundTrip(req)
	require.Error(t, err)
}

func TestUnmatchedPassThrough(t *testing.T) {
	next := &stubTransport{body: "anything"}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	get(t, i, "https://other.example.com/whatever")
	get(t, i, "https://other.example.com/whatever")
	require.Equal(t, 2, next.calls())
}

func TestStaticAssetsCacheFirst(t *testing.T) {
	next := &stubTransport{body: "body{}"}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	get(t, i, "https://app.example.com/assets/main.css")
	<-i.Done()
	get(t, i, "https://app.example.com/assets/main.css")
	require.Equal(t, 1, next.calls())
}

func TestOfflineWriteBroadcastsOnce(t *testing.T) {
	next := &stubTransport{}
	hub := NewHub()
	msgs, cancel := hub.Subscribe()
	defer cancel()

	i := NewInterceptor(next, testConfig(), hub, nopLogger{})
	i.SetOnline(false)

	req, err := http.NewRequest(http.MethodPost, "https://app.example.com/api/samples",
		bytes.NewReader([]byte(`{"count":42}`)))
	require.NoError(t, err)

	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, true, payload["success"])
	require.Equal(t, true, payload["offline"])

	// The write never reached the network.
	require.Zero(t, next.calls())

	// Exactly one broadcast.
	msg := <-msgs
	require.Equal(t, domain.MessageOfflineSave, msg.Type)
	require.NotNil(t, msg.Data)
	require.Equal(t, http.MethodPost, msg.Data.Method)
	require.Equal(t, "https://app.example.com/api/samples", msg.Data.URL)
	require.JSONEq(t, `{"count":42}`, string(msg.Data.Body))
	select {
	case extra := <-msgs:
		t.Fatalf("unexpected second broadcast: %+v", extra)
	default:
	}
}

func TestOnlineWritePassesThrough(t *testing.T) {
	next := &stubTransport{body: `{"ok":true}`}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	req, _ := http.NewRequest(http.MethodPost, "https://app.example.com/api/samples",
		bytes.NewReader([]byte(`{}`)))
	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, next.calls())
}

func TestWriteTransportFailureQueues(t *testing.T) {
	next := &stubTransport{fail: true}
	hub := NewHub()
	msgs, cancel := hub.Subscribe()
	defer cancel()

	i := NewInterceptor(next, testConfig(), hub, nopLogger{})

	req, _ := http.NewRequest(http.MethodPost, "https://app.example.com/api/samples",
		bytes.NewReader([]byte(`{"a":1}`)))
	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, i.Online())

	msg := <-msgs
	require.Equal(t, domain.MessageOfflineSave, msg.Type)
}

// drainTransport consumes the request body before failing, the way a real
// transport does when the connection drops mid-send.
type drainTransport struct{}

func (drainTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		req.Body.Close()
	}
	return nil, zerr.New("connection refused")
}

func TestWriteTransportFailureKeepsPayload(t *testing.T) {
	hub := NewHub()
	msgs, cancel := hub.Subscribe()
	defer cancel()

	i := NewInterceptor(drainTransport{}, testConfig(), hub, nopLogger{})

	req, _ := http.NewRequest(http.MethodPost, "https://app.example.com/api/samples",
		bytes.NewReader([]byte(`{"count":42}`)))
	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, i.Online())

	msg := <-msgs
	require.Equal(t, domain.MessageOfflineSave, msg.Type)
	require.JSONEq(t, `{"count":42}`, string(msg.Data.Body))
}

func TestSyncTrigger(t *testing.T) {
	hub := NewHub()
	msgs, cancel := hub.Subscribe()
	defer cancel()

	i := NewInterceptor(&stubTransport{}, testConfig(), hub, nopLogger{})
	i.SyncTrigger()

	msg := <-msgs
	require.Equal(t, domain.MessageSyncStart, msg.Type)
	require.Nil(t, msg.Data)
}

func TestInstallPrePopulates(t *testing.T) {
	next := &stubTransport{body: "<html></html>"}
	i := NewInterceptor(next, testConfig(), NewHub(), nopLogger{})

	i.Install([]string{
		"https://app.example.com/",
		"https://app.example.com/index.html",
		"https://app.example.com/manifest.json",
	})
	require.Equal(t, 3, i.static.len())

	// Installed copies are served without refetching.
	next.setFail(true)
	resp := get(t, i, "https://app.example.com/index.html")
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "<html></html>", string(body))
}

func TestActivateDropsUnknownNamespaces(t *testing.T) {
	i := NewInterceptor(&stubTransport{}, testConfig(), NewHub(), nopLogger{})

	old := i.namespaceFor("fjordsync-static-v0", 0)
	old.put("https://app.example.com/old", http.StatusOK, nil, []byte("stale"))

	i.Activate([]string{StaticNamespace, TileNamespace})

	require.Zero(t, old.len())
	i.mu.Lock()
	_, ok := i.namespaces["fjordsync-static-v0"]
	i.mu.Unlock()
	require.False(t, ok)

	// Current namespaces survive.
	i.mu.Lock()
	_, ok = i.namespaces[StaticNamespace]
	i.mu.Unlock()
	require.True(t, ok)
}

// Package offline implements the offline resilience layer: an
// http.RoundTripper that routes requests through per-kind cache strategies
// so map tiles, geodata and API responses stay available without a network.
package offline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports"
)

// Versioned namespace names. Bump the version to discard a namespace's
// contents on the next Activate.
const (
	StaticNamespace = "fjordsync-static-v1"
	TileNamespace   = "fjordsync-tiles-v1"
)

// DefaultMaxTiles caps the tile namespace before eviction kicks in.
const DefaultMaxTiles = 2000

// evictFraction of the tile cache is dropped per eviction pass.
const evictFraction = 0.2

// defaultStaticExtensions are the asset suffixes cached opportunistically.
var defaultStaticExtensions = []string{".js", ".css", ".png", ".jpg", ".svg", ".woff2", ".ico"}

// Config selects which requests each strategy applies to.
type Config struct {
	// TileHosts are served cache-first from the tile namespace.
	TileHosts []string
	// GeodataHosts are served network-first with cached fallback.
	GeodataHosts []string
	// CacheablePaths are API path prefixes cached on success.
	CacheablePaths []string
	// StaticExtensions overrides the cached asset suffixes.
	StaticExtensions []string
	// MaxTiles caps the tile namespace. Zero means DefaultMaxTiles.
	MaxTiles int
}

// Interceptor is the caching round tripper. It is safe for concurrent use.
type Interceptor struct {
	next  http.RoundTripper
	cfg   Config
	bcast ports.Broadcaster
	log   ports.Logger
	now   func() time.Time

	mu         sync.Mutex
	namespaces map[string]*namespace
	tiles      *namespace
	static     *namespace

	online  atomic.Bool
	pending sync.WaitGroup
}

// InterceptorOption configures an Interceptor.
type InterceptorOption func(*Interceptor)

// WithInterceptorClock overrides the time source. Used by tests.
func WithInterceptorClock(now func() time.Time) InterceptorOption {
	return func(i *Interceptor) { i.now = now }
}

// NewInterceptor wraps next with the offline strategies. next may be nil,
// in which case http.DefaultTransport is used.
func NewInterceptor(next http.RoundTripper, cfg Config, bcast ports.Broadcaster, log ports.Logger, opts ...InterceptorOption) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	if cfg.MaxTiles <= 0 {
		cfg.MaxTiles = DefaultMaxTiles
	}
	if len(cfg.StaticExtensions) == 0 {
		cfg.StaticExtensions = defaultStaticExtensions
	}

	i := &Interceptor{
		next:       next,
		cfg:        cfg,
		bcast:      bcast,
		log:        log,
		now:        time.Now,
		namespaces: make(map[string]*namespace),
	}
	i.online.Store(true)
	i.tiles = i.namespaceFor(TileNamespace, cfg.MaxTiles)
	i.static = i.namespaceFor(StaticNamespace, 0)

	for _, opt := range opts {
		opt(i)
	}
	return i
}

// namespaceFor returns the named response cache, creating it on first use.
// maxSize only applies on creation; zero means unbounded.
func (i *Interceptor) namespaceFor(name string, maxSize int) *namespace {
	i.mu.Lock()
	defer i.mu.Unlock()
	if ns, ok := i.namespaces[name]; ok {
		return ns
	}
	ns := newNamespace(name, maxSize, evictFraction)
	i.namespaces[name] = ns
	return ns
}

// SetOnline overrides the inferred connectivity state.
func (i *Interceptor) SetOnline(online bool) {
	i.online.Store(online)
}

// Online reports the current connectivity assumption.
func (i *Interceptor) Online() bool {
	return i.online.Load()
}

// Done returns a channel that closes once all cache writes issued so far
// have landed. Tests await it; regular callers never need to.
func (i *Interceptor) Done() <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		i.pending.Wait()
		close(ch)
	}()
	return ch
}

// RoundTrip routes the request through the first matching strategy.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return i.handleWrite(req)
	}

	switch {
	case i.matchHost(req, i.cfg.TileHosts):
		return i.cacheFirstTile(req)
	case i.matchHost(req, i.cfg.GeodataHosts):
		return i.networkFirst(req)
	case i.matchPath(req, i.cfg.CacheablePaths):
		return i.networkFirst(req)
	case i.matchExtension(req):
		return i.cacheFirstStatic(req)
	default:
		// Installed pages ("/", manifests) have no asset extension but
		// still serve cache-first. Everything else passes through.
		if cached := i.static.get(req.URL.String()); cached != nil {
			return cached, nil
		}
		resp, err := i.next.RoundTrip(req)
		i.observe(err)
		return resp, err
	}
}

// handleWrite intercepts non-GET requests while offline: the request is not
// sent, its payload is broadcast for later replay, and a synthetic success
// is returned.
func (i *Interceptor) handleWrite(req *http.Request) (*http.Response, error) {
	// Snapshot the payload up front. A transport that fails mid-send has
	// already consumed req.Body, and the queued write must carry the data.
	var raw []byte
	if req.Body != nil {
		var err error
		raw, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return jsonResponse(http.StatusInternalServerError, map[string]any{
				"error": "Kunne ikke lagre data offline",
			}), nil
		}
		req.Body = io.NopCloser(bytes.NewReader(raw))
	}

	if i.Online() {
		resp, err := i.next.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		// Transport failure on a write: infer offline and queue it.
		i.observe(err)
	}

	if len(raw) > 0 && !json.Valid(raw) {
		return jsonResponse(http.StatusInternalServerError, map[string]any{
			"error": "Kunne ikke lagre data offline",
		}), nil
	}
	var body json.RawMessage
	if len(raw) > 0 {
		body = raw
	}

	i.bcast.Broadcast(domain.Message{
		Type: domain.MessageOfflineSave,
		Data: &domain.OfflineSave{
			URL:       req.URL.String(),
			Method:    req.Method,
			Body:      body,
			Timestamp: i.now(),
		},
	})
	i.log.Debug("write queued for replay", "method", req.Method, "url", req.URL.String())

	return jsonResponse(http.StatusOK, map[string]any{
		"success": true,
		"offline": true,
		"message": "Data lagret lokalt. Synkroniseres når du er online.",
	}), nil
}

// cacheFirstTile serves tiles from the cache, fetching and storing misses.
// An unreachable tile host with no cached copy yields an empty 404 so map
// rendering degrades instead of erroring.
func (i *Interceptor) cacheFirstTile(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	if cached := i.tiles.get(url); cached != nil {
		return cached, nil
	}

	resp, err := i.next.RoundTrip(req)
	i.observe(err)
	if err != nil {
		return emptyResponse(http.StatusNotFound), nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return i.storeAsync(i.tiles, url, resp)
	}
	return resp, nil
}

// networkFirst fetches live data and falls back to the cached copy, then to
// an offline error payload.
func (i *Interceptor) networkFirst(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	resp, err := i.next.RoundTrip(req)
	i.observe(err)
	if err == nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return i.storeAsync(i.static, url, resp)
		}
		return resp, nil
	}

	if cached := i.static.get(url); cached != nil {
		i.log.Debug("serving cached response", "url", url)
		return cached, nil
	}
	return jsonResponse(http.StatusServiceUnavailable, map[string]any{
		"error":   "Offline",
		"offline": true,
		"message": "Ingen nettverkstilkobling og ingen lagret kopi.",
	}), nil
}

// cacheFirstStatic serves static assets from the cache and populates it
// opportunistically.
func (i *Interceptor) cacheFirstStatic(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	if cached := i.static.get(url); cached != nil {
		return cached, nil
	}

	resp, err := i.next.RoundTrip(req)
	i.observe(err)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return i.storeAsync(i.static, url, resp)
	}
	return resp, nil
}

// storeAsync drains the response body, hands the copy to the namespace in
// the background and returns the response with its body restored.
func (i *Interceptor) storeAsync(ns *namespace, url string, resp *http.Response) (*http.Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	status, header := resp.StatusCode, resp.Header.Clone()
	i.pending.Add(1)
	go func() {
		defer i.pending.Done()
		ns.put(url, status, header, body)
	}()
	return resp, nil
}

// SyncTrigger asks foreground contexts to replay their queued writes.
func (i *Interceptor) SyncTrigger() {
	i.bcast.Broadcast(domain.Message{Type: domain.MessageSyncStart})
}

// Install pre-populates the static namespace with the given URLs. Failures
// are logged and skipped so a partial install still helps.
func (i *Interceptor) Install(urls []string) {
	for _, url := range urls {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			i.log.Warn("skipping invalid install URL", "url", url, "error", err)
			continue
		}
		resp, err := i.next.RoundTrip(req)
		if err != nil {
			i.log.Warn("install fetch failed", "url", url, "error", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			i.log.Warn("install fetch failed", "url", url, "status", resp.StatusCode)
			continue
		}
		i.static.put(url, resp.StatusCode, resp.Header, body)
	}
	i.log.Info("static assets installed", "count", i.static.len())
}

// Activate drops every namespace whose name is not in known. Called after a
// version bump to clear out stale caches.
func (i *Interceptor) Activate(known []string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for name, ns := range i.namespaces {
		if !slices.Contains(known, name) {
			ns.clear()
			delete(i.namespaces, name)
			i.log.Debug("namespace dropped", "name", name)
		}
	}
}

// observe feeds a transport result into the connectivity inference.
func (i *Interceptor) observe(err error) {
	if err != nil {
		if i.online.CompareAndSwap(true, false) {
			i.log.Warn("network unreachable, switching to offline mode")
		}
		return
	}
	if i.online.CompareAndSwap(false, true) {
		i.log.Info("network restored")
	}
}

func (i *Interceptor) matchHost(req *http.Request, hosts []string) bool {
	return slices.Contains(hosts, req.URL.Host)
}

func (i *Interceptor) matchPath(req *http.Request, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(req.URL.Path, p) {
			return true
		}
	}
	return false
}

func (i *Interceptor) matchExtension(req *http.Request) bool {
	for _, ext := range i.cfg.StaticExtensions {
		if strings.HasSuffix(req.URL.Path, ext) {
			return true
		}
	}
	return false
}

func jsonResponse(status int, payload map[string]any) *http.Response {
	body, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func emptyResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}
}

package offline

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// cachedResponse is one stored response body with enough metadata to
// synthesize an http.Response later.
type cachedResponse struct {
	status int
	header http.Header
	body   []byte
}

// namespace is one named response cache. Keys are 64-bit hashes of the
// request URL; insertion order is kept for eviction.
type namespace struct {
	name     string
	maxSize  int
	evictPct float64

	mu      sync.Mutex
	entries map[uint64]*cachedResponse
	order   []uint64
}

func newNamespace(name string, maxSize int, evictPct float64) *namespace {
	return &namespace{
		name:     name,
		maxSize:  maxSize,
		evictPct: evictPct,
		entries:  make(map[uint64]*cachedResponse),
	}
}

func cacheKey(url string) uint64 {
	return xxhash.Sum64String(url)
}

// get returns a stored response as a fresh http.Response, or nil.
func (n *namespace) get(url string) *http.Response {
	n.mu.Lock()
	e, ok := n.entries[cacheKey(url)]
	n.mu.Unlock()
	if !ok {
		return nil
	}
	return &http.Response{
		StatusCode:    e.status,
		Header:        e.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.body)),
		ContentLength: int64(len(e.body)),
	}
}

// put stores a response body. When the namespace grows past its size cap
// the oldest entries are evicted, a fifth of the cache at a time.
func (n *namespace) put(url string, status int, header http.Header, body []byte) {
	key := cacheKey(url)

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.entries[key]; !exists {
		n.order = append(n.order, key)
	}
	n.entries[key] = &cachedResponse{status: status, header: header.Clone(), body: body}

	if n.maxSize > 0 && len(n.entries) > n.maxSize {
		drop := int(float64(len(n.entries)) * n.evictPct)
		for _, old := range n.order[:drop] {
			delete(n.entries, old)
		}
		n.order = n.order[drop:]
	}
}

func (n *namespace) len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

func (n *namespace) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = make(map[uint64]*cachedResponse)
	n.order = nil
}

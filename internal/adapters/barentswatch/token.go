// Package barentswatch implements the fish health API adapter: the OAuth
// client-credentials token broker and the locality data client.
package barentswatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.trai.ch/fjordsync/internal/core/ports"
)

// renewalBuffer is subtracted from the token expiry when judging validity,
// so a token is refreshed before upstream starts rejecting it.
const renewalBuffer = 60 * time.Second

// Broker obtains and caches bearer tokens via the client-credentials flow.
//
// Token never returns an error: missing credentials and failed exchanges
// both yield an empty token, which callers treat as "use fallback". A
// refresh races last-writer-wins; the exchange is idempotent upstream.
type Broker struct {
	tokenURL     string
	clientID     string
	clientSecret string
	http         ports.Doer
	log          ports.Logger
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithBrokerClock overrides the time source. Used by tests.
func WithBrokerClock(now func() time.Time) BrokerOption {
	return func(b *Broker) { b.now = now }
}

// NewBroker creates a token broker. clientID and clientSecret may be empty.
func NewBroker(tokenURL, clientID, clientSecret string, doer ports.Doer, log ports.Logger, opts ...BrokerOption) *Broker {
	b := &Broker{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         doer,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid bearer token, or "" when none can be obtained.
func (b *Broker) Token(ctx context.Context) string {
	if b.clientID == "" || b.clientSecret == "" {
		return ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.token != "" && b.now().Before(b.expiresAt.Add(-renewalBuffer)) {
		return b.token
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {b.clientID},
		"client_secret": {b.clientSecret},
		"scope":         {"api"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		b.log.Warn("token request could not be built", "error", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.http.Do(req)
	if err != nil {
		b.log.Warn("token exchange failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		b.log.Warn("token endpoint rejected request", "status", resp.StatusCode, "body", string(body))
		return ""
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		b.log.Warn("token response could not be decoded", "error", err)
		return ""
	}

	b.token = tr.AccessToken
	b.expiresAt = b.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	b.log.Debug("access token obtained", "expires_in", tr.ExpiresIn)

	return b.token
}

// Invalidate discards the cached token so the next Token call performs a
// fresh exchange.
func (b *Broker) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
	b.expiresAt = time.Time{}
}

var _ ports.TokenSource = (*Broker)(nil)

package domain

import "go.trai.ch/zerr"

var (
	// ErrUpstreamStatus is returned when an upstream service answers with a
	// non-success HTTP status.
	ErrUpstreamStatus = zerr.New("unexpected upstream status")

	// ErrNoCredentials is returned when an operation requires OAuth
	// credentials and none are configured.
	ErrNoCredentials = zerr.New("no client credentials configured")

	// ErrTokenUnavailable is returned when no bearer token could be obtained.
	ErrTokenUnavailable = zerr.New("access token unavailable")

	// ErrNoWeekData is returned when no fish health data exists for any of
	// the attempted reporting weeks.
	ErrNoWeekData = zerr.New("no fish health data for attempted weeks")

	// ErrDecodeResponse is returned when an upstream payload cannot be decoded.
	ErrDecodeResponse = zerr.New("failed to decode upstream response")

	// ErrOffline is returned when a request is suppressed because the
	// interceptor is offline.
	ErrOffline = zerr.New("network unavailable")
)

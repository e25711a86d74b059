package ports

import "context"

// TokenSource provides bearer tokens for authenticated upstream calls.
//
// Token returns an empty string when no token can be obtained (missing
// credentials or a failed token exchange). Callers must treat an empty
// token as "use fallback", never as an error.
//
//go:generate mockgen -source=token.go -destination=mocks/mock_token.go -package=mocks
type TokenSource interface {
	Token(ctx context.Context) string

	// Invalidate discards any cached token so the next Token call performs
	// a fresh exchange. Used after an upstream 401.
	Invalidate()
}

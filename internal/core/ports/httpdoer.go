package ports

import "net/http"

// Doer abstracts the HTTP client so adapters can be tested without a
// network and so the offline interceptor can be layered underneath.
//
//go:generate mockgen -source=httpdoer.go -destination=mocks/mock_httpdoer.go -package=mocks
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

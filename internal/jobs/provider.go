package jobs

import "context"

// Provider is a job board reachable over HTTP.
type Provider interface {
	// Name is the short identifier used in logs, metrics and cache keys, e.g. "naukri".
	Name() string

	// Search returns listings for the query; missing fields may be blank.
	Search(ctx context.Context, q Query) ([]Listing, error)
}

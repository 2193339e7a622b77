package domain

import (
	"context"

	"github.com/civicsignal/econdash/internal/catalog"
)

// Fetcher retrieves one year of observations from an upstream source.
type Fetcher interface {
	// Source identifies the upstream for cache keys and metrics labels.
	Source() catalog.Source

	// FetchYear returns every requested variable observed for the location
	// and year. It fails with HTTPError or ResponseShapeError; validation of
	// the selection happens before it is called.
	FetchYear(ctx context.Context, loc Location, year string, codes []string) (YearResult, error)
}

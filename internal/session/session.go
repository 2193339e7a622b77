// Package session owns fetch orchestration and the per-user dashboard state.
//
// All fetch loops are strictly sequential. That is deliberate: the dashboard
// surfaces progress between years and between comparison counties, and a
// sequential loop makes partial results observable in the same order a user
// sees them load. Concurrent fan-out would change latency and failure
// visibility without changing results.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
)

// Session is the explicit value object for one user's dashboard state: the
// selection that was fetched plus its normalized results. The HTTP layer
// stores one per completed fetch and reuses it when a follow-up chart,
// export, or report request names its ID, so switching views does not
// refetch. It replaces ambient per-view state; every component receives its
// inputs explicitly.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Source    catalog.Source  `json:"source,omitempty"`
	Location  domain.Location `json:"location"`
	Years     []string        `json:"years,omitempty"`
	Codes     []string        `json:"codes,omitempty"`

	Results  domain.YearSeries `json:"results,omitempty"`
	Warnings string            `json:"warnings,omitempty"`
}

// NewSession creates a session for a selection. Results and Warnings are
// filled in by the caller once the fetch completes.
func NewSession(source catalog.Source, loc domain.Location, years, codes []string) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: domain.Now(),
		Source:    source,
		Location:  loc,
		Years:     years,
		Codes:     codes,
	}
}

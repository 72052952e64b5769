package digest

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPageDelay is the unconditional pacing sleep between page requests.
const DefaultPageDelay = 300 * time.Millisecond

// Paginator walks the pages of one search center, accumulating every page
// that could still contain in-window listings.
type Paginator struct {
	fetcher   Fetcher
	pageDelay time.Duration
}

func NewPaginator(fetcher Fetcher) *Paginator {
	return &Paginator{
		fetcher:   fetcher,
		pageDelay: DefaultPageDelay,
	}
}

// Collect fetches pages starting at 1 and stops when a page comes back
// empty, the reported total-page count is reached, or the oldest listing on
// a page predates the cutoff (pages are newest-first, so every later page is
// entirely out of window). A fetch failure stops pagination for this center
// and keeps whatever was already accumulated; it is never fatal to the run.
func (p *Paginator) Collect(ctx context.Context, token string, center SearchCenter, run RunContext) []Listing {
	var collected []Listing

	for page := 1; ; page++ {
		res, err := p.fetcher.FetchPage(ctx, token, PageRequest{Center: center, Page: page})
		if err != nil {
			slog.Warn("Page fetch failed, keeping partial results",
				"run_id", run.RunID, "zip", center.ZipCode, "page", page,
				"collected", len(collected), "error", err)
			return collected
		}

		if len(res.Listings) == 0 {
			return collected
		}

		collected = append(collected, res.Listings...)

		if page >= res.TotalPages {
			return collected
		}

		// Oldest listing on the page; anything on later pages is older
		// still. A zero time means the boundary timestamp did not parse,
		// which proves nothing about later pages, so pagination continues.
		oldest := res.Listings[len(res.Listings)-1]
		if !oldest.PublishedAt.IsZero() && oldest.PublishedAt.Before(run.Cutoff) {
			slog.Debug("Reached cutoff, stopping pagination",
				"run_id", run.RunID, "zip", center.ZipCode, "page", page)
			return collected
		}

		time.Sleep(p.pageDelay)
	}
}

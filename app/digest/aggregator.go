package digest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Aggregator runs the Paginator over every configured search center and
// produces the canonical listing collection: deduplicated, filtered and
// ordered by recency.
type Aggregator struct {
	tokens     TokenSource
	paginator  *Paginator
	centers    []SearchCenter
	exclusions []string
}

func NewAggregator(tokens TokenSource, paginator *Paginator, centers []SearchCenter, exclusions []string) *Aggregator {
	return &Aggregator{
		tokens:     tokens,
		paginator:  paginator,
		centers:    centers,
		exclusions: exclusions,
	}
}

// Run acquires one token for the whole run, then processes centers in
// configured order. Admission is first-seen-wins per listing ID, so the kept
// copy is deterministic for identical upstream data. The returned collection
// is sorted by PublishedAt descending with stable ties; an unparseable
// timestamp (zero time) sorts oldest.
func (a *Aggregator) Run(ctx context.Context, run RunContext) ([]Listing, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire access token: %w", err)
	}

	seen := make(map[string]struct{})
	var admitted []Listing

	for _, center := range a.centers {
		listings := a.paginator.Collect(ctx, token, center, run)

		windowed := 0
		excluded := 0
		duplicates := 0
		kept := 0

		for _, l := range listings {
			if !WithinWindow(l, run.Cutoff) {
				windowed++
				continue
			}
			if BreedExcluded(l, a.exclusions) {
				excluded++
				continue
			}
			if _, dup := seen[l.ID]; dup {
				duplicates++
				continue
			}
			seen[l.ID] = struct{}{}
			admitted = append(admitted, l)
			kept++
		}

		slog.Info("Search center processed",
			"run_id", run.RunID, "zip", center.ZipCode,
			"fetched", len(listings), "out_of_window", windowed,
			"breed_excluded", excluded, "duplicates", duplicates, "admitted", kept)
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].PublishedAt.After(admitted[j].PublishedAt)
	})

	return admitted, nil
}

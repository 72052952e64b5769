// Package summarize produces the optional ranked-recommendation narrative
// for a digest. Failures here never block report generation; the caller
// substitutes a placeholder.
package summarize

import (
	"context"

	"github.com/samshap/dog-digest/app/digest"
)

// maxInputListings bounds the subset sent to the summarization API. The
// collection is ordered newest-first, so the cap keeps the most recent ones.
const maxInputListings = 20

type Summarizer interface {
	Summarize(ctx context.Context, listings []digest.Listing) (string, error)
}

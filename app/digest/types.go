package digest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Listing is one adoptable-animal record. ID is opaque and stable across
// pages and search centers: two listings with the same ID are the same
// entity no matter which center produced them.
type Listing struct {
	ID             string
	Name           string
	Size           string
	Age            string
	Gender         string
	PrimaryBreed   string
	SecondaryBreed string
	Description    string
	PublishedAt    time.Time // zero when the upstream timestamp was absent or unparseable
	Photos         []Photo
	VideoURLs      []string
	URL            string
	ContactEmail   string
	ContactPhone   string
}

type Photo struct {
	Small string
	Large string
}

// SearchCenter is a geographic anchor scoping one query stream. Read-only
// during a run.
type SearchCenter struct {
	ZipCode       string `yaml:"zip"`
	DistanceMiles int    `yaml:"distance_miles"`
}

// RunContext carries the wall-clock "now" captured once at run start and the
// derived cutoff, so every predicate evaluation within a run sees the same
// pair.
type RunContext struct {
	RunID  string
	Now    time.Time
	Cutoff time.Time
}

func NewRunContext(lookback time.Duration) RunContext {
	now := time.Now().UTC()
	return RunContext{
		RunID:  uuid.NewString(),
		Now:    now,
		Cutoff: now.Add(-lookback),
	}
}

type PageRequest struct {
	Center SearchCenter
	Page   int
}

// Page is one page of listings plus the upstream pagination metadata. The
// upstream must return listings newest-first; the early-stop heuristic in
// Paginator depends on it.
type Page struct {
	Listings    []Listing
	CurrentPage int
	TotalPages  int
}

// Fetcher retrieves one page of listings for one search center. It holds no
// state across invocations.
type Fetcher interface {
	FetchPage(ctx context.Context, token string, req PageRequest) (*Page, error)
}

// TokenSource exchanges client credentials for a bearer token, acquired once
// per run and reused for every search center.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

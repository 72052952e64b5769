// Package metrics exposes run observability counters on the default
// prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DigestRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dogdigest",
		Name:      "runs_total",
		Help:      "Started digest runs, including failed ones",
	})

	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dogdigest",
		Name:      "pages_fetched_total",
		Help:      "Listing pages fetched from the upstream API",
	}, []string{"zip"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dogdigest",
		Name:      "fetch_errors_total",
		Help:      "Failed page fetches, by search center",
	}, []string{"zip"})

	ListingsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dogdigest",
		Name:      "listings_admitted_total",
		Help:      "Listings admitted into digests after filtering and dedup",
	})

	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dogdigest",
		Name:      "emails_sent_total",
		Help:      "Digest emails handed to the SMTP server",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samshap/dog-digest/app/digest"
	"github.com/samshap/dog-digest/app/mailer"
	"github.com/samshap/dog-digest/app/metrics"
	"github.com/samshap/dog-digest/app/report"
	"github.com/samshap/dog-digest/app/summarize"
)

const narrativePlaceholder = "<p>The recommendation summary is unavailable for this run.</p>"

// ReportBuilderInterface is the slice of report.Builder the task consumes.
type ReportBuilderInterface interface {
	Run(run digest.RunContext, listings []digest.Listing, narrative string) *report.Report
	RenderHTML(rep *report.Report) (string, error)
	RenderText(rep *report.Report) string
}

var _ ReportBuilderInterface = (*report.Builder)(nil)

// DigestTask executes one full pipeline run: aggregate, summarize, build the
// report, dispatch it, record the outcome. Every upstream failure short of a
// configuration error degrades the report instead of aborting it.
type DigestTask struct {
	Task
	aggregator *digest.Aggregator
	builder    ReportBuilderInterface
	summarizer summarize.Summarizer // nil when summarization is disabled
	mailer     mailer.Mailer
	status     *Status
	recipients []string
	lookback   time.Duration
	centers    int
}

func NewDigestTask(aggregator *digest.Aggregator, builder ReportBuilderInterface,
	summarizer summarize.Summarizer, m mailer.Mailer, status *Status,
	recipients []string, lookback time.Duration, centers int) *DigestTask {
	return &DigestTask{
		Task:       NewTask(TaskTypeDigest),
		aggregator: aggregator,
		builder:    builder,
		summarizer: summarizer,
		mailer:     m,
		status:     status,
		recipients: recipients,
		lookback:   lookback,
		centers:    centers,
	}
}

func (t *DigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	run := digest.NewRunContext(t.lookback)
	slog.Info("Digest run started", "run_id", run.RunID, "cutoff", run.Cutoff.Format(time.RFC3339))
	metrics.DigestRuns.Inc()

	listings, err := t.aggregator.Run(ctx, run)
	if err != nil {
		// A degraded (empty) digest is still delivered.
		slog.Error("Aggregation failed, proceeding with empty digest", "run_id", run.RunID, "error", err)
		listings = nil
	}

	narrative := t.buildNarrative(ctx, run, listings)

	rep := t.builder.Run(run, listings, narrative)
	htmlBody, err := t.builder.RenderHTML(rep)
	if err != nil {
		t.record(run, listings, "", false, err)
		return fmt.Errorf("failed to render report: %w", err)
	}
	textBody := t.builder.RenderText(rep)

	subject := fmt.Sprintf("Dog Digest: %d matches in last %s (run @ %s)",
		len(listings), rep.Lookback, run.Now.Format(time.RFC3339))

	sendErr := t.mailer.Send(ctx, subject, htmlBody, textBody)

	metrics.ListingsAdmitted.Add(float64(len(listings)))
	t.record(run, listings, htmlBody, sendErr == nil, sendErr)

	if sendErr != nil {
		return fmt.Errorf("failed to dispatch digest: %w", sendErr)
	}

	metrics.EmailsSent.Inc()
	slog.Info("Task completed",
		"type", "Digest",
		"run_id", run.RunID,
		"duration", t.GetDuration(),
		"dispatched", len(listings),
		"recipients", strings.Join(t.recipients, ", "))

	return nil
}

func (t *DigestTask) buildNarrative(ctx context.Context, run digest.RunContext, listings []digest.Listing) string {
	if t.summarizer == nil || len(listings) == 0 {
		return ""
	}

	narrative, err := t.summarizer.Summarize(ctx, listings)
	if err != nil {
		slog.Warn("Narrative summary failed, using placeholder", "run_id", run.RunID, "error", err)
		return narrativePlaceholder
	}
	if narrative == "" {
		return narrativePlaceholder
	}
	return narrative
}

func (t *DigestTask) record(run digest.RunContext, listings []digest.Listing, html string, dispatched bool, err error) {
	record := RunRecord{
		RunID:      run.RunID,
		StartedAt:  run.Now,
		Duration:   t.GetDuration(),
		Centers:    t.centers,
		Listings:   len(listings),
		Dispatched: dispatched,
		HTML:       html,
	}
	if err != nil {
		record.Error = err.Error()
	}
	t.status.Record(record)
}

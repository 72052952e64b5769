package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/samshap/dog-digest/app/api"
	"github.com/samshap/dog-digest/app/cfg"
	"github.com/samshap/dog-digest/app/digest"
	"github.com/samshap/dog-digest/app/mailer"
	"github.com/samshap/dog-digest/app/petfinder"
	"github.com/samshap/dog-digest/app/profile"
	"github.com/samshap/dog-digest/app/report"
	"github.com/samshap/dog-digest/app/summarize"
	"github.com/samshap/dog-digest/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		exitOnConfigError(err)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(c.Debug)
	slog.Info("Starting Dog Digest", "version", cfg.GetVersion())

	prof, err := profile.Resolve(c)
	if err != nil {
		exitOnConfigError(err)
	}
	slog.Info("Search profile resolved",
		"centers", len(prof.SearchCenters),
		"excluded_breeds", len(prof.ExcludedBreeds),
		"recipients", len(prof.Recipients))

	lookback := time.Duration(c.LookbackHours) * time.Hour

	builder, err := report.NewBuilder(c.DisplayTimezone, lookback)
	if err != nil {
		slog.Error("Failed to initialize report builder", "error", err)
		os.Exit(1)
	}

	tokens := petfinder.NewTokenSource(c.PetfinderClientID, c.PetfinderClientSecret, petfinder.DefaultBaseURL)
	fetcher := petfinder.NewClient(petfinder.DefaultBaseURL, c.UserAgent, c.AgeBrackets)
	aggregator := digest.NewAggregator(tokens, digest.NewPaginator(fetcher), prof.SearchCenters, prof.ExcludedBreeds)

	var summarizer summarize.Summarizer
	if c.OpenAIAPIKey != "" {
		summarizer = summarize.NewOpenAIClient(c.OpenAIBaseURL, c.OpenAIAPIKey, c.OpenAIModel)
		slog.Info("Narrative summarization enabled", "model", c.OpenAIModel)
	} else {
		slog.Info("Narrative summarization disabled (OPENAI_API_KEY not set)")
	}

	m := mailer.NewSMTPMailer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPass,
		c.SenderEmail, c.SenderName, prof.Recipients)

	status := tasks.NewStatus()
	newDigestTask := func() tasks.TaskInterface {
		return tasks.NewDigestTask(aggregator, builder, summarizer, m, status,
			prof.Recipients, lookback, len(prof.SearchCenters))
	}

	if c.Once {
		runOnce(newDigestTask())
		return
	}

	interval := time.Duration(c.DigestIntervalHours) * time.Hour
	slog.Info("Starting digest scheduler", "interval", interval.String())
	scheduler := tasks.NewScheduler(newDigestTask, interval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(status, scheduler, newDigestTask, cfg.GetVersion(),
		len(prof.SearchCenters), interval)
	server := api.NewServer(handler, c.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

// runOnce executes a single digest run and exits, for cron-style deployments.
func runOnce(task tasks.TaskInterface) {
	task.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	if err := task.Execute(ctx); err != nil {
		slog.Error("Digest run failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
	})
	slog.SetDefault(slog.New(handler))
}

func exitOnConfigError(err error) {
	var confErr *cfg.ConfigurationError
	if errors.As(err, &confErr) {
		fmt.Fprintf(os.Stderr, "Configuration error: missing required settings: %s\n",
			strings.Join(confErr.Missing, ", "))
	} else {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
	}
	os.Exit(1)
}

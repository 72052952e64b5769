package report

import (
	"strings"
	"testing"
	"time"

	"github.com/samshap/dog-digest/app/digest"
)

func testRun() digest.RunContext {
	now := time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
	return digest.RunContext{RunID: "r", Now: now, Cutoff: now.Add(-24 * time.Hour)}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder("America/New_York", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	return b
}

func TestRun_RowMapping(t *testing.T) {
	b := newTestBuilder(t)

	published := time.Date(2025, 9, 18, 4, 25, 4, 0, time.UTC)
	listings := []digest.Listing{
		{
			ID:             "1",
			Name:           "Biscuit",
			Size:           "medium",
			Age:            "young",
			Gender:         "female",
			PrimaryBreed:   "Labrador Retriever",
			SecondaryBreed: "Beagle",
			Description:    "  Sweet\n\n and   playful.  ",
			PublishedAt:    published,
			Photos:         []digest.Photo{{Small: "https://img/s", Large: "https://img/l"}},
			URL:            "https://example.org/biscuit",
			ContactEmail:   "shelter@example.org",
		},
	}

	report := b.Run(testRun(), listings, "")

	if len(report.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(report.Rows))
	}
	row := report.Rows[0]

	if row.Breeds != "Labrador Retriever, Beagle" {
		t.Errorf("Unexpected breeds join: %q", row.Breeds)
	}
	if row.Description != "Sweet and playful." {
		t.Errorf("Expected collapsed whitespace, got %q", row.Description)
	}
	if row.Size != "Medium" || row.Age != "Young" || row.Gender != "Female" {
		t.Errorf("Expected title-cased display values, got %q/%q/%q", row.Size, row.Age, row.Gender)
	}
	// 04:25 UTC is 00:25 in New York during EDT.
	if !strings.Contains(row.Published, "0:25") || !strings.Contains(row.Published, "EDT") {
		t.Errorf("Expected published time in display timezone, got %q", row.Published)
	}
	if row.PhotoSmall != "https://img/s" || row.PhotoLarge != "https://img/l" {
		t.Errorf("Unexpected photo pair: %q / %q", row.PhotoSmall, row.PhotoLarge)
	}
}

func TestRun_DescriptionCap(t *testing.T) {
	b := newTestBuilder(t)

	long := strings.Repeat("wag ", 400)
	report := b.Run(testRun(), []digest.Listing{{ID: "1", Description: long, PublishedAt: time.Now()}}, "")

	if got := len([]rune(report.Rows[0].Description)); got > maxDescriptionChars {
		t.Errorf("Expected description capped at %d chars, got %d", maxDescriptionChars, got)
	}
}

func TestRenderHTML_EscapesFreeText(t *testing.T) {
	b := newTestBuilder(t)

	listings := []digest.Listing{{
		ID:          "1",
		Name:        `Rex <script>alert("x")</script>`,
		Description: "a <b>bold</b> dog",
		PublishedAt: time.Date(2025, 9, 18, 4, 0, 0, 0, time.UTC),
	}}

	html, err := b.RenderHTML(b.Run(testRun(), listings, ""))
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Error("Free text must be escaped before embedding")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("Expected escaped markup in output")
	}
}

func TestRenderHTML_VideoLinks(t *testing.T) {
	b := newTestBuilder(t)

	listings := []digest.Listing{{
		ID:          "1",
		Name:        "Biscuit",
		PublishedAt: time.Date(2025, 9, 18, 4, 0, 0, 0, time.UTC),
		VideoURLs:   []string{"https://vid/1", `https://vid/2?a=1&b="x"`},
	}}

	html, err := b.RenderHTML(b.Run(testRun(), listings, ""))
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if !strings.Contains(html, `<a href="https://vid/1">video</a>`) {
		t.Errorf("Expected a video link per clip, got:\n%s", html)
	}
	if strings.Contains(html, `b="x"`) {
		t.Error("Video URLs must be escaped before embedding")
	}
	if !strings.Contains(html, "</a>, <a") {
		t.Error("Expected multiple video links joined with a comma")
	}
}

func TestRenderHTML_EmptyCollectionPlaceholder(t *testing.T) {
	b := newTestBuilder(t)

	html, err := b.RenderHTML(b.Run(testRun(), nil, ""))
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if !strings.Contains(html, "No matching dogs in the last 24 hours.") {
		t.Errorf("Expected placeholder row for empty collection, got:\n%s", html)
	}
	if !strings.Contains(html, `colspan="12"`) {
		t.Error("Placeholder should span the full table")
	}
}

func TestRenderHTML_NarrativeVerbatim(t *testing.T) {
	b := newTestBuilder(t)

	narrative := "<p>Top pick: <strong>Biscuit</strong></p>"
	html, err := b.RenderHTML(b.Run(testRun(), nil, narrative))
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if !strings.Contains(html, narrative) {
		t.Error("Narrative block should be inserted verbatim")
	}
}

func TestRenderHTML_NoNarrativeSection(t *testing.T) {
	b := newTestBuilder(t)

	html, err := b.RenderHTML(b.Run(testRun(), nil, ""))
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if strings.Contains(html, "margin-bottom:16px") {
		t.Error("Empty narrative should omit the narrative section")
	}
}

func TestRenderText(t *testing.T) {
	b := newTestBuilder(t)

	listings := []digest.Listing{{
		ID:           "1",
		Name:         "Biscuit",
		PrimaryBreed: "Beagle",
		PublishedAt:  time.Date(2025, 9, 18, 4, 0, 0, 0, time.UTC),
		URL:          "https://example.org/biscuit",
	}}

	text := b.RenderText(b.Run(testRun(), listings, ""))

	if !strings.Contains(text, "Biscuit") || !strings.Contains(text, "https://example.org/biscuit") {
		t.Errorf("Expected listing in text fallback, got:\n%s", text)
	}
	if !strings.Contains(text, "1 matches") {
		t.Errorf("Expected match count in header, got:\n%s", text)
	}
}

func TestNewBuilder_InvalidTimezone(t *testing.T) {
	if _, err := NewBuilder("Not/AZone", 24*time.Hour); err == nil {
		t.Fatal("Expected error for invalid timezone")
	}
}

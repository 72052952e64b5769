// Package report transforms the canonical listing collection into the HTML
// digest and its plain-text fallback.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/samshap/dog-digest/app/digest"
)

const maxDescriptionChars = 600

// Row is one presentation-ready listing.
type Row struct {
	Published    string
	Name         string
	PhotoSmall   string
	PhotoLarge   string
	Breeds       string
	Size         string
	Age          string
	Gender       string
	Description  string
	VideoURLs    []string
	ContactEmail string
	ContactPhone string
	URL          string
}

type Report struct {
	// Narrative is collaborator-supplied markup, inserted verbatim.
	Narrative   template.HTML
	GeneratedAt string
	Lookback    string
	Rows        []Row
}

type Builder struct {
	location *time.Location
	titler   cases.Caser
	lookback time.Duration
}

func NewBuilder(displayTimezone string, lookback time.Duration) (*Builder, error) {
	loc, err := time.LoadLocation(displayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", displayTimezone, err)
	}
	return &Builder{
		location: loc,
		titler:   cases.Title(language.English),
		lookback: lookback,
	}, nil
}

// Run maps the canonical collection into the report model. The narrative is
// included only when non-empty; an empty collection still yields a report
// (the template renders a single explanatory row).
func (b *Builder) Run(run digest.RunContext, listings []digest.Listing, narrative string) *Report {
	report := &Report{
		Narrative:   template.HTML(narrative),
		GeneratedAt: run.Now.In(b.location).Format("Mon, 2 Jan 2006 15:04 MST"),
		Lookback:    formatLookback(b.lookback),
		Rows:        make([]Row, 0, len(listings)),
	}

	for _, l := range listings {
		row := Row{
			Name:         l.Name,
			Breeds:       joinBreeds(l),
			Size:         b.titler.String(l.Size),
			Age:          b.titler.String(l.Age),
			Gender:       b.titler.String(l.Gender),
			Description:  capDescription(l.Description),
			VideoURLs:    l.VideoURLs,
			ContactEmail: l.ContactEmail,
			ContactPhone: l.ContactPhone,
			URL:          l.URL,
		}

		if !l.PublishedAt.IsZero() {
			row.Published = l.PublishedAt.In(b.location).Format("Mon, 2 Jan 2006 15:04 MST")
		}

		if len(l.Photos) > 0 {
			row.PhotoSmall = l.Photos[0].Small
			row.PhotoLarge = l.Photos[0].Large
		}

		report.Rows = append(report.Rows, row)
	}

	return report
}

func (b *Builder) RenderHTML(report *Report) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// RenderText produces the plain-text alternative for clients that do not
// display HTML.
func (b *Builder) RenderText(report *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dog Digest: %d matches in the last %s (generated %s)\n\n",
		len(report.Rows), report.Lookback, report.GeneratedAt)

	if len(report.Rows) == 0 {
		sb.WriteString("No matching dogs in this window.\n")
		return sb.String()
	}

	for _, row := range report.Rows {
		fmt.Fprintf(&sb, "* %s", row.Name)
		if row.Breeds != "" {
			fmt.Fprintf(&sb, " (%s)", row.Breeds)
		}
		if row.Published != "" {
			fmt.Fprintf(&sb, ", published %s", row.Published)
		}
		sb.WriteString("\n")
		if row.URL != "" {
			fmt.Fprintf(&sb, "  %s\n", row.URL)
		}
	}

	return sb.String()
}

func joinBreeds(l digest.Listing) string {
	var parts []string
	for _, name := range []string{l.PrimaryBreed, l.SecondaryBreed} {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// capDescription collapses whitespace and truncates to a fixed maximum to
// bound report size. Truncation counts runes so multi-byte text is not split.
func capDescription(description string) string {
	collapsed := strings.Join(strings.Fields(description), " ")
	runes := []rune(collapsed)
	if len(runes) > maxDescriptionChars {
		return string(runes[:maxDescriptionChars])
	}
	return collapsed
}

func formatLookback(d time.Duration) string {
	hours := int(d.Hours())
	if hours%24 == 0 && hours >= 24 {
		days := hours / 24
		if days == 1 {
			return "24 hours"
		}
		return fmt.Sprintf("%d days", days)
	}
	return fmt.Sprintf("%d hours", hours)
}

var digestTemplate = template.Must(template.New("digest").Parse(`<div>
{{- if .Narrative}}
  <div style="font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.4;margin-bottom:16px;">
{{.Narrative}}
  </div>
{{- end}}
  <p style="font-family:Arial,Helvetica,sans-serif;font-size:13px;color:#555;">Generated {{.GeneratedAt}} · window: last {{.Lookback}}</p>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse;font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.3;width:100%;">
    <thead style="background:#f5f5f5;">
      <tr>
        <th style="text-align:left;">Published</th>
        <th style="text-align:left;">Name</th>
        <th style="text-align:left;">Photo</th>
        <th style="text-align:left;">Breeds</th>
        <th style="text-align:left;">Size</th>
        <th style="text-align:left;">Age</th>
        <th style="text-align:left;">Gender</th>
        <th style="text-align:left;">Description</th>
        <th style="text-align:left;">Videos</th>
        <th style="text-align:left;">Contact Email</th>
        <th style="text-align:left;">Contact Phone</th>
        <th style="text-align:left;">URL</th>
      </tr>
    </thead>
    <tbody>
{{- if .Rows}}
{{- range .Rows}}
      <tr>
        <td>{{.Published}}</td>
        <td>{{.Name}}</td>
        <td>{{if .PhotoSmall}}<a href="{{.PhotoLarge}}"><img src="{{.PhotoSmall}}" alt="{{.Name}}" width="100" /></a>{{end}}</td>
        <td>{{.Breeds}}</td>
        <td>{{.Size}}</td>
        <td>{{.Age}}</td>
        <td>{{.Gender}}</td>
        <td>{{.Description}}</td>
        <td>{{range $i, $v := .VideoURLs}}{{if $i}}, {{end}}<a href="{{$v}}">video</a>{{end}}</td>
        <td>{{.ContactEmail}}</td>
        <td>{{.ContactPhone}}</td>
        <td>{{if .URL}}<a href="{{.URL}}">Link</a>{{end}}</td>
      </tr>
{{- end}}
{{- else}}
      <tr><td colspan="12">No matching dogs in the last {{.Lookback}}.</td></tr>
{{- end}}
    </tbody>
  </table>
</div>
`))

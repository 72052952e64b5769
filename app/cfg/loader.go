package cfg

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Petfinder API credentials
	PetfinderClientID     string `long:"petfinder-client-id" env:"PETFINDER_CLIENT_ID" description:"Petfinder API client ID (required)"`
	PetfinderClientSecret string `long:"petfinder-client-secret" env:"PETFINDER_CLIENT_SECRET" description:"Petfinder API client secret (required)"`

	// Outbound email configuration
	SMTPHost    string   `long:"smtp-host" env:"SMTP_HOST" description:"SMTP server host (required)"`
	SMTPPort    int      `long:"smtp-port" env:"SMTP_PORT" default:"587" description:"SMTP server port"`
	SMTPUser    string   `long:"smtp-user" env:"SMTP_USER" description:"SMTP username (required)"`
	SMTPPass    string   `long:"smtp-pass" env:"SMTP_PASS" description:"SMTP password (required)"`
	SenderEmail string   `long:"sender-email" env:"SENDER_EMAIL" description:"Sender address (defaults to SMTP_USER)"`
	SenderName  string   `long:"sender-name" env:"SENDER_NAME" default:"Dog Digest" description:"Sender display name"`
	Recipients  []string `long:"recipients" env:"RECIPIENTS" env-delim:"," description:"Digest recipients, comma-separated (required)"`

	// Search configuration
	ZipCodes      []string `long:"zip-codes" env:"ZIP_CODES" env-delim:"," default:"08401" default:"11211" default:"19003" description:"Search center postal codes"`
	DistanceMiles int      `long:"distance-miles" env:"DISTANCE_MILES" default:"100" description:"Search radius around each postal code, in miles"`
	LookbackHours int      `long:"lookback-hours" env:"LOOKBACK_HOURS" default:"24" description:"Reporting window in hours"`
	AgeBrackets   string   `long:"age-brackets" env:"AGE_BRACKETS" default:"young,puppy" description:"Petfinder age brackets to request"`
	ProfilePath   string   `long:"profile" env:"PROFILE_PATH" description:"Optional YAML search profile overriding centers, exclusions and recipients"`

	// Report configuration
	DisplayTimezone string `long:"display-timezone" env:"DISPLAY_TIMEZONE" default:"America/New_York" description:"Timezone for published timestamps in the report"`

	// Summarization (optional)
	OpenAIAPIKey  string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"API key for the narrative summary (optional, disables summary when empty)"`
	OpenAIBaseURL string `long:"openai-base-url" env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1" description:"Base URL for the summarization API"`
	OpenAIModel   string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model used for the narrative summary"`

	// HTTP server and scheduling
	Port                string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	DigestIntervalHours int    `long:"digest-interval" env:"DIGEST_INTERVAL_HOURS" default:"6" description:"Hours between digest runs"`
	APIAccessKey        string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the trigger endpoint (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Dog Digest/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	Once      bool   `long:"once" description:"Run a single digest and exit (cron mode)"`
}

// ConfigurationError lists every required setting that is absent, so a
// single failed start reports the full set rather than the first one hit.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

func Load() (*Cfg, error) {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		PetfinderClientID:     strings.TrimSpace(raw.PetfinderClientID),
		PetfinderClientSecret: strings.TrimSpace(raw.PetfinderClientSecret),
		SMTPHost:              strings.TrimSpace(raw.SMTPHost),
		SMTPPort:              raw.SMTPPort,
		SMTPUser:              strings.TrimSpace(raw.SMTPUser),
		SMTPPass:              raw.SMTPPass,
		SenderEmail:           strings.TrimSpace(raw.SenderEmail),
		SenderName:            strings.TrimSpace(raw.SenderName),
		Recipients:            trimAll(raw.Recipients),
		ZipCodes:              trimAll(raw.ZipCodes),
		DistanceMiles:         raw.DistanceMiles,
		LookbackHours:         raw.LookbackHours,
		AgeBrackets:           raw.AgeBrackets,
		ProfilePath:           raw.ProfilePath,
		DisplayTimezone:       raw.DisplayTimezone,
		OpenAIAPIKey:          raw.OpenAIAPIKey,
		OpenAIBaseURL:         raw.OpenAIBaseURL,
		OpenAIModel:           raw.OpenAIModel,
		Port:                  raw.Port,
		DigestIntervalHours:   raw.DigestIntervalHours,
		APIAccessKey:          raw.APIAccessKey,
		UserAgent:             raw.UserAgent,
		Debug:                 raw.Debug,
		Once:                  raw.Once,
		Version:               GetVersion(),
	}

	if cfg.SenderEmail == "" {
		cfg.SenderEmail = cfg.SMTPUser
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate collects every missing required value before any network call is
// made. Recipients may alternatively come from the profile file, so they are
// checked again after the profile is applied (see profile.Apply).
func (c *Cfg) validate() error {
	var missing []string

	required := []struct {
		key   string
		value string
	}{
		{"PETFINDER_CLIENT_ID", c.PetfinderClientID},
		{"PETFINDER_CLIENT_SECRET", c.PetfinderClientSecret},
		{"SMTP_HOST", c.SMTPHost},
		{"SMTP_USER", c.SMTPUser},
		{"SMTP_PASS", c.SMTPPass},
		{"SENDER_EMAIL", c.SenderEmail},
	}

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}

	if c.SMTPPort <= 0 {
		missing = append(missing, "SMTP_PORT")
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

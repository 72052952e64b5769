package cfg

type Cfg struct {
	// Petfinder API credentials
	PetfinderClientID     string
	PetfinderClientSecret string

	// Outbound email configuration
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SenderEmail string
	SenderName  string
	Recipients  []string

	// Search configuration
	ZipCodes      []string
	DistanceMiles int
	LookbackHours int
	AgeBrackets   string
	ProfilePath   string

	// Report configuration
	DisplayTimezone string

	// Summarization (optional)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// HTTP server and scheduling
	Port                string
	DigestIntervalHours int
	APIAccessKey        string

	// Application metadata
	UserAgent string
	Debug     bool
	Once      bool
	Version   string
}

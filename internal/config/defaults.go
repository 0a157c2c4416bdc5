package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultDatabasePath   = "data/spotify.duckdb"
	DefaultQueryTimeoutMs = 60_000

	DefaultLLMTimeout = 60 // seconds

	DefaultResultLimit = 100 // rows the translator is told to cap results at
	DefaultPreviewRows = 5   // rows embedded in the summarizer prompt
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8501",
}

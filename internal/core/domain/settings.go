package domain

import "time"

// Default settings values.
const (
	DefaultBackendURL    = "http://localhost:5000"
	DefaultTimeout       = 120 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = time.Second
	DefaultRateLimit     = 0.0 // unlimited
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 30
)

// AppSettings holds the resolved client configuration.
type AppSettings struct {
	Backend BackendSettings
	Retry   RetrySettings
	Log     LogSettings

	// TopicIcons maps topic display names to icons.
	TopicIcons map[string]string
}

// BackendSettings configures how the backend is reached.
type BackendSettings struct {
	// URL is the backend base URL, e.g. http://localhost:5000.
	URL string `validate:"required,url"`

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `validate:"gt=0"`

	// RateLimit caps outbound requests per second; 0 disables throttling.
	RateLimit float64 `validate:"gte=0"`
}

// RetrySettings configures the transient-failure retry wrapper.
type RetrySettings struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int `validate:"gte=1,lte=10"`

	// Backoff is multiplied by the attempt number between attempts.
	Backoff time.Duration `validate:"gte=0"`
}

// LogSettings configures diagnostics.
type LogSettings struct {
	// Verbose prints debug lines to stderr (outside the TUI).
	Verbose bool

	// File, when set, receives a rotating JSON log.
	File string

	MaxSizeMB  int `validate:"gte=0"`
	MaxBackups int `validate:"gte=0"`
	MaxAgeDays int `validate:"gte=0"`
}

// DefaultSettings returns settings with every field at its default.
func DefaultSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			URL:       DefaultBackendURL,
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
		},
		Retry: RetrySettings{
			MaxAttempts: DefaultRetryAttempts,
			Backoff:     DefaultRetryBackoff,
		},
		Log: LogSettings{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
		TopicIcons: DefaultTopicIcons(),
	}
}

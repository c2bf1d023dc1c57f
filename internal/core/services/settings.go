package services

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/core/ports/driven"
	"github.com/custodia-labs/topicchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBackendURL     = "backend.url"
	KeyBackendTimeout = "backend.timeout_seconds"
	KeyRateLimit      = "backend.rate_limit"
	KeyRetryAttempts  = "retry.max_attempts"
	KeyRetryBackoff   = "retry.backoff_ms"
	KeyLogFile        = "log.file"
	KeyLogVerbose     = "log.verbose"
	KeyTopicIcons     = "topics.icons"
)

// Environment variables that override the config file.
const (
	EnvBackendURL = "TOPICCHAT_BACKEND_URL"
	EnvLogFile    = "TOPICCHAT_LOG_FILE"
)

// SettingsService resolves settings from defaults, the config store and
// the environment, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    *validator.Validate
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultSettings()

	if v := s.configStore.GetString(KeyBackendURL); v != "" {
		settings.Backend.URL = v
	}
	if s.has(KeyBackendTimeout) {
		settings.Backend.Timeout = time.Duration(s.configStore.GetInt(KeyBackendTimeout)) * time.Second
	}
	if s.has(KeyRateLimit) {
		settings.Backend.RateLimit = s.configStore.GetFloat(KeyRateLimit)
	}
	if s.has(KeyRetryAttempts) {
		settings.Retry.MaxAttempts = s.configStore.GetInt(KeyRetryAttempts)
	}
	if s.has(KeyRetryBackoff) {
		settings.Retry.Backoff = time.Duration(s.configStore.GetInt(KeyRetryBackoff)) * time.Millisecond
	}
	settings.Log.File = s.configStore.GetString(KeyLogFile)
	settings.Log.Verbose = s.configStore.GetBool(KeyLogVerbose)

	for name, icon := range s.configStore.GetStringMap(KeyTopicIcons) {
		if icon != "" {
			settings.TopicIcons[name] = icon
		}
	}

	if v := s.getenv(EnvBackendURL); v != "" {
		settings.Backend.URL = v
	}
	if v := s.getenv(EnvLogFile); v != "" {
		settings.Log.File = v
	}

	if err := s.Validate(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Set validates value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	if name, ok := strings.CutPrefix(key, KeyTopicIcons+"."); ok {
		if name == "" || value == "" {
			return fmt.Errorf("%w: topic icon needs a name and a value", domain.ErrInvalidInput)
		}
		return s.store(key, value)
	}

	switch key {
	case KeyBackendURL:
		if err := s.validate.Var(value, "required,url"); err != nil {
			return fmt.Errorf("%w: %s must be a URL", domain.ErrInvalidInput, key)
		}
		return s.store(key, strings.TrimRight(value, "/"))
	case KeyBackendTimeout:
		return s.storeInt(key, value, "gt=0")
	case KeyRetryAttempts:
		return s.storeInt(key, value, "gte=1,lte=10")
	case KeyRetryBackoff:
		return s.storeInt(key, value, "gte=0")
	case KeyRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || s.validate.Var(f, "gte=0") != nil {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		return s.store(key, f)
	case KeyLogFile:
		return s.store(key, value)
	case KeyLogVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.store(key, b)
	default:
		return fmt.Errorf("%w: unknown key %q (known: %s)", domain.ErrInvalidInput, key, strings.Join(KnownKeys(), ", "))
	}
}

// Validate checks settings for consistency.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid settings: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("validate settings: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultSettings()
}

// ConfigPath returns the path of the backing configuration file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// KnownKeys lists the scalar configuration keys accepted by Set.
// Topic icons are set with "topics.icons.<Display Name>".
func KnownKeys() []string {
	keys := []string{
		KeyBackendURL, KeyBackendTimeout, KeyRateLimit,
		KeyRetryAttempts, KeyRetryBackoff, KeyLogFile, KeyLogVerbose,
	}
	sort.Strings(keys)
	return keys
}

func (s *SettingsService) has(key string) bool {
	_, ok := s.configStore.Get(key)
	return ok
}

func (s *SettingsService) storeInt(key, value, rule string) error {
	n, err := strconv.Atoi(value)
	if err != nil || s.validate.Var(n, rule) != nil {
		return fmt.Errorf("%w: %s must be an integer (%s)", domain.ErrInvalidInput, key, rule)
	}
	return s.store(key, n)
}

func (s *SettingsService) store(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// StorageMemory keeps the cart only for the current process.
	StorageMemory StorageBackend = "memory"
	// StorageFile keeps the cart in a JSON document in the data directory.
	StorageFile StorageBackend = "file"
	// StoragePostgres keeps the cart in a PostgreSQL table.
	StoragePostgres StorageBackend = "postgres"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultLookupBaseURL is the public OpenFoodFacts instance.
	DefaultLookupBaseURL = "https://world.openfoodfacts.org"
	// DefaultTimeout bounds network requests.
	DefaultTimeout = 8 * time.Second
	// DefaultHistoryCapacity is the number of recently used products kept.
	DefaultHistoryCapacity = 200
	// DefaultMinNameLength is the shortest member name fragment accepted at login.
	DefaultMinNameLength = 3
)

var (
	// ErrInvalidStorageBackend is returned when a StorageBackend value is not recognized.
	ErrInvalidStorageBackend = errors.New("invalid storage backend")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidURL is returned when a configured URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// StorageBackend selects where the cart, history and member session live.
	// Defined locally to avoid coupling config to internal/kvstore; the CLI
	// converts it at the boundary.
	StorageBackend string

	// InvalidStorageBackendError is returned when a StorageBackend value is not recognized.
	// It wraps ErrInvalidStorageBackend for errors.Is() compatibility.
	InvalidStorageBackendError struct {
		Value StorageBackend
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidURLError is returned when a URL field is set but not http(s).
	InvalidURLError struct {
		Field string
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Storage StorageConfig `json:"storage" mapstructure:"storage"`
		Member  MemberConfig  `json:"member" mapstructure:"member"`
		Lookup  LookupConfig  `json:"lookup" mapstructure:"lookup"`
		Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// StorageConfig configures persistence.
	StorageConfig struct {
		Backend StorageBackend `json:"backend" mapstructure:"backend"`
		// Path overrides <data dir>/store.json for the file backend.
		Path string `json:"path" mapstructure:"path"`
		// DSN is the PostgreSQL connection string for the postgres backend.
		DSN string `json:"dsn" mapstructure:"dsn"`
	}

	// MemberConfig configures the member directory.
	MemberConfig struct {
		// FeedURL serves the directory as comma-separated text. Empty disables login.
		FeedURL       string `json:"feed_url" mapstructure:"feed_url"`
		MinNameLength int    `json:"min_name_length" mapstructure:"min_name_length"`
	}

	// LookupConfig configures the product database and network timeouts.
	LookupConfig struct {
		BaseURL string        `json:"base_url" mapstructure:"base_url"`
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// CatalogConfig configures the product history.
	CatalogConfig struct {
		HistoryCapacity int `json:"history_capacity" mapstructure:"history_capacity"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the StorageBackend.
func (b StorageBackend) String() string { return string(b) }

// IsValid returns whether the StorageBackend is one of the defined backends,
// and a list of validation errors if it is not.
func (b StorageBackend) IsValid() (bool, []error) {
	switch b {
	case StorageMemory, StorageFile, StoragePostgres:
		return true, nil
	default:
		return false, []error{&InvalidStorageBackendError{Value: b}}
	}
}

// Error implements the error interface for InvalidStorageBackendError.
func (e *InvalidStorageBackendError) Error() string {
	return fmt.Sprintf("invalid storage backend %q (valid: memory, file, postgres)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStorageBackendError) Unwrap() error { return ErrInvalidStorageBackend }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidURLError.
func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be an absolute http or https URL", e.Field, e.Value)
}

// Unwrap returns ErrInvalidURL for errors.Is() compatibility.
func (e *InvalidURLError) Unwrap() error { return ErrInvalidURL }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the Config has valid fields. The schema already
// rejects most mistakes in the file; this also covers defaults overridden
// through the environment.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Storage.Backend.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.Storage.Backend == StoragePostgres && strings.TrimSpace(c.Storage.DSN) == "" {
		errs = append(errs, errors.New("storage.dsn is required for the postgres backend"))
	}
	if err := checkURL("member.feed_url", c.Member.FeedURL); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("lookup.base_url", c.Lookup.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.Member.MinNameLength < 1 {
		errs = append(errs, fmt.Errorf("member.min_name_length must be at least 1, got %d", c.Member.MinNameLength))
	}
	if c.Lookup.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("lookup.timeout must be positive, got %s", c.Lookup.Timeout))
	}
	if c.Catalog.HistoryCapacity < 1 {
		errs = append(errs, fmt.Errorf("catalog.history_capacity must be at least 1, got %d", c.Catalog.HistoryCapacity))
	}
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func checkURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidURLError{Field: field, Value: raw}
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: StorageFile,
		},
		Member: MemberConfig{
			MinNameLength: DefaultMinNameLength,
		},
		Lookup: LookupConfig{
			BaseURL: DefaultLookupBaseURL,
			Timeout: DefaultTimeout,
		},
		Catalog: CatalogConfig{
			HistoryCapacity: DefaultHistoryCapacity,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		value, name, err := lookup(field)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
		}
	}

	return nil
}

// lookup resolves the raw string for a field: primary env var, then the
// alternate, then the default tag.
func lookup(field reflect.StructField) (value, name string, err error) {
	name = field.Tag.Get("env")
	if name == "" {
		return "", "", nil
	}

	value = os.Getenv(name)
	if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
		value = os.Getenv(alt)
	}

	if value == "" {
		if field.Tag.Get("required") == "true" {
			return "", name, fmt.Errorf("required environment variable %s is not set", name)
		}
		value = field.Tag.Get("default")
	}

	return value, name, nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits a comma-separated value, trimming blanks.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string
	check := func(ok bool, msg string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Sprintf(msg, args...))
		}
	}

	// Server
	check(c.Server.Port > 0 && c.Server.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	check(c.Server.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	check(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	check(c.Server.RequestTimeout > 0, "SERVER_REQUEST_TIMEOUT must be positive")

	// Upload
	check(c.Upload.MaxFileSize > 0, "UPLOAD_MAX_FILE_SIZE must be positive")
	check(c.Upload.MaxConcurrent > 0, "UPLOAD_MAX_CONCURRENT must be positive")
	check(c.Upload.MaxWaitTime > 0, "UPLOAD_MAX_WAIT_TIME must be positive")
	check(c.Upload.Timeout > 0, "UPLOAD_TIMEOUT must be positive")

	// Store
	check(c.Store.TTL > 0, "STORE_TTL must be positive")
	check(c.Store.MaxEntries > 0, "STORE_MAX_ENTRIES must be positive")
	check(c.Store.CleanupInterval > 0, "STORE_CLEANUP_INTERVAL must be positive")

	// Explorer
	check(c.Explorer.PreviewRows > 0, "EXPLORER_PREVIEW_ROWS must be positive")
	check(c.Explorer.HistogramBins > 0 && c.Explorer.HistogramBins <= 200,
		"EXPLORER_HISTOGRAM_BINS (%d) must be 1-200", c.Explorer.HistogramBins)
	check(c.Explorer.TopValues > 0, "EXPLORER_TOP_VALUES must be positive")
	check(c.Explorer.MaxPairs >= 0, "EXPLORER_MAX_PAIRS must be non-negative")

	// Rate limit
	if c.Rate.Enabled {
		check(c.Rate.RequestsPerMinute > 0, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		check(c.Rate.UploadLimit > 0, "RATE_LIMIT_UPLOAD must be positive when rate limiting is enabled")
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	check(validLevels[strings.ToLower(c.Logging.Level)],
		"LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)

	validFormats := map[string]bool{"text": true, "json": true}
	check(validFormats[strings.ToLower(c.Logging.Format)],
		"LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)

	check(c.Logging.SeqURL == "" || strings.HasPrefix(c.Logging.SeqURL, "http://") || strings.HasPrefix(c.Logging.SeqURL, "https://"),
		"LOG_SEQ_URL (%q) must be an http(s) URL", c.Logging.SeqURL)

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
// The Seq endpoint is reduced to whether it is set, since it may embed a key.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Upload: {MaxFileSize: %d, MaxConcurrent: %d}, ",
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent)
	fmt.Fprintf(&b, "Store: {TTL: %s, MaxEntries: %d}, ", c.Store.TTL, c.Store.MaxEntries)
	fmt.Fprintf(&b, "Explorer: {PreviewRows: %d, HistogramBins: %d}, ",
		c.Explorer.PreviewRows, c.Explorer.HistogramBins)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q, Seq: %v}",
		c.Logging.Level, c.Logging.Format, c.Logging.SeqURL != "")
	b.WriteString("}")
	return b.String()
}

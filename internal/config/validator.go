package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "refresh.batch_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidCategories returns the list of valid refresh categories
func ValidCategories() []string {
	return []string{"STANDARD", "CUSTOM", "ALL"}
}

// maxBatchSize is the composite batch API's subrequest limit.
const maxBatchSize = 25

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateOrg()...)
	errors = append(errors, c.validateRefresh()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateOrg validates the OrgConfig
func (c *Config) validateOrg() []ValidationError {
	var errors []ValidationError

	// An empty instance URL is allowed at load time; the refresh command
	// rejects it when a describe call is actually needed.
	if c.Org.InstanceURL != "" {
		u, err := url.Parse(c.Org.InstanceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "org.instance_url",
				Value:   c.Org.InstanceURL,
				Message: "must be an absolute URL",
			})
		}
	}

	if c.Org.APIVersion != "" && !strings.HasPrefix(c.Org.APIVersion, "v") {
		errors = append(errors, ValidationError{
			Field:   "org.api_version",
			Value:   c.Org.APIVersion,
			Message: `must look like "v59.0"`,
		})
	}

	return errors
}

// validateRefresh validates the RefreshConfig
func (c *Config) validateRefresh() []ValidationError {
	var errors []ValidationError

	if c.Refresh.Category != "" && !slices.Contains(ValidCategories(), c.Refresh.Category) {
		errors = append(errors, ValidationError{
			Field:   "refresh.category",
			Value:   c.Refresh.Category,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidCategories(), ", ")),
		})
	}

	if c.Refresh.BatchSize < 1 || c.Refresh.BatchSize > maxBatchSize {
		errors = append(errors, ValidationError{
			Field:   "refresh.batch_size",
			Value:   c.Refresh.BatchSize,
			Message: fmt.Sprintf("must be between 1 and %d", maxBatchSize),
		})
	}

	if c.Refresh.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "refresh.timeout_seconds",
			Value:   c.Refresh.TimeoutSeconds,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

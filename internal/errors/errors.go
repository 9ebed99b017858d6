package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrDaemonUnreachable = errors.New("cannot connect to mpd")
	ErrNoVisionSupport   = errors.New("chat model does not support image input")
	ErrClipsDirMissing   = errors.New("clips directory does not exist")
	ErrRescanTimeout     = errors.New("library rescan did not finish")
	ErrNoAPIKey          = errors.New("no api key configured")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrPipelineFailed    = errors.New("audio pipeline failed")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Process exit codes for fatal startup failures.
const (
	ExitFailure         = 1
	ExitNoVision        = 2
	ExitClipsDirMissing = 3
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoVisionSupport):
		return ExitNoVision
	case errors.Is(err, ErrClipsDirMissing):
		return ExitClipsDirMissing
	default:
		return ExitFailure
	}
}

// EmceeError wraps an error with a user-friendly suggestion.
type EmceeError struct {
	Err        error
	Suggestion string
}

func (e *EmceeError) Error() string {
	return e.Err.Error()
}

func (e *EmceeError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &EmceeError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already an EmceeError with suggestion
	var emceeErr *EmceeError
	if errors.As(err, &emceeErr) && emceeErr.Suggestion != "" {
		return emceeErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Daemon connection errors
	if errors.Is(err, ErrDaemonUnreachable) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such file or directory") && strings.Contains(errStr, "socket") {
		return "Check that MPD is running and the socket path is right (--mpd-socket or [mpd] socket)"
	}

	// Model capability errors
	if errors.Is(err, ErrNoVisionSupport) {
		return "Pick a chat model that accepts images (gpt-4o, o4-mini, ...) or set chat.vision = \"on\""
	}

	// Clips directory errors
	if errors.Is(err, ErrClipsDirMissing) {
		return "Create the clips directory under MPD's music directory, then restart"
	}

	// Rescan errors
	if errors.Is(err, ErrRescanTimeout) {
		return "MPD never finished rescanning the clip. Check MPD's log for database errors"
	}

	// Key errors
	if errors.Is(err, ErrNoAPIKey) || strings.Contains(errStr, "api key") ||
		strings.Contains(errStr, "invalid_api_key") || strings.Contains(errStr, "401") {
		return "Set OPENAI_API_KEY, or run 'emcee init' to store a key in the config"
	}

	// Template errors
	if errors.Is(err, ErrTemplateNotFound) {
		return "Use module:name form, e.g. station:default, or add the template under the config directory"
	}

	// Pipeline errors
	if errors.Is(err, ErrPipelineFailed) || strings.Contains(errStr, "ffmpeg") {
		return "Check that ffmpeg is installed and on PATH (or set audio.ffmpeg)"
	}

	// Rate limiting
	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429") {
		return "Too many requests. Wait a moment and try again"
	}

	// Network errors
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'emcee init' to set up your configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

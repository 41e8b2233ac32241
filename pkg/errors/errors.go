package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML and JSON parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeStorage represents database errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotify represents notification delivery errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeBrowser represents headless browser errors
	ErrorTypeBrowser ErrorType = "browser"
	// ErrorTypeExport represents spreadsheet export errors
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ErrNotFound is returned by storage lookups when no row matches.
var ErrNotFound = stderrors.New("not found")

// LotError represents an error raised while collecting or storing lots
type LotError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *LotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *LotError) Unwrap() error {
	return e.Err
}

// New creates a new LotError
func New(errType ErrorType, source, message string, err error) *LotError {
	return &LotError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *LotError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *LotError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, retryAfter string) *LotError {
	message := "rate limited"
	if retryAfter != "" {
		message = fmt.Sprintf("rate limited; retry after %s", retryAfter)
	}
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewCache creates a new cache error
func NewCache(source, message string, err error) *LotError {
	return New(ErrorTypeCache, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *LotError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewStorage creates a new storage error
func NewStorage(source, message string, err error) *LotError {
	return New(ErrorTypeStorage, source, message, err)
}

// NewNotify creates a new notification error
func NewNotify(source, message string, err error) *LotError {
	return New(ErrorTypeNotify, source, message, err)
}

// NewBrowser creates a new headless browser error
func NewBrowser(source, message string, err error) *LotError {
	return New(ErrorTypeBrowser, source, message, err)
}

// NewExport creates a new export error
func NewExport(source, message string, err error) *LotError {
	return New(ErrorTypeExport, source, message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *LotError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *LotError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a LotError of the given type
func IsType(err error, errType ErrorType) bool {
	var lotErr *LotError
	if stderrors.As(err, &lotErr) {
		return lotErr.Type == errType
	}
	return false
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

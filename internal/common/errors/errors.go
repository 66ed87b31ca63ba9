// Package errors provides standardized error handling for the report pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input and validation outcomes
	ErrCodeInputInvalid          ErrorCode = "INPUT_INVALID"
	ErrCodeValidationRejected    ErrorCode = "VALIDATION_REJECTED"
	ErrCodeValidationParseFailed ErrorCode = "VALIDATION_PARSE_FAILED"

	// Research outcomes
	ErrCodeNoResultsFound      ErrorCode = "NO_RESULTS_FOUND"
	ErrCodeResearchParseFailed ErrorCode = "RESEARCH_PARSE_FAILED"

	// Link verification outcomes
	ErrCodeInsufficientVerifiedLinks ErrorCode = "INSUFFICIENT_VERIFIED_LINKS"

	// Upstream provider failures
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeQuotaExceeded        ErrorCode = "QUOTA_EXCEEDED"

	// Everything else
	ErrCodeReportGenerationFailed ErrorCode = "REPORT_GENERATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInputInvalidError creates a non-retryable request shape error.
func NewInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputInvalid,
		Message:   "Request input is missing or malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationRejectedError wraps a negative semantic-validation outcome.
// The message is the model-provided explanation shown to the user.
func NewValidationRejectedError(explanation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationRejected,
		Message:   explanation,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationParseFailedError creates a retryable validation parse error.
func NewValidationParseFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationParseFailed,
		Message:   "Failed to validate inputs. Please try again.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoResultsFoundError reports the generator's explicit empty outcome.
func NewNoResultsFoundError(insuranceType, country string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoResultsFound,
		Message:   fmt.Sprintf("Could not find valid %s insurance products in %s. Please try a different search.", insuranceType, country),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResearchParseFailedError creates a retryable research parse error.
func NewResearchParseFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResearchParseFailed,
		Message:   "Failed to process research results. Please try again.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsufficientVerifiedLinksError reports that no product survived
// link verification.
func NewInsufficientVerifiedLinksError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientVerifiedLinks,
		Message:   "Insufficient valid products found. The AI found products but their links could not be verified.",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError maps a provider 401 to a user-facing message.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Authentication failed: Invalid OpenAI API Key.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExceededError maps a provider 429 to a user-facing message.
func NewQuotaExceededError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "Service busy or quota exceeded. Please try again later.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportGenerationFailedError is the generic terminal failure.
func NewReportGenerationFailedError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeReportGenerationFailed,
		Message:   "Failed to generate report. Please try again later.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsUserFacing reports whether the error's Message may be shown to the
// caller verbatim. Details never leave the server regardless.
func IsUserFacing(code ErrorCode) bool {
	switch code {
	case ErrCodeInputInvalid,
		ErrCodeValidationRejected,
		ErrCodeValidationParseFailed,
		ErrCodeNoResultsFound,
		ErrCodeResearchParseFailed,
		ErrCodeInsufficientVerifiedLinks,
		ErrCodeAuthenticationFailed,
		ErrCodeQuotaExceeded,
		ErrCodeReportGenerationFailed:
		return true
	default:
		return false
	}
}

// Package core provides the import, classification and rendering pipeline.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Import Errors (IMP001-IMP099)
//
// Errors raised when uploaded bytes cannot be parsed as the declared format:
//
//	IMP001 - Unsupported type: Only CSV and Excel (.xlsx) files are supported
//	         Action: Save the file as .csv or .xlsx and upload it again
//	         Sentinel: ErrUnsupportedFormat  Patterns: "unsupported file type"
//
//	IMP002 - Malformed CSV: The CSV file could not be parsed
//	         Action: Check for unbalanced quotes and rows with extra fields
//	         Sentinel: ErrMalformedCSV  Patterns: "malformed csv", "bare \" in non-quoted-field"
//
//	IMP003 - Corrupt spreadsheet: The Excel file could not be opened
//	         Action: Open the file in Excel, save it again as .xlsx and retry
//	         Sentinel: ErrCorruptSpreadsheet  Patterns: "corrupt spreadsheet", "zip: not a valid zip file"
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file handling:
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Split the file into smaller chunks
//	          Sentinel: ErrFileTooLarge  Patterns: "file too large", "request body too large"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Action: Save file as UTF-8 encoding
//	          Sentinel: ErrEncoding, ErrInvalidUTF8  Patterns: "encoding error"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a CSV or Excel file to upload
//	          Sentinel: ErrNoFile  Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Please upload a file with a header row
//	          Sentinel: ErrEmptyFile  Patterns: "empty file"
//
// # Upload Errors (UPL001-UPL099)
//
// Errors related to the upload process and stored uploads:
//
//	UPL002 - System busy: Too many uploads in progress
//	         Action: Please wait a moment and try again
//	         Sentinel: ErrTooManyUploads  Patterns: "too many"
//
//	UPL003 - Upload expired: Upload not found
//	         Action: The upload may have expired. Please upload the file again
//	         Sentinel: ErrUploadNotFound  Patterns: "upload not found"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Sentinel: context.Canceled  Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Try a smaller file or check your connection
//	         Sentinel: context.DeadlineExceeded  Patterns: "context deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching Order
//
// Sentinels are checked first with errors.Is, so wrapped errors resolve to
// their code regardless of message text. Remaining errors are matched
// case-insensitively against the patterns using strings.Contains; the first
// matching pattern wins.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated sentinel or patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request-level errors raised outside the importer.
var (
	ErrNoFile       = errors.New("no file provided")
	ErrFileTooLarge = errors.New("file too large")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgUnsupported = UserMessage{
		Message: "Only CSV and Excel (.xlsx) files are supported",
		Action:  "Save the file as .csv or .xlsx and upload it again",
		Code:    "IMP001",
	}
	msgMalformedCSV = UserMessage{
		Message: "The CSV file could not be parsed",
		Action:  "Check for unbalanced quotes and rows with extra fields",
		Code:    "IMP002",
	}
	msgCorruptSpreadsheet = UserMessage{
		Message: "The Excel file could not be opened",
		Action:  "Open the file in Excel, save it again as .xlsx and retry",
		Code:    "IMP003",
	}
	msgTooLarge = UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}
	msgEncoding = UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save file as UTF-8 encoding",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV or Excel file to upload",
		Code:    "FILE004",
	}
	msgEmpty = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a file with a header row",
		Code:    "FILE005",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgNotFound = UserMessage{
		Message: "Upload not found",
		Action:  "The upload may have expired. Please upload the file again",
		Code:    "UPL003",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// errorSentinels maps sentinel errors to user messages, checked with errors.Is.
// An ImportError matches both its reason and its cause, so reasons come
// before causes such as ErrInvalidUTF8.
var errorSentinels = []struct {
	err error
	msg UserMessage
}{
	{ErrUnsupportedFormat, msgUnsupported},
	{ErrMalformedCSV, msgMalformedCSV},
	{ErrCorruptSpreadsheet, msgCorruptSpreadsheet},
	{ErrEncoding, msgEncoding},
	{ErrInvalidUTF8, msgEncoding},
	{ErrEmptyFile, msgEmpty},
	{ErrFileTooLarge, msgTooLarge},
	{ErrNoFile, msgNoFile},
	{ErrTooManyUploads, msgBusy},
	{ErrUploadNotFound, msgNotFound},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages
// for errors that carry no sentinel, such as those crossing a process boundary.
// The first matching pattern wins, so more specific patterns come first.
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// Import
	{"unsupported file type", msgUnsupported},
	{"malformed csv", msgMalformedCSV},
	{"bare \" in non-quoted-field", msgMalformedCSV},
	{"extraneous or missing \" in quoted-field", msgMalformedCSV},
	{"corrupt spreadsheet", msgCorruptSpreadsheet},
	{"zip: not a valid zip file", msgCorruptSpreadsheet},

	// File
	{"file too large", msgTooLarge},
	{"request body too large", msgTooLarge},
	{"encoding error", msgEncoding},
	{"invalid utf-8", msgEncoding},
	{"no file provided", msgNoFile},
	{"empty file", msgEmpty},

	// Upload
	{"too many", msgBusy},
	{"upload not found", msgNotFound},
	{"context canceled", msgCancelled},
	{"context deadline exceeded", msgTimeout},
	{"timeout", msgTimeout},

	// Rate limiting
	{"rate limit", msgRateLimited},
}

// defaultMessage is returned when nothing matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinels are resolved with errors.Is first, then message patterns
// (case-insensitive). If nothing matches, ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("view: %w", ErrUploadNotFound)
//	msg := MapError(err)
//	// msg.Code == "UPL003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, s := range errorSentinels {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// DescribeLoadError renders the message shown in the Idle state after a
// failed load. Import failures show their description verbatim; anything
// else shows the mapped user message.
func DescribeLoadError(err error) string {
	if err == nil {
		return ""
	}
	if IsImportError(err) {
		return "Error loading file: " + err.Error()
	}
	return FormatUserError(err)
}

// IsUserFacing checks if an error matches a known sentinel or pattern.
// Returns false for nil and for the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(err)
//	log.Error(ue.Technical)   // Log original error
//	fmt.Println(ue.Error())   // Show "The CSV file could not be parsed"
//	fmt.Println(ue.User.Code) // Show "IMP002"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unsupported format sentinel",
			err:         &ImportError{File: "a.txt", Reason: ErrUnsupportedFormat},
			wantCode:    "IMP001",
			wantMessage: "Only CSV and Excel (.xlsx) files are supported",
		},
		{
			name:        "malformed csv sentinel",
			err:         &ImportError{Reason: ErrMalformedCSV, Err: errors.New(`parse error on line 2, column 4: extraneous or missing " in quoted-field`)},
			wantCode:    "IMP002",
			wantMessage: "The CSV file could not be parsed",
		},
		{
			name:        "corrupt spreadsheet sentinel",
			err:         &ImportError{Reason: ErrCorruptSpreadsheet, Err: errors.New("zip: not a valid zip file")},
			wantCode:    "IMP003",
			wantMessage: "The Excel file could not be opened",
		},
		{
			name:        "encoding reason wins over cause",
			err:         &ImportError{Reason: ErrEncoding, Err: fmt.Errorf("%w at byte 3", ErrInvalidUTF8)},
			wantCode:    "FILE003",
			wantMessage: "File contains invalid characters",
		},
		{
			name:        "empty file sentinel",
			err:         &ImportError{Reason: ErrEmptyFile},
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "wrapped upload not found",
			err:         fmt.Errorf("view abc: %w", ErrUploadNotFound),
			wantCode:    "UPL003",
			wantMessage: "Upload not found",
		},
		{
			name:        "limiter saturation",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "System is busy processing other uploads",
		},
		{
			name:        "context cancelled",
			err:         fmt.Errorf("import: %w", context.Canceled),
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "context deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "file too large pattern",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "rate limit pattern",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("MALFORMED CSV: bad row"),
			wantCode:    "IMP002",
			wantMessage: "The CSV file could not be parsed",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNoFile)

	expected := "No file was selected (Code: FILE004). Please select a CSV or Excel file to upload"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestDescribeLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"import error shows description",
			&ImportError{Reason: ErrMalformedCSV, Err: errors.New("line 3: expected 2 fields, found 3")},
			"Error loading file: malformed CSV: line 3: expected 2 fields, found 3",
		},
		{
			"other errors show the mapped message",
			ErrTooManyUploads,
			"System is busy processing other uploads (Code: UPL002). Please wait a moment and try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeLoadError(tt.err); got != tt.want {
				t.Errorf("DescribeLoadError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrEmptyFile, true},
		{"pattern is user facing", errors.New("rate limit hit"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := &ImportError{Reason: ErrMalformedCSV}
		userErr := NewUserError(techErr)

		if userErr.Error() != "The CSV file could not be parsed" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrMalformedCSV) {
			t.Error("Unwrap() should expose the original error")
		}
		if got := MapError(userErr); got.Code != "IMP002" {
			t.Errorf("MapError(UserError) code = %q, want IMP002", got.Code)
		}
	})
}

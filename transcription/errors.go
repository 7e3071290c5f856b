// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package transcription

import (
	"errors"
	"fmt"
)

// ErrorText is what legacy callers receive in place of a transcription on failure.
const ErrorText = "transcription error"

// ErrorType tells apart the ways a transcription can fail.
type ErrorType int

const (
	// ErrorTypeTransport the exchange could not be completed.
	ErrorTypeTransport ErrorType = iota
	// ErrorTypeStatus the server answered with a non-2xx status.
	ErrorTypeStatus
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransport:
		return "transport"
	case ErrorTypeStatus:
		return "status"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// Error is returned by Client.Transcribe.
type Error struct {
	Type       ErrorType
	StatusCode int
	Err        error
}

// Code is the value reported in the diagnostic line: the HTTP status for
// status failures, the underlying error otherwise.
func (e *Error) Code() string {
	if e.Type == ErrorTypeStatus {
		return fmt.Sprintf("%d", e.StatusCode)
	}

	if e.Err != nil {
		return e.Err.Error()
	}

	return "unknown"
}

func (e *Error) Error() string {
	return "transcription: http error: " + e.Code()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsStatusError reports whether err is a non-2xx response from the server.
func IsStatusError(err error) bool {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Type == ErrorTypeStatus
	}

	return false
}

// IsTransportError reports whether err means the server could not be reached
// or the exchange was interrupted.
func IsTransportError(err error) bool {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Type == ErrorTypeTransport
	}

	return false
}

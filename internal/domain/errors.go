package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DecodeErrorKind tags the ways a bearer token can fail to decode.
type DecodeErrorKind string

const (
	DecodeInvalidFormat   DecodeErrorKind = "invalid_format"
	DecodeMalformedClaims DecodeErrorKind = "malformed_claims"
)

// DecodeError reports a token that could not be turned into an Identity.
// It is never shown to users; a failed decode is indistinguishable from
// "never logged in".
type DecodeError struct {
	Kind   DecodeErrorKind
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("token decode failed (%s): %s", e.Kind, e.Reason)
}

// ErrUnparseableToken is returned by Login when the server hands back a token
// the decoder rejects immediately after a successful login call.
var ErrUnparseableToken = errors.New("server issued an unparseable token")

// ValidationError blocks a submission client-side; it never reaches the
// backend and is rendered inline next to the offending field or control.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// RequestError carries a backend or network failure to the handler that must
// render it. StatusCode is zero for transport-level failures.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a 401/403 backend rejection.
func IsAuthError(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden
	}
	return false
}

// Notification is the payload every surfaced success or failure becomes.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

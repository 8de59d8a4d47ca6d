package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a deployment environment name that did not resolve
// within the repository scope. Terminal; the run is never retried.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found\n  💡 Try: Check the name with 'bbenv environments'", e.Resource, e.Name)
}

// TransportError reports a failed call against the Bitbucket API: either a
// non-2xx response (StatusCode set) or a network-level failure (Err set).
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e TransportError) Error() string {
	msg := fmt.Sprintf("Bitbucket API error during %s", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.URL != "" {
		msg += ": " + e.URL
	}
	if e.Body != "" {
		msg += "\n  Details: " + e.Body
	}
	if e.Err != nil {
		msg += "\n  Details: " + e.Err.Error()
	}
	if suggestion := transportSuggestion(e); suggestion != "" {
		msg += "\n  💡 Try: " + suggestion
	}
	return msg
}

func (e TransportError) Unwrap() error {
	return e.Err
}

func transportSuggestion(e TransportError) string {
	switch e.StatusCode {
	case 401:
		return "Check BITBUCKET_USERNAME and BITBUCKET_APP_PASSWORD, or run 'bbenv login' again"
	case 403:
		return "Ensure the app password has the 'Pipelines: variables' scopes"
	case 404:
		return "Verify the workspace and repository slug"
	case 429:
		return "Bitbucket rate limit exceeded. Wait a moment and try again"
	}
	if e.Err != nil {
		errStr := e.Err.Error()
		if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
			return "The request timed out. Check your network connection and try again"
		}
		if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
			return "Unable to reach the Bitbucket API. Check your network and the configured base URL"
		}
	}
	return ""
}

// DecodeError reports a remote payload or local import file whose shape does
// not match the fields this tool relies on.
type DecodeError struct {
	What string
	Err  error
}

func (e DecodeError) Error() string {
	msg := fmt.Sprintf("Invalid %s", e.What)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// FileError reports a local file that could not be read or written.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e FileError) Error() string {
	msg := fmt.Sprintf("Cannot %s file '%s'", e.Op, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	msg += "\n  💡 Try: Verify the path exists and is spelled correctly"
	return msg
}

func (e FileError) Unwrap() error {
	return e.Err
}

// MissingCredentialsError is raised once at startup, before any network
// activity, when the username or app password could not be resolved.
type MissingCredentialsError struct {
	Missing []string
}

func (e MissingCredentialsError) Error() string {
	return fmt.Sprintf("Missing credentials: %s\n  💡 Try: Set them in bitbucket.env, export them, or run 'bbenv login'",
		strings.Join(e.Missing, ", "))
}

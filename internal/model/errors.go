package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network attempt when no API key is available.
	ErrMissingCredential = errors.New("API key is required")

	// ErrMissingContent is returned when neither pasted text nor a PDF is active.
	ErrMissingContent = errors.New("no CV content provided, upload a PDF or paste text")

	// ErrEmptyResponse is returned when the provider answered with an empty body.
	ErrEmptyResponse = errors.New("no response text generated")

	// ErrBusy is returned when an analysis is started while another one is still pending.
	ErrBusy = errors.New("an analysis is already in progress")

	// ErrUnsupportedDocument is returned by the file boundary for anything that is not a PDF.
	ErrUnsupportedDocument = errors.New("currently only PDF files are supported for direct analysis")
)

// ProviderError wraps a failure of the remote model call (network, auth, quota
// or server side). Message is the provider's own text, passed through verbatim.
type ProviderError struct {
	Provider   string
	StatusCode int // zero when the failure happened before an HTTP response
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError whose message is err's text.
func NewProviderError(provider string, statusCode int, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// MalformedResponseError reports a response body that is not valid JSON or does
// not match the result shape. Field is empty for plain JSON syntax errors.
type MalformedResponseError struct {
	Field string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed analysis response: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed analysis response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// UserMessage converts any analysis failure into the single message shown to
// the user. Provider messages are returned unchanged.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var provErr *ProviderError
	var malformed *MalformedResponseError
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "An API key is required. Run `cvnexus login` to add one."
	case errors.Is(err, ErrMissingContent):
		return "Please provide CV content either by pasting text or uploading a PDF."
	case errors.Is(err, ErrBusy):
		return "An analysis is already running. Please wait for it to finish."
	case errors.Is(err, ErrEmptyResponse):
		return "The model returned an empty response. Please try again."
	case errors.As(err, &provErr):
		return provErr.Message
	case errors.As(err, &malformed):
		return "The model returned an analysis in an unexpected format. Please try again."
	case errors.Is(err, ErrUnsupportedDocument):
		return "Currently only PDF files are supported for direct analysis."
	default:
		return "An error occurred during analysis."
	}
}

package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage_ProviderMessageVerbatim(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewProviderError("gemini", 429, errors.New("Resource has been exhausted (e.g. check quota).")))

	got := UserMessage(err)
	if got != "Resource has been exhausted (e.g. check quota)." {
		t.Errorf("UserMessage = %q, want provider message verbatim", got)
	}
}

func TestUserMessage_Taxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"credential", ErrMissingCredential, "An API key is required. Run `cvnexus login` to add one."},
		{"content", fmt.Errorf("build request: %w", ErrMissingContent), "Please provide CV content either by pasting text or uploading a PDF."},
		{"empty", ErrEmptyResponse, "The model returned an empty response. Please try again."},
		{"malformed", &MalformedResponseError{Field: "verdict", Err: errors.New("required")}, "The model returned an analysis in an unexpected format. Please try again."},
		{"other", errors.New("boom"), "An error occurred during analysis."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.want {
				t.Errorf("UserMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewProviderError("openai", 0, inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach the wrapped error")
	}
	if err.Error() != "connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMalformedResponseError_Message(t *testing.T) {
	err := &MalformedResponseError{Field: "skills.missing", Err: errors.New("is required")}
	want := `malformed analysis response: field "skills.missing": is required`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

package provider

import "errors"

var (
	// ErrMissingAPIKey is returned when a provider that needs a credential has none
	ErrMissingAPIKey = errors.New("no API key configured for provider")

	// ErrEmptyCompletion is returned when the upstream answers without any text
	ErrEmptyCompletion = errors.New("upstream returned no text")
)

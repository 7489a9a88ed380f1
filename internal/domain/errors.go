package domain

import "errors"

var (
	// ErrNoImage is returned when an identification request carries no image
	ErrNoImage = errors.New("no image file provided")

	// ErrModelNotConfigured is returned when the model API key is missing
	ErrModelNotConfigured = errors.New("GOOGLE_GEMINI_API_KEY is not set")

	// ErrModelFailure is returned when the generative model call fails
	ErrModelFailure = errors.New("model request failed")

	// ErrEmptyModelResponse is returned when the model answers without any text
	ErrEmptyModelResponse = errors.New("model returned no text")
)

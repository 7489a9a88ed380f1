package domain

import "context"

// PlantModel defines the interface for the multimodal generative model
type PlantModel interface {
	// GenerateContent sends the prompt and the image and returns the reply text
	GenerateContent(ctx context.Context, prompt string, image *Image) (string, error)
	// Name returns the model identifier, e.g. "gemini-1.5-flash"
	Name() string
}

// Identifier identifies the plant shown in an image
type Identifier interface {
	Identify(ctx context.Context, image *Image) (*Identification, error)
}

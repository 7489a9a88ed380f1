package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/plantid/backend/internal/domain"
)

// DefaultPrompt is the instruction sent to the model together with the image
const DefaultPrompt = "Identify this plant and provide the following information in a JSON format: common name, scientific name, family, native region, and a brief description."

// outcomeError is reported to the recorder when the model call fails
const outcomeError = "error"

// IdentificationRecorder receives one observation per model call
type IdentificationRecorder interface {
	RecordIdentification(outcome string, duration time.Duration)
}

// IdentificationServiceConfig holds configuration for the identification service
type IdentificationServiceConfig struct {
	APIKey             string
	Prompt             string
	EnableDebugLogging bool
}

// IdentificationService forwards plant photos to the model and normalizes the reply
type IdentificationService struct {
	model      domain.PlantModel
	normalizer *ResponseNormalizer
	recorder   IdentificationRecorder
	apiKey     string
	prompt     string
	debug      bool
}

// NewIdentificationService creates a new identification service with dependencies.
// recorder may be nil.
func NewIdentificationService(
	model domain.PlantModel,
	recorder IdentificationRecorder,
	config IdentificationServiceConfig,
) *IdentificationService {
	prompt := config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	return &IdentificationService{
		model:      model,
		normalizer: NewResponseNormalizer(config.EnableDebugLogging),
		recorder:   recorder,
		apiKey:     config.APIKey,
		prompt:     prompt,
		debug:      config.EnableDebugLogging,
	}
}

// Identify sends the image to the model and returns the normalized answer.
// Flow: check image -> check credentials -> call model -> normalize
func (s *IdentificationService) Identify(ctx context.Context, image *domain.Image) (*domain.Identification, error) {
	if image.Empty() {
		return nil, domain.ErrNoImage
	}

	if s.apiKey == "" || s.model == nil {
		return nil, domain.ErrModelNotConfigured
	}

	upload := *image
	upload.MimeType = resolveMimeType(image)

	if s.debug {
		log.Printf("[Identify] Sending %d bytes (%s) to %s", len(upload.Data), upload.MimeType, s.model.Name())
	}

	start := time.Now()
	text, err := s.model.GenerateContent(ctx, s.prompt, &upload)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[Identify] Model call failed after %s (file=%q, type=%s, bytes=%d): %v",
			duration, upload.Filename, upload.MimeType, len(upload.Data), err)
		s.record(outcomeError, duration)
		return nil, fmt.Errorf("%w: %v", domain.ErrModelFailure, err)
	}

	normalized := s.normalizer.Normalize(text)
	s.record(string(normalized.Outcome), duration)

	return &domain.Identification{
		Normalized: normalized,
		Model:      s.model.Name(),
		Duration:   duration,
	}, nil
}

func (s *IdentificationService) record(outcome string, duration time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordIdentification(outcome, duration)
	}
}

// resolveMimeType keeps the declared media type and only sniffs the content
// when the upload did not declare a usable one.
func resolveMimeType(image *domain.Image) string {
	switch image.MimeType {
	case "", "application/octet-stream":
		return mimetype.Detect(image.Data).String()
	default:
		return image.MimeType
	}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/plantid/backend/internal/domain"
)

// TestMain verifies that no goroutines leak from the usecase layer
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockPlantModel is a mock implementation of domain.PlantModel
type MockPlantModel struct {
	reply      string
	err        error
	calls      int
	lastImage  *domain.Image
	lastPrompt string
}

func (m *MockPlantModel) GenerateContent(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastImage = image
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *MockPlantModel) Name() string {
	return "mock-model"
}

// MockRecorder collects recorded outcomes
type MockRecorder struct {
	outcomes []string
}

func (r *MockRecorder) RecordIdentification(outcome string, duration time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestService(model *MockPlantModel, recorder *MockRecorder) *IdentificationService {
	var rec IdentificationRecorder
	if recorder != nil {
		rec = recorder
	}
	return NewIdentificationService(model, rec, IdentificationServiceConfig{APIKey: "test-key"})
}

func TestNewIdentificationService(t *testing.T) {
	t.Run("uses default prompt", func(t *testing.T) {
		s := NewIdentificationService(&MockPlantModel{}, nil, IdentificationServiceConfig{APIKey: "k"})
		if s.prompt != DefaultPrompt {
			t.Errorf("prompt = %q, want default prompt", s.prompt)
		}
	})

	t.Run("keeps custom prompt", func(t *testing.T) {
		s := NewIdentificationService(&MockPlantModel{}, nil, IdentificationServiceConfig{APIKey: "k", Prompt: "custom"})
		if s.prompt != "custom" {
			t.Errorf("prompt = %q, want custom", s.prompt)
		}
	})
}

func TestIdentify_NoImage(t *testing.T) {
	model := &MockPlantModel{reply: roseJSON}
	s := newTestService(model, nil)

	for _, image := range []*domain.Image{nil, {MimeType: "image/png"}} {
		result, err := s.Identify(context.Background(), image)

		if !errors.Is(err, domain.ErrNoImage) {
			t.Errorf("error = %v, want ErrNoImage", err)
		}
		if result != nil {
			t.Errorf("result = %+v, want nil", result)
		}
	}

	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}

func TestIdentify_MissingAPIKey(t *testing.T) {
	model := &MockPlantModel{reply: roseJSON}
	s := NewIdentificationService(model, nil, IdentificationServiceConfig{})

	_, err := s.Identify(context.Background(), &domain.Image{Data: pngHeader, MimeType: "image/png"})

	if !errors.Is(err, domain.ErrModelNotConfigured) {
		t.Errorf("error = %v, want ErrModelNotConfigured", err)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}

func TestIdentify_ModelFailure(t *testing.T) {
	model := &MockPlantModel{err: errors.New("quota exceeded for project")}
	recorder := &MockRecorder{}
	s := newTestService(model, recorder)

	result, err := s.Identify(context.Background(), &domain.Image{Data: pngHeader, MimeType: "image/png"})

	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !errors.Is(err, domain.ErrModelFailure) {
		t.Fatalf("error = %v, want ErrModelFailure", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded for project") {
		t.Errorf("error = %q, want upstream message passthrough", err.Error())
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want exactly 1 (no retry)", model.calls)
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != "error" {
		t.Errorf("recorded outcomes = %v, want [error]", recorder.outcomes)
	}
}

func TestIdentify_Success(t *testing.T) {
	model := &MockPlantModel{reply: "```json\n" + roseJSON + "\n```"}
	recorder := &MockRecorder{}
	s := newTestService(model, recorder)

	image := &domain.Image{Data: pngHeader, MimeType: "image/png", Filename: "rose.png"}
	result, err := s.Identify(context.Background(), image)

	if err != nil {
		t.Fatalf("Identify() error = %v, want nil", err)
	}
	want := domain.IdentificationResult{
		CommonName:     "Rose",
		ScientificName: "Rosa",
		Family:         "Rosaceae",
		NativeRegion:   "Asia",
		Description:    "A flowering shrub.",
	}
	if result.Result != want {
		t.Errorf("Result = %+v, want %+v", result.Result, want)
	}
	if !result.Parsed() {
		t.Errorf("Outcome = %s, want parsed", result.Outcome)
	}
	if result.Model != "mock-model" {
		t.Errorf("Model = %s, want mock-model", result.Model)
	}
	if model.lastPrompt != DefaultPrompt {
		t.Errorf("prompt = %q, want default prompt", model.lastPrompt)
	}
	if string(model.lastImage.Data) != string(pngHeader) {
		t.Errorf("image bytes were not forwarded unchanged")
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != "parsed" {
		t.Errorf("recorded outcomes = %v, want [parsed]", recorder.outcomes)
	}
}

func TestIdentify_FallbackIsNotAnError(t *testing.T) {
	reply := "I think this is a **rose**, but the photo is blurry."
	model := &MockPlantModel{reply: reply}
	recorder := &MockRecorder{}
	s := newTestService(model, recorder)

	result, err := s.Identify(context.Background(), &domain.Image{Data: pngHeader, MimeType: "image/png"})

	if err != nil {
		t.Fatalf("Identify() error = %v, want nil", err)
	}
	if result.Outcome != domain.OutcomeFallback {
		t.Errorf("Outcome = %s, want fallback", result.Outcome)
	}
	if result.Result.Description != reply {
		t.Errorf("Description = %q, want raw reply", result.Result.Description)
	}
	if result.Result.CommonName != "Unknown" {
		t.Errorf("CommonName = %q, want Unknown", result.Result.CommonName)
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != "fallback" {
		t.Errorf("recorded outcomes = %v, want [fallback]", recorder.outcomes)
	}
}

func TestResolveMimeType(t *testing.T) {
	testCases := []struct {
		name     string
		image    *domain.Image
		wantType string
	}{
		{"keeps declared type", &domain.Image{Data: pngHeader, MimeType: "image/webp"}, "image/webp"},
		{"detects missing type", &domain.Image{Data: pngHeader}, "image/png"},
		{"detects octet-stream", &domain.Image{Data: pngHeader, MimeType: "application/octet-stream"}, "image/png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveMimeType(tc.image); got != tc.wantType {
				t.Errorf("resolveMimeType() = %q, want %q", got, tc.wantType)
			}
		})
	}
}

func TestIdentify_DoesNotMutateUpload(t *testing.T) {
	model := &MockPlantModel{reply: roseJSON}
	s := newTestService(model, nil)

	image := &domain.Image{Data: pngHeader}
	if _, err := s.Identify(context.Background(), image); err != nil {
		t.Fatalf("Identify() error = %v", err)
	}

	if image.MimeType != "" {
		t.Errorf("caller image MimeType = %q, want unchanged", image.MimeType)
	}
	if model.lastImage.MimeType != "image/png" {
		t.Errorf("forwarded MimeType = %q, want image/png", model.lastImage.MimeType)
	}
}

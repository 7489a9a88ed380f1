package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/plantid/backend/internal/domain"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-1.5-flash"

// Client handles communication with the Gemini generative language API
type Client struct {
	service *generativelanguage.Service
	model   string
	debug   bool
}

// NewClient creates a new Gemini API client.
// baseURL overrides the API endpoint and may be empty.
func NewClient(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ErrModelNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimSuffix(baseURL, "/")+"/"))
	}

	service, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini service: %w", err)
	}

	return &Client{
		service: service,
		model:   model,
	}, nil
}

// SetDebug enables or disables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Name returns the configured model identifier
func (c *Client) Name() string {
	return c.model
}

// GenerateContent sends the prompt and the inline image in a single request
// and returns the concatenated text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	if image.Empty() {
		return "", domain.ErrNoImage
	}

	if c.debug {
		log.Printf("[Gemini] GenerateContent model=%s type=%s bytes=%d", c.model, image.MimeType, len(image.Data))
	}

	req := buildRequest(prompt, image)
	resp, err := c.service.Models.GenerateContent(modelResource(c.model), req).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			log.Printf("[Gemini] API error - Status: %d, Message: %s", apiErr.Code, apiErr.Message)
		} else {
			log.Printf("[Gemini] Request error: %v", err)
		}
		return "", err
	}

	text, err := extractText(resp)
	if err != nil {
		log.Printf("[Gemini] Unusable response: %v", err)
		return "", err
	}

	if c.debug {
		log.Printf("[Gemini] Received %d characters of text", len(text))
	}

	return text, nil
}

// modelResource turns "gemini-1.5-flash" into "models/gemini-1.5-flash"
func modelResource(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

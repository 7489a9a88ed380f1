package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/plantid/backend/internal/domain"
)

// IdentifyPath is the API route the client posts images to
const IdentifyPath = "/api/v1/plants/identify"

// APIError is a non-success answer from the identification API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", GenericServerError, e.StatusCode)
	}
	return e.Message
}

// identifyResponse mirrors the JSON body of the identify endpoint
type identifyResponse struct {
	Result  *domain.IdentificationResult `json:"result"`
	Outcome domain.Outcome               `json:"outcome"`
	Model   string                       `json:"model"`
	Error   string                       `json:"error"`
}

// Client calls a running identification API over HTTP
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client. No timeout is set; requests run until
// the transport or ctx ends them.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Identify uploads the image as the "image" form field and decodes the answer
func (c *Client) Identify(ctx context.Context, image *domain.Image) (*domain.Identification, error) {
	if image.Empty() {
		return nil, ErrNoImageSelected
	}

	body, contentType, err := encodeUpload(image)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+IdentifyPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded identifyResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: decoded.Error}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if decoded.Result == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: decoded.Error}
	}

	outcome := decoded.Outcome
	if outcome == "" {
		outcome = domain.OutcomeParsed
	}

	return &domain.Identification{
		Normalized: domain.Normalized{
			Outcome: outcome,
			Result:  *decoded.Result,
		},
		Model: decoded.Model,
	}, nil
}

// encodeUpload writes a multipart body that keeps the image's declared media type
func encodeUpload(image *domain.Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := image.Filename
	if filename == "" {
		filename = "image"
	}
	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

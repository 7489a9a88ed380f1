package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"

	"github.com/plantid/backend/internal/domain"
)

// buildRequest converts the prompt and image into a generateContent request.
// The text part comes first, the image follows as base64 inline data.
func buildRequest(prompt string, image *domain.Image) *generativelanguage.GenerateContentRequest {
	return &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role: "user",
				Parts: []*generativelanguage.Part{
					{Text: prompt},
					{
						InlineData: &generativelanguage.Blob{
							Data:     base64.StdEncoding.EncodeToString(image.Data),
							MimeType: image.MimeType,
						},
					},
				},
			},
		},
	}
}

// extractText joins the text parts of the first candidate
func extractText(resp *generativelanguage.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", domain.ErrEmptyModelResponse, resp.PromptFeedback.BlockReason)
		}
		return "", domain.ErrEmptyModelResponse
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate.FinishReason != "" {
			return "", fmt.Errorf("%w: finish reason %s", domain.ErrEmptyModelResponse, candidate.FinishReason)
		}
		return "", domain.ErrEmptyModelResponse
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}

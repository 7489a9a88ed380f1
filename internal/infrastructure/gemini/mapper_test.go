package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"

	"github.com/plantid/backend/internal/domain"
)

func TestBuildRequest(t *testing.T) {
	req := buildRequest("describe", &domain.Image{Data: []byte{0xff, 0xd8, 0xff}, MimeType: "image/jpeg"})

	require.Len(t, req.Contents, 1)
	assert.Equal(t, "user", req.Contents[0].Role)

	parts := req.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "describe", parts[0].Text)
	assert.Nil(t, parts[0].InlineData)
	assert.Equal(t, "/9j/", parts[1].InlineData.Data)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *generativelanguage.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{
			name: "single text part",
			resp: &generativelanguage.GenerateContentResponse{
				Candidates: []*generativelanguage.Candidate{
					{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "hello"}}}},
				},
			},
			want: "hello",
		},
		{
			name: "multiple parts are joined",
			resp: &generativelanguage.GenerateContentResponse{
				Candidates: []*generativelanguage.Candidate{
					{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "{\"a\":"}, nil, {Text: "\"b\"}"}}}},
				},
			},
			want: `{"a":"b"}`,
		},
		{
			name: "only first candidate is used",
			resp: &generativelanguage.GenerateContentResponse{
				Candidates: []*generativelanguage.Candidate{
					{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "first"}}}},
					{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "second"}}}},
				},
			},
			want: "first",
		},
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
		{
			name:    "no candidates",
			resp:    &generativelanguage.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name: "candidate without content",
			resp: &generativelanguage.GenerateContentResponse{
				Candidates: []*generativelanguage.Candidate{{FinishReason: "SAFETY"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractText(tt.resp)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrEmptyModelResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

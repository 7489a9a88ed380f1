package domain

import "time"

// UnknownValue is used for every field that cannot be recovered from the model reply
const UnknownValue = "Unknown"

// IdentificationResult describes an identified plant
type IdentificationResult struct {
	CommonName     string `json:"commonName"`
	ScientificName string `json:"scientificName"`
	Family         string `json:"family"`
	NativeRegion   string `json:"nativeRegion"`
	Description    string `json:"description"`
}

// FallbackResult builds the degraded record returned when the model reply
// cannot be parsed. The raw reply is kept as the description.
func FallbackResult(raw string) IdentificationResult {
	return IdentificationResult{
		CommonName:     UnknownValue,
		ScientificName: UnknownValue,
		Family:         UnknownValue,
		NativeRegion:   UnknownValue,
		Description:    raw,
	}
}

// Image is an uploaded photo together with its declared media type
type Image struct {
	Data     []byte
	MimeType string
	Filename string
}

// Empty reports whether the image carries no content
func (i *Image) Empty() bool {
	return i == nil || len(i.Data) == 0
}

// Outcome tells how a model reply was turned into an IdentificationResult
type Outcome string

const (
	// OutcomeParsed means the reply was valid JSON
	OutcomeParsed Outcome = "parsed"
	// OutcomeFallback means the reply could not be parsed and the fallback record was used
	OutcomeFallback Outcome = "fallback"
)

// Normalized is the result of normalizing a model reply.
// Fields is only set for parsed replies, Raw always holds the original text.
type Normalized struct {
	Outcome Outcome
	Result  IdentificationResult
	Fields  map[string]interface{}
	Raw     string
}

// Parsed reports whether the reply was a genuine JSON answer
func (n Normalized) Parsed() bool {
	return n.Outcome == OutcomeParsed
}

// Identification is the full outcome of one identification request
type Identification struct {
	Normalized
	Model    string
	Duration time.Duration
}

package usecase

import (
	"encoding/json"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/plantid/backend/internal/domain"
)

// Compiled regex patterns for model reply cleanup
var (
	// Matches fenced code markers with an optional language tag, e.g. "```json\n", "```JSON" or "```"
	codeFencePattern = regexp.MustCompile("```[A-Za-z]*\\s?")

	// Matches emphasis, heading and list markup left over after the fences are gone
	markupPattern = regexp.MustCompile("[*#\\-_`]")

	// Characters ignored when comparing JSON keys
	keySeparatorPattern = regexp.MustCompile(`[\s_\-]+`)
)

// resultField is one IdentificationResult field and the JSON key it is rendered under
type resultField struct {
	key string
	set func(*domain.IdentificationResult, string)
}

// canonicalFields maps a folded key to the IdentificationResult field it fills
var canonicalFields = map[string]resultField{
	"commonname":     {"commonName", func(r *domain.IdentificationResult, v string) { r.CommonName = v }},
	"scientificname": {"scientificName", func(r *domain.IdentificationResult, v string) { r.ScientificName = v }},
	"family":         {"family", func(r *domain.IdentificationResult, v string) { r.Family = v }},
	"nativeregion":   {"nativeRegion", func(r *domain.IdentificationResult, v string) { r.NativeRegion = v }},
	"description":    {"description", func(r *domain.IdentificationResult, v string) { r.Description = v }},
}

// ResponseNormalizer turns the free-text reply of the model into an IdentificationResult
type ResponseNormalizer struct {
	enableDebugLogging bool
}

// NewResponseNormalizer creates a new response normalizer
func NewResponseNormalizer(enableDebugLogging bool) *ResponseNormalizer {
	return &ResponseNormalizer{
		enableDebugLogging: enableDebugLogging,
	}
}

// StripMarkdown removes code fences and markdown markup characters from text.
// Markup characters are removed everywhere, including inside JSON string values.
func StripMarkdown(text string) string {
	text = codeFencePattern.ReplaceAllString(text, "")
	text = markupPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Normalize parses the model reply. It never fails: a reply that is not a JSON
// object after stripping yields the fallback record with the raw text as description.
func (n *ResponseNormalizer) Normalize(text string) domain.Normalized {
	stripped := StripMarkdown(text)

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(stripped), &fields); err != nil || fields == nil {
		log.Printf("[Normalize] Failed to parse JSON: %q", stripped)
		return domain.Normalized{
			Outcome: domain.OutcomeFallback,
			Result:  domain.FallbackResult(text),
			Raw:     text,
		}
	}

	result := canonicalize(fields)
	if n.enableDebugLogging {
		log.Printf("[Normalize] Parsed %d fields: common=%q scientific=%q", len(fields), result.CommonName, result.ScientificName)
	}

	return domain.Normalized{
		Outcome: domain.OutcomeParsed,
		Result:  result,
		Fields:  fields,
		Raw:     text,
	}
}

// canonicalize maps whatever key spelling the model used onto the five result fields.
// "commonName", "common name", "Common_Name" and "commonname" all fill CommonName.
// When several keys fill the same field the exact camelCase key wins, otherwise
// the first key in sorted order does.
func canonicalize(fields map[string]interface{}) domain.IdentificationResult {
	result := domain.IdentificationResult{
		CommonName:     domain.UnknownValue,
		ScientificName: domain.UnknownValue,
		Family:         domain.UnknownValue,
		NativeRegion:   domain.UnknownValue,
		Description:    domain.UnknownValue,
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filled := make(map[string]bool, len(canonicalFields))
	for _, key := range keys {
		folded := foldKey(key)
		field, ok := canonicalFields[folded]
		if !ok {
			continue
		}
		exact := key == field.key
		if filled[folded] && !exact {
			continue
		}
		if value, ok := stringValue(fields[key]); ok {
			field.set(&result, value)
			filled[folded] = true
		}
	}

	return result
}

// foldKey lowercases a key and drops spaces, underscores and hyphens
func foldKey(key string) string {
	return keySeparatorPattern.ReplaceAllString(strings.ToLower(key), "")
}

// stringValue renders a decoded JSON value as a field string.
// Lists of scalars are joined with ", "; objects, nulls and empty strings are rejected.
func stringValue(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if _, nested := item.([]interface{}); nested {
				continue
			}
			if s, ok := stringValue(item); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}

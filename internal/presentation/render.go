package presentation

import (
	"embed"
	"html/template"
	"io"
	textTemplate "text/template"

	"github.com/plantid/backend/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

var (
	pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))
	cardTemplate = textTemplate.Must(textTemplate.ParseFS(templateFS, "templates/card.txt"))
)

// View is a render snapshot of a Session
type View struct {
	State         State
	Preview       template.URL
	Filename      string
	Result        *domain.IdentificationResult
	Fallback      bool
	Error         string
	ActionEnabled bool
	ButtonLabel   string
	// Reselect is set on pages rendered after a form post, where the browser
	// no longer holds the chosen file
	Reselect bool
}

// Card is one labelled value of the result grid
type Card struct {
	Title string
	Value string
	Icon  string
	Color string
}

// Cards returns the name and origin cards in display order.
// The description is rendered separately.
func (v View) Cards() []Card {
	if v.Result == nil {
		return nil
	}
	return []Card{
		{Title: "Common Name", Value: orUnknown(v.Result.CommonName), Icon: "🍃", Color: "green"},
		{Title: "Scientific Name", Value: orUnknown(v.Result.ScientificName), Icon: "⚗", Color: "blue"},
		{Title: "Family", Value: orUnknown(v.Result.Family), Icon: "🌿", Color: "teal"},
		{Title: "Native Region", Value: orUnknown(v.Result.NativeRegion), Icon: "🌎", Color: "yellow"},
	}
}

// RenderHTML writes the full page for v
func RenderHTML(w io.Writer, v View) error {
	return pageTemplate.Execute(w, v)
}

// RenderText writes the result cards as plain text, for terminals
func RenderText(w io.Writer, v View) error {
	return cardTemplate.Execute(w, v)
}

func orUnknown(s string) string {
	if s == "" {
		return domain.UnknownValue
	}
	return s
}

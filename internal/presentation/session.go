// Package presentation holds the upload-and-identify page: a session state
// machine, an HTTP client for the identification API and the card renderers.
package presentation

import (
	"context"
	"encoding/base64"
	"errors"
	"html/template"
	"sync"

	"github.com/plantid/backend/internal/domain"
)

// State is the stage of a Session
type State int

const (
	// StateIdle means no image has been chosen yet
	StateIdle State = iota
	// StateImageSelected means an image is previewed and the action is enabled
	StateImageSelected
	// StateIdentifying means a request is in flight
	StateIdentifying
	// StateSettled means a result or an error is shown
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "image-selected"
	case StateIdentifying:
		return "identifying"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Messages shown when the failure carries no text of its own
const (
	GenericServerError = "Failed to identify plant"
	GenericClientError = "An unexpected error occurred"
)

var (
	// ErrNoImageSelected is returned when identifying without an image
	ErrNoImageSelected = errors.New("no image selected")

	// ErrRequestInFlight is returned when the session is busy identifying
	ErrRequestInFlight = errors.New("identification already in progress")

	// ErrNoIdentifier is returned when the session has nothing to identify with
	ErrNoIdentifier = errors.New("session has no identifier")
)

// Session tracks one user's upload and its identification.
// Only one request can be outstanding at a time.
type Session struct {
	identifier domain.Identifier

	mu       sync.Mutex
	state    State
	image    *domain.Image
	preview  template.URL
	result   *domain.IdentificationResult
	fallback bool
	errMsg   string
}

// NewSession creates an idle session backed by identifier
func NewSession(identifier domain.Identifier) *Session {
	return &Session{identifier: identifier}
}

// SelectImage stores the chosen image and its preview and clears any previous error.
// A result from an earlier identification stays visible until the next request.
func (s *Session) SelectImage(image *domain.Image) error {
	if image.Empty() {
		return ErrNoImageSelected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdentifying {
		return ErrRequestInFlight
	}

	s.image = image
	s.preview = previewURL(image)
	s.errMsg = ""
	s.state = StateImageSelected
	return nil
}

// Identify sends the selected image and settles with either a result or an error message.
// The returned error only reports illegal transitions; request failures are kept in the view.
func (s *Session) Identify(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.state == StateIdentifying:
		s.mu.Unlock()
		return ErrRequestInFlight
	case s.image == nil:
		s.mu.Unlock()
		return ErrNoImageSelected
	case s.identifier == nil:
		s.mu.Unlock()
		return ErrNoIdentifier
	}
	image := s.image
	s.state = StateIdentifying
	s.result = nil
	s.fallback = false
	s.errMsg = ""
	s.mu.Unlock()

	identification, err := s.identifier.Identify(ctx, image)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateSettled
	if err != nil {
		s.errMsg = errorMessage(err)
		return nil
	}
	if identification == nil {
		s.errMsg = GenericServerError
		return nil
	}
	result := identification.Result
	s.result = &result
	s.fallback = !identification.Parsed()
	return nil
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActionEnabled reports whether the identify action can be triggered
func (s *Session) ActionEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionEnabled()
}

func (s *Session) actionEnabled() bool {
	return s.image != nil && s.state != StateIdentifying
}

// View returns a snapshot of everything the page renders
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:         s.state,
		Preview:       s.preview,
		Result:        s.result,
		Fallback:      s.fallback,
		Error:         s.errMsg,
		ActionEnabled: s.actionEnabled(),
		ButtonLabel:   "Identify Plant",
	}
	if s.image != nil {
		v.Filename = s.image.Filename
	}
	if s.state == StateIdentifying {
		v.ButtonLabel = "Identifying..."
	}
	return v
}

// errorMessage picks the text shown to the user for a failed request
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return GenericServerError
		}
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericClientError
}

// previewURL builds a data URL so the page can show the upload without storing it
func previewURL(image *domain.Image) template.URL {
	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image.Data))
}

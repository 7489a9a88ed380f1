package http

import (
	"bytes"
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantid/backend/internal/domain"
	"github.com/plantid/backend/internal/presentation"
)

// pageIdentifier adapts the handler to the presentation session so the page
// shows the same messages the JSON API returns
type pageIdentifier struct {
	handler *Handler
	c       *gin.Context
}

func (p pageIdentifier) Identify(ctx context.Context, image *domain.Image) (*domain.Identification, error) {
	identification, err := p.handler.identify(p.c, image)
	if err != nil {
		status, message := identifyFailure(err)
		return nil, &presentation.APIError{StatusCode: status, Message: message}
	}
	return identification, nil
}

// Index renders the upload page in its idle state
func (h *Handler) Index(c *gin.Context) {
	renderPage(c, http.StatusOK, presentation.NewSession(nil).View())
}

// SubmitPage handles the upload form and renders the settled page
func (h *Handler) SubmitPage(c *gin.Context) {
	session := presentation.NewSession(pageIdentifier{handler: h, c: c})

	image, err := readImage(c)
	if err != nil {
		view := session.View()
		view.Error = noImageMessage
		renderPage(c, http.StatusBadRequest, view)
		return
	}

	if err := session.SelectImage(image); err != nil {
		view := session.View()
		view.Error = noImageMessage
		renderPage(c, http.StatusBadRequest, view)
		return
	}

	if err := session.Identify(c.Request.Context()); err != nil {
		log.Printf("[Page] Unexpected session error (request=%s): %v", RequestID(c), err)
	}

	view := session.View()
	view.Reselect = true
	renderPage(c, http.StatusOK, view)
}

func renderPage(c *gin.Context, status int, view presentation.View) {
	var buf bytes.Buffer
	if err := presentation.RenderHTML(&buf, view); err != nil {
		log.Printf("[Page] Template error (request=%s): %v", RequestID(c), err)
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

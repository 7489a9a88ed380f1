package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantid/backend/internal/domain"
)

// Version is reported by the health check
const Version = "1.0.0"

// noImageMessage is the client error returned when the form has no image field
const noImageMessage = "No image file provided"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	identifier domain.Identifier
}

// NewHandler creates a new HTTP handler.
// identifier may be nil, in which case identification requests fail with a server error.
func NewHandler(identifier domain.Identifier) *Handler {
	return &Handler{
		identifier: identifier,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "plantid-backend",
		"version": Version,
	})
}

// IdentifyPlant handles multipart uploads carrying an "image" field
func (h *Handler) IdentifyPlant(c *gin.Context) {
	image, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noImageMessage})
		return
	}

	identification, err := h.identify(c, image)
	if err != nil {
		status, message := identifyFailure(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  identification.Result,
		"outcome": identification.Outcome,
		"model":   identification.Model,
	})
}

// identify runs the identifier and logs failures with the request id
func (h *Handler) identify(c *gin.Context, image *domain.Image) (*domain.Identification, error) {
	if h.identifier == nil {
		return nil, domain.ErrModelNotConfigured
	}

	identification, err := h.identifier.Identify(c.Request.Context(), image)
	if err != nil {
		log.Printf("[Identify] Error in %s (request=%s, file=%q, type=%s, bytes=%d): %v",
			c.FullPath(), RequestID(c), image.Filename, image.MimeType, len(image.Data), err)
		return nil, err
	}

	return identification, nil
}

// identifyFailure maps an identification error to a status code and message
func identifyFailure(err error) (int, string) {
	if errors.Is(err, domain.ErrNoImage) {
		return http.StatusBadRequest, noImageMessage
	}
	return http.StatusInternalServerError, "Error identifying plant: " + err.Error()
}

// readImage reads the "image" form file into memory
func readImage(c *gin.Context) (*domain.Image, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, err
	}

	data, err := readFormFile(header)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.ErrNoImage
	}

	return &domain.Image{
		Data:     data,
		MimeType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	return io.ReadAll(file)
}

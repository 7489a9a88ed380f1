package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/plantid/backend/internal/domain"
	"github.com/plantid/backend/internal/presentation"
)

var errIdentificationFailed = errors.New("identification failed")

var identifyCmd = &cobra.Command{
	Use:   "identify <image>",
	Short: "Upload a photo and print the identified plant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := loadImage(args[0])
		if err != nil {
			return err
		}

		session := presentation.NewSession(presentation.NewClient(serverURL))
		if err := session.SelectImage(image); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Identifying %s...\n", image.Filename)
		if err := session.Identify(cmd.Context()); err != nil {
			return err
		}

		view := session.View()
		if err := presentation.RenderText(cmd.OutOrStdout(), view); err != nil {
			return err
		}
		if view.Error != "" {
			return errIdentificationFailed
		}
		return nil
	},
}

// loadImage reads a photo from disk and detects its media type
func loadImage(path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return &domain.Image{
		Data:     data,
		MimeType: mimetype.Detect(data).String(),
		Filename: filepath.Base(path),
	}, nil
}

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

var ErrNotAnImage = errors.New("payload is not a supported image")

// SniffImage verifies that data decodes as a supported raster format and
// returns the file extension and content type to store it under.
func SniffImage(data []byte) (ext string, contentType string, err error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", "", ErrNotAnImage
	}

	switch format {
	case "jpeg":
		return "jpg", "image/jpeg", nil
	case "png":
		return "png", "image/png", nil
	case "gif":
		return "gif", "image/gif", nil
	default:
		return "", "", ErrNotAnImage
	}
}

// RecipeImagePath generates a collision-resistant store path for a recipe
// image with the given extension.
func RecipeImagePath(ext string) string {
	return fmt.Sprintf("uploads/recipe/%s.%s", uuid.New(), ext)
}

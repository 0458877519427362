package utils

import (
	"path/filepath"
	"strings"
)

const (
	// MimeTypeJPEG is regular jpgs.
	MimeTypeJPEG = "image/jpeg"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"

	// MimeTypeQOI is for .qoi "Quite OK Image" for lossless, fast encoding/decoding.
	MimeTypeQOI = "image/qoi"

	// MimeTypePPM is for binary portable pixmaps.
	MimeTypePPM = "image/x-portable-pixmap"
)

// MimeTypeFromPath guesses the mime type of an image artifact from its extension,
// defaulting to png.
func MimeTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return MimeTypeJPEG
	case ".qoi":
		return MimeTypeQOI
	case ".ppm":
		return MimeTypePPM
	default:
		return MimeTypePNG
	}
}

// MimeTypeHasAlpha reports whether images encoded as mimeType keep their alpha channel.
func MimeTypeHasAlpha(mimeType string) bool {
	return mimeType == MimeTypePNG || mimeType == MimeTypeQOI
}

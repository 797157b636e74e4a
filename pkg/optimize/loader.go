package optimize

import (
	"os"
	"path/filepath"
	"strings"
)

// ScreenshotLoader supplies screenshot bytes for oracle requests. The
// production pipeline puts an image resizer behind this interface; its
// internals are an external collaborator concern.
type ScreenshotLoader interface {
	// Load returns the image bytes and mime type for a screenshot path.
	// A missing file is reported via os.IsNotExist-compatible error.
	Load(path string) (data []byte, mimeType string, err error)
}

// FileLoader reads screenshot files verbatim from disk.
type FileLoader struct{}

// Load implements ScreenshotLoader.
func (FileLoader) Load(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, mimeTypeForPath(path), nil
}

func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

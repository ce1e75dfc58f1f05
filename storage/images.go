package storage

import (
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

func AllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// SaveImage writes an uploaded file under dir as
// "<ISO-timestamp>-<original name>" and returns the stored path.
func SaveImage(dir string, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := time.Now().UTC().Format(time.RFC3339) + "-" + filepath.Base(fh.Filename)
	dst := filepath.Join(dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return dst, nil
}

// DeleteImage removes a stored asset. Best effort: a missing file is only
// logged, the product row is the source of truth.
func DeleteImage(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to delete image %s: %v", path, err)
	}
}

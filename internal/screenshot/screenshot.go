// Package screenshot writes captured frames to disk as numbered PNG files.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/Faultbox/vesselshot/internal/logger"
)

// DirName is the folder screenshots go to, next to the application root.
const DirName = "Screenshots"

// invalidChars are the characters no supported file system allows in a name,
// plus the ASCII control range.
const invalidChars = `"<>|:*?\\/\x00-\x1f`

var invalidName = regexp.MustCompile(`([` + invalidChars + `]*\.+$)|([` + invalidChars + `]+)`)

// Sanitize makes name safe to use as a file name. The name is put in NFC
// form, so composed and decomposed spellings share one file series. Every run
// of invalid characters becomes a single underscore, as do trailing dots
// together with any invalid run right before them.
func Sanitize(name string) string {
	return invalidName.ReplaceAllString(norm.NFC.String(name), "_")
}

// Dir returns the screenshot folder for an application installed at appRoot.
func Dir(appRoot string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(appRoot)), DirName)
}

// NextPath returns dir/<name>_<n>.png with n the smallest positive integer
// whose file does not exist yet. name is sanitized first.
func NextPath(dir, name string) (string, error) {
	base := Sanitize(name)
	for n := 1; ; n++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, n))
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
	}
}

// Store saves PNG files into one folder.
type Store struct {
	dir string
}

// NewStore creates a store writing into dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output folder.
func (s *Store) Dir() string {
	return s.dir
}

// Save encodes img as PNG under the next free numbered name and returns the
// path written.
func (s *Store) Save(img image.Image, name string) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path, err := NextPath(s.dir, name)
	if err != nil {
		return "", err
	}

	// O_EXCL so a file that appeared since NextPath is never overwritten
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	logger.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

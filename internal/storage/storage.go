// Package storage persists uploaded images (profile pictures, clan logos).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mmc-gaming/clanhub/internal/config"
)

// URLPrefix is the path stored files are served under.
const URLPrefix = "/uploads/"

var (
	// ErrTooLarge is returned when an upload exceeds the configured size limit.
	ErrTooLarge = errors.New("upload is too large")
	// ErrNotAnImage is returned when an upload cannot be decoded as an image.
	ErrNotAnImage = errors.New("upload is not a supported image")
)

// Store writes images to a directory on disk.
type Store struct {
	dir       string
	maxSize   int64
	maxWidth  int
	maxHeight int
	quality   int
}

// New creates a Store for the configured uploads directory.
func New(cfg *config.UploadsConfig) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("uploads config is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{
		dir:       cfg.Dir,
		maxSize:   cfg.MaxSize,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		quality:   cfg.Quality,
	}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// MaxSize returns the upload size limit in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save decodes the image read from r, scales it down to the configured bounds
// and stores it under a fresh name. Only the extension of suggestedName is
// used. The returned reference is valid once Save returns: the file is fully
// written to a temporary name first and then renamed into place.
func (s *Store) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("%w: limit is %s", ErrTooLarge, humanize.IBytes(uint64(s.maxSize))) //nolint:gosec
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	format, ext := outputFormat(suggestedName)
	processed := s.fit(img)

	tmp, err := os.CreateTemp(s.dir, "tmp_*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if err := imaging.Encode(tmp, processed, format, imaging.JPEGQuality(s.quality), imaging.PNGCompressionLevel(6)); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return "", fmt.Errorf("failed to flush image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to move temp file: %w", err)
	}

	log.Debug("Stored upload", "name", name, "size", humanize.IBytes(uint64(len(data))), //nolint:gosec
		"width", processed.Bounds().Dx(), "height", processed.Bounds().Dy())

	return URLPrefix + name, nil
}

// Remove deletes a file previously returned by Save. References that do not
// point into the store are ignored.
func (s *Store) Remove(ref string) error {
	if !strings.HasPrefix(ref, URLPrefix) {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// fit scales img down to the configured bounds, keeping the aspect ratio.
func (s *Store) fit(img image.Image) image.Image {
	b := img.Bounds()
	if (s.maxWidth <= 0 || b.Dx() <= s.maxWidth) && (s.maxHeight <= 0 || b.Dy() <= s.maxHeight) {
		return img
	}
	w, h := s.maxWidth, s.maxHeight
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}

// outputFormat keeps PNG for lossless sources and uses JPEG for everything else.
func outputFormat(suggestedName string) (imaging.Format, string) {
	switch strings.ToLower(filepath.Ext(suggestedName)) {
	case ".png", ".gif", ".bmp", ".tif", ".tiff":
		return imaging.PNG, ".png"
	default:
		return imaging.JPEG, ".jpg"
	}
}

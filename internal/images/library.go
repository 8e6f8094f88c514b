// Package images copies picked photos into the app's image directory,
// cropped to the requested aspect ratio and re-encoded as JPEG.
package images

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/mrlokans/foodjournal/internal/journal"
)

// DefaultQuality is the JPEG quality used when a request has no hint.
const DefaultQuality = 80

const tempPrefix = "import_tmp_"

// Library stores imported images under a directory.
type Library struct {
	dir string
}

// NewLibrary creates a library at dir, creating the directory if needed.
func NewLibrary(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Library{dir: dir}, nil
}

// Dir returns the library directory.
func (l *Library) Dir() string {
	return l.dir
}

// ImportFile imports the image at path. A source the process may not read
// yields journal.ErrPermissionDenied.
func (l *Library) ImportFile(ctx context.Context, path string, req journal.ImageRequest) (journal.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return journal.Image{}, &journal.PermissionError{Origin: req.Origin, Err: journal.ErrPermissionDenied}
		}
		return journal.Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return l.Import(ctx, f, req)
}

// Import decodes an image from r, applies the request's editing
// parameters and writes it into the library.
func (l *Library) Import(ctx context.Context, r io.Reader, req journal.ImageRequest) (journal.Image, error) {
	if err := ctx.Err(); err != nil {
		return journal.Image{}, err
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return journal.Image{}, fmt.Errorf("decode image: %w", err)
	}

	img = cropToAspect(img, req.AspectWidth, req.AspectHeight)

	name, err := randomName()
	if err != nil {
		return journal.Image{}, err
	}
	dst := filepath.Join(l.dir, name)

	// Write to a temp file and rename so a half-written image is never referenced.
	tmp, err := os.CreateTemp(l.dir, tempPrefix+"*")
	if err != nil {
		return journal.Image{}, err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(quality(req.Quality))); err != nil {
		return journal.Image{}, fmt.Errorf("encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return journal.Image{}, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return journal.Image{}, err
	}

	bounds := img.Bounds()
	log.Printf("Imported %s image %s (%dx%d)", req.Origin, name, bounds.Dx(), bounds.Dy())

	return journal.Image{
		URI:    FileURI(dst),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Source returns an ImageSource that imports the file at path when asked.
// An empty path behaves like a cancelled pick.
func (l *Library) Source(path string) journal.ImageSource {
	return journal.ImageSourceFunc(func(ctx context.Context, req journal.ImageRequest) (journal.Image, error) {
		if path == "" {
			return journal.Image{Canceled: true}, nil
		}
		return l.ImportFile(ctx, path, req)
	})
}

// StoredImage is a file in the library.
type StoredImage struct {
	URI     string
	ModTime time.Time
}

// List returns the imported images. In-progress imports are skipped.
func (l *Library) List() ([]StoredImage, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	result := make([]StoredImage, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), tempPrefix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed since ReadDir
			continue
		}
		result = append(result, StoredImage{
			URI:     FileURI(filepath.Join(l.dir, de.Name())),
			ModTime: info.ModTime(),
		})
	}
	return result, nil
}

// Remove deletes an image previously imported into the library. URIs
// outside the library are ignored.
func (l *Library) Remove(uri string) error {
	path, ok := l.pathFor(uri)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open returns the library file behind uri.
func (l *Library) Open(uri string) (*os.File, error) {
	path, ok := l.pathFor(uri)
	if !ok {
		return nil, os.ErrNotExist
	}
	return os.Open(path)
}

func (l *Library) pathFor(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	dir, err := filepath.Abs(l.dir)
	if err != nil {
		return "", false
	}
	path := filepath.Clean(filepath.FromSlash(u.Path))
	if filepath.Dir(path) != dir {
		return "", false
	}
	return path, true
}

// FileURI returns a file:// URI for path.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// cropToAspect center-crops img to w:h. Non-positive ratios leave it as is.
func cropToAspect(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return img
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	targetW, targetH := width, width*h/w
	if targetH > height {
		targetW, targetH = height*w/h, height
	}
	if targetW == width && targetH == height {
		return img
	}
	return imaging.CropCenter(img, targetW, targetH)
}

// quality maps a 0..1 hint to a JPEG quality.
func quality(hint float64) int {
	if hint <= 0 || hint > 1 {
		return DefaultQuality
	}
	q := int(hint * 100)
	if q < 1 {
		q = 1
	}
	return q
}

func randomName() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b) + ".jpg", nil
}

// Package imageio loads and saves the images and masks the engine
// operates on, and materializes selections into ready-to-composite
// cutouts. It is the only layer of the module that performs I/O.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/selection"
)

// Config holds encoding settings.
type Config struct {
	Quality  int  // JPEG/WebP quality, 1-100
	Lossless bool // WebP lossless mode
}

// IO loads and saves images with png, jpeg and webp support.
type IO struct {
	config Config
}

// New creates an IO with default encoding settings.
func New() *IO {
	return &IO{config: Config{Quality: 90}}
}

// NewWithConfig creates an IO with custom encoding settings.
func NewWithConfig(config Config) *IO {
	return &IO{config: config}
}

// Load reads an image file into a pixel buffer. WebP files that the
// registered decoders reject fall back to the explicit webp decoder.
func (o *IO) Load(path string) (*pixel.Buffer, error) {
	if img, err := imaging.Open(path); err == nil {
		return pixel.FromImage(img), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return pixel.FromImage(img), nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return pixel.FromImage(img), nil
		}
	}
	return nil, fmt.Errorf("unknown image format for %s", path)
}

// LoadSmart loads from either a file path or an http(s) URL.
func (o *IO) LoadSmart(source string) (*pixel.Buffer, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return o.loadFromURL(source)
	}
	return o.Load(source)
}

func (o *IO) loadFromURL(imageURL string) (*pixel.Buffer, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return decodeBytes(data)
}

func decodeBytes(data []byte) (*pixel.Buffer, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return pixel.FromImage(img), nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return pixel.FromImage(img), nil
	}
	return nil, fmt.Errorf("unknown or unsupported image format")
}

// Save writes a pixel buffer to path; the extension picks the format
// (png, jpg/jpeg or webp).
func (o *IO) Save(buf *pixel.Buffer, path string) error {
	img := pixel.ToImage(buf)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png":
		return png.Encode(f, img)
	case "jpg", "jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: o.config.Quality})
	case "webp":
		return webp.Encode(f, img, &webp.Options{
			Lossless: o.config.Lossless,
			Quality:  float32(o.config.Quality),
		})
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}
}

// Extract materializes a selection: the mask is applied as the image's
// alpha channel and the result is cropped to the selection bounds. An
// empty selection yields nil.
func Extract(img *pixel.Buffer, sel selection.Selection) *image.NRGBA {
	if sel.Bounds.Empty() {
		return nil
	}
	cut := img.Clone()
	selection.ApplyAsAlpha(cut, sel)
	rect := image.Rect(sel.Bounds.X, sel.Bounds.Y,
		sel.Bounds.X+sel.Bounds.Width, sel.Bounds.Y+sel.Bounds.Height)
	return imaging.Crop(pixel.ToImage(cut), rect)
}

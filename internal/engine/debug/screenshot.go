// Package debug provides debug capture utilities.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Screenshot formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ScreenshotCapture writes frames read back from the color target to disk.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string

	now func() time.Time
}

// NewScreenshotCapture creates a capture handler. An unknown format falls back to PNG.
func NewScreenshotCapture(outputDir, prefix, format string) *ScreenshotCapture {
	if format != FormatWebP {
		format = FormatPNG
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// OutputDir returns the directory screenshots are written to.
func (sc *ScreenshotCapture) OutputDir() string {
	return sc.outputDir
}

// Format returns the file format in use.
func (sc *ScreenshotCapture) Format() string {
	return sc.format
}

// CaptureFromPixels saves RGBA pixels with width*height*4 bytes.
// The rows are flipped since GL reads back bottom row first.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	return sc.CaptureFromImage(FlipRows(pixels, width, height))
}

// FlipRows copies bottom-first RGBA rows into a top-first image.
func FlipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img
}

// CaptureFromImage saves an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := sc.encode(file, img); err != nil {
		return "", err
	}
	return filename, nil
}

func (sc *ScreenshotCapture) encode(w io.Writer, img image.Image) error {
	if sc.format == FormatWebP {
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
		return nil
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", sc.prefix, timestamp, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// Package imagefile filters and decodes image files from disk.
package imagefile

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"poachwatch/internal/service/ai"
)

// SupportedExtensions lists the accepted suffixes; matching ignores case.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// IsSupported reports whether a file name carries an accepted image extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// ImageDecodeError marks a single file that could not be turned into pixels.
type ImageDecodeError struct {
	Path string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// Decoder reads image files using the registered Go codecs. It needs no
// OpenCV and covers GIF, which OpenCV builds often leave out.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the pixels as a frame any detector accepts.
func (d *Decoder) Decode(path string) (ai.Frame, error) {
	img, err := d.DecodeImage(path)
	if err != nil {
		return nil, err
	}
	return ai.ImageFrame{Image: img}, nil
}

func (d *Decoder) DecodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ImageDecodeError{Path: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &ImageDecodeError{Path: path, Err: err}
	}

	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, &ImageDecodeError{Path: path, Err: fmt.Errorf("decoded image is empty")}
	}

	return img, nil
}

package opencv

import (
	"errors"
	"image"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"poachwatch/internal/service/ai"
	"poachwatch/internal/service/imagefile"
)

// MatFrame is an image decoded by OpenCV, kept in BGR channel order.
type MatFrame struct {
	Mat gocv.Mat
}

func (f *MatFrame) Close() error {
	return f.Mat.Close()
}

// ImageDecoder is a pure Go decoder used for formats OpenCV cannot read.
type ImageDecoder interface {
	DecodeImage(path string) (image.Image, error)
}

// Decoder reads image files with OpenCV's imgcodecs.
type Decoder struct {
	fallback ImageDecoder
}

// NewDecoder returns a decoder that hands GIF files to fallback when it is set.
func NewDecoder(fallback ImageDecoder) *Decoder {
	return &Decoder{fallback: fallback}
}

func (d *Decoder) Decode(path string) (ai.Frame, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return &MatFrame{Mat: mat}, nil
	}
	mat.Close()

	if d.fallback != nil && strings.EqualFold(filepath.Ext(path), ".gif") {
		img, err := d.fallback.DecodeImage(path)
		if err != nil {
			return nil, err
		}
		converted, err := toMat(img)
		if err != nil {
			return nil, &imagefile.ImageDecodeError{Path: path, Err: err}
		}
		return &MatFrame{Mat: converted}, nil
	}

	return nil, &imagefile.ImageDecodeError{Path: path, Err: errors.New("opencv could not read the file")}
}

package imagefile

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"poachwatch/internal/service/ai"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"frame.jpg", true},
		{"frame.jpeg", true},
		{"frame.png", true},
		{"frame.bmp", true},
		{"frame.gif", true},
		{"FRAME.JPG", true},
		{"trail.Png", true},
		{"notes.txt", false},
		{"archive.jpg.zip", false},
		{"jpg", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.name); got != tt.expected {
			t.Errorf("IsSupported(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func sampleImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 90, A: 255})
		}
	}
	return img
}

func TestDecoder_DecodesEverySupportedFormat(t *testing.T) {
	dir := t.TempDir()
	img := sampleImage()

	encoders := map[string]func(*bytes.Buffer) error{
		"a.png":  func(b *bytes.Buffer) error { return png.Encode(b, img) },
		"b.jpg":  func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) },
		"c.gif":  func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) },
		"d.bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, img) },
		"E.JPEG": func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) },
	}

	decoder := NewDecoder()
	for name, encode := range encoders {
		var buf bytes.Buffer
		require.NoError(t, encode(&buf))
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

		frame, err := decoder.Decode(path)
		require.NoError(t, err, name)
		decoded, ok := frame.(ai.ImageFrame)
		require.True(t, ok, name)
		assert.Equal(t, 8, decoded.Bounds().Dx(), name)
		assert.Equal(t, 6, decoded.Bounds().Dy(), name)
		assert.NoError(t, frame.Close())
	}
}

func TestDecoder_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake image data for testing purposes"), 0644))

	_, err := NewDecoder().Decode(path)

	var decodeErr *ImageDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, path, decodeErr.Path)
}

func TestDecoder_MissingFile(t *testing.T) {
	_, err := NewDecoder().Decode(filepath.Join(t.TempDir(), "gone.png"))

	var decodeErr *ImageDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

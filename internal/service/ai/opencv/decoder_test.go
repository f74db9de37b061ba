package opencv

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poachwatch/internal/service/ai"
	"poachwatch/internal/service/imagefile"
)

var pureBlue = color.RGBA{B: 255, A: 255}

func solidImage(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, name string, encode func(*os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f))
	require.NoError(t, f.Close())
	return path
}

func TestDecoder_ReadsWithOpenCV(t *testing.T) {
	path := writeImage(t, "blue.png", func(f *os.File) error { return png.Encode(f, solidImage(pureBlue)) })

	frame, err := NewDecoder(nil).Decode(path)
	require.NoError(t, err)
	defer frame.Close()

	mf, ok := frame.(*MatFrame)
	require.True(t, ok)
	assert.Equal(t, 6, mf.Mat.Rows())
	assert.Equal(t, 8, mf.Mat.Cols())
	assert.Equal(t, 3, mf.Mat.Channels())
	assert.Equal(t, uint8(255), mf.Mat.GetVecbAt(0, 0)[0], "OpenCV keeps BGR order")
}

func TestDecoder_UnreadableFileIsDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake image data"), 0644))

	_, err := NewDecoder(imagefile.NewDecoder()).Decode(path)

	var decodeErr *imagefile.ImageDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, path, decodeErr.Path)
}

func TestDecoder_GIFFallsBackToGoCodecs(t *testing.T) {
	path := writeImage(t, "blue.gif", func(f *os.File) error { return gif.Encode(f, solidImage(pureBlue), nil) })

	frame, err := NewDecoder(imagefile.NewDecoder()).Decode(path)
	require.NoError(t, err)
	defer frame.Close()

	mf, ok := frame.(*MatFrame)
	require.True(t, ok)
	assert.Equal(t, 8, mf.Mat.Cols())
}

func TestClassifierBlob_KeepsBGROrder(t *testing.T) {
	path := writeImage(t, "blue.png", func(f *os.File) error { return png.Encode(f, solidImage(pureBlue)) })
	frame, err := NewDecoder(nil).Decode(path)
	require.NoError(t, err)
	defer frame.Close()

	blob := classifierBlob(frame.(*MatFrame).Mat)
	defer blob.Close()

	data, err := blob.DataPtrFloat32()
	require.NoError(t, err)
	plane := ai.ClassifierInputSize * ai.ClassifierInputSize
	require.Len(t, data, 3*plane)
	assert.InDelta(t, 1.0, data[0], 1e-3, "first plane is blue")
	assert.InDelta(t, 0.0, data[2*plane], 1e-3, "last plane is red")
}

func TestFrameMat_AcceptsGoImages(t *testing.T) {
	mat, release, err := frameMat(ai.ImageFrame{Image: solidImage(pureBlue)})
	require.NoError(t, err)
	defer release()
	assert.Equal(t, 8, mat.Cols())

	_, _, err = frameMat(nil)
	assert.Error(t, err)
}

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessDownscalesWideImages(t *testing.T) {
	data := encodePNG(t, 1200, 400)

	processed, err := Preprocess(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(processed))
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, decoded.Bounds().Dx())
	assert.Equal(t, 400*MaxImageWidth/1200, decoded.Bounds().Dy())
}

func TestPreprocessKeepsSmallImages(t *testing.T) {
	data := encodePNG(t, 640, 480)

	processed, err := Preprocess(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(processed))
	require.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
	assert.Equal(t, 480, decoded.Bounds().Dy())
}

func TestPreprocessReencodesJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))

	processed, err := Preprocess(buf.Bytes())
	require.NoError(t, err)

	_, err = jpeg.Decode(bytes.NewReader(processed))
	assert.NoError(t, err)
}

func TestPreprocessRejectsGarbage(t *testing.T) {
	_, err := Preprocess([]byte("definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPreprocess)

	var ocrErr *OCRError
	assert.ErrorAs(t, err, &ocrErr)
}

func TestPreprocessRejectsOversizedInput(t *testing.T) {
	data := make([]byte, MaxImageSizeBytes+1)
	_, err := Preprocess(data)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// Preprocess decodes an image (JPEG, PNG or GIF), downscales it to at
// most MaxImageWidth wide preserving aspect ratio, and re-encodes it as
// JPEG at JPEGQuality. Every failure wraps ErrPreprocess.
func Preprocess(data []byte) ([]byte, error) {
	const op = "Preprocess"

	if len(data) > MaxImageSizeBytes {
		return nil, WrapOCRError(op, ErrImageTooLarge, fmt.Sprintf("image size: %d bytes", len(data)))
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, WrapOCRError(op, ErrPreprocess, fmt.Sprintf("decode: %v", err))
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, WrapOCRError(op, ErrPreprocess, fmt.Sprintf("invalid %s dimensions %dx%d", format, width, height))
	}

	if width > MaxImageWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, height*MaxImageWidth/width))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Src, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, WrapOCRError(op, ErrPreprocess, fmt.Sprintf("encode: %v", err))
	}
	return buf.Bytes(), nil
}

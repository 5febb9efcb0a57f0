package vision

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDecodeImageJPEG(t *testing.T) {
	data := encodeTestJPEG(t, 8, 6)

	img, err := DecodeImage(data)
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())
	require.Equal(t, 6, img.Bounds().Dy())
}

func TestDecodeImageGarbage(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	require.Error(t, err)
}

func TestDecodeDataURI(t *testing.T) {
	raw := encodeTestJPEG(t, 4, 4)
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, raw, data)
}

func TestDecodeDataURIWithoutPrefix(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	data, err := DecodeDataURI(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, raw, data)
}

func TestDecodeDataURIBadPayload(t *testing.T) {
	_, err := DecodeDataURI("data:image/jpeg;base64,!!!!")
	require.Error(t, err)
}

func TestResizeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	resized := resizeImage(img, 10, 10)
	require.Equal(t, 10, resized.Bounds().Dx())
	require.Equal(t, 10, resized.Bounds().Dy())
}

func TestCropFacePadsAndClamps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	// Box near the edge; padding must clamp to the frame.
	crop := cropFace(img, [4]float32{0, 0, 50, 50})
	require.NotNil(t, crop)
	require.LessOrEqual(t, crop.Bounds().Dx(), 60)

	// Interior box gains 10% padding on each side.
	crop = cropFace(img, [4]float32{40, 40, 60, 60})
	require.NotNil(t, crop)
	require.Equal(t, 24, crop.Bounds().Dx())
}

func TestCropFaceDegenerateBox(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	require.Nil(t, cropFace(img, [4]float32{50, 50, 50, 50}))
}

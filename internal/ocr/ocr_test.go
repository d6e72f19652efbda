package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
)

type fakeEngine struct {
	text  string
	err   error
	input []byte
	calls int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, png []byte) (string, error) {
	f.calls++
	f.input = png
	return f.text, f.err
}

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	return img
}

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, sampleImage()))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	return encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
}

func TestNormalize_PNGPassesThrough(t *testing.T) {
	data := pngBytes(t)

	out, format, err := Normalize(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, data, out)
}

func TestNormalize_ConvertsToPNG(t *testing.T) {
	cases := map[string][]byte{
		"jpeg": encode(t, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }),
		"bmp":  encode(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			out, format, err := Normalize(data)
			require.NoError(t, err)
			assert.Equal(t, name, format)

			_, decodedFormat, err := image.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "png", decodedFormat)
		})
	}
}

func TestNormalize_RejectsNonImages(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("%PDF-1.7 not an image")} {
		_, _, err := Normalize(data)
		require.ErrorIs(t, err, ErrUnsupportedImage)
	}
}

func TestExtractor_ReturnsEngineTextVerbatim(t *testing.T) {
	engine := &fakeEngine{text: "Coffee $4.50\n"}
	extractor := NewExtractor(engine, zap.NewNop())

	text, err := extractor.ExtractText(context.Background(), pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "Coffee $4.50\n", text)
	assert.Equal(t, 1, engine.calls)
}

func TestExtractor_EmptyTextIsNotAnError(t *testing.T) {
	extractor := NewExtractor(&fakeEngine{}, zap.NewNop())

	text, err := extractor.ExtractText(context.Background(), pngBytes(t))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractor_UndecodableSkipsEngine(t *testing.T) {
	engine := &fakeEngine{}
	extractor := NewExtractor(engine, zap.NewNop())

	_, err := extractor.ExtractText(context.Background(), []byte("garbage"))
	require.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Zero(t, engine.calls)
}

func TestExtractor_EngineError(t *testing.T) {
	extractor := NewExtractor(&fakeEngine{err: errors.New("no traineddata")}, zap.NewNop())

	_, err := extractor.ExtractText(context.Background(), pngBytes(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to recognize text with fake: no traineddata")
}

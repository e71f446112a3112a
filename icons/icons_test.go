package icons

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, fs afero.Fs, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := fs.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newConverter(fs afero.Fs, size int) *Converter {
	log, _ := test.NewNullLogger()
	return &Converter{Fs: fs, OutDir: "out", Size: size, Log: log}
}

func TestConvert(t *testing.T) {
	fs := afero.NewMemMapFs()
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	writePNG(t, fs, "src/term.png", 300, 200, red)
	writePNG(t, fs, "src/calc.png", 16, 16, red)

	c := newConverter(fs, 128)
	written, err := c.Convert(context.Background(), []string{"src/term.png", "src/calc.png", "src/calc.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("out", "term.bmp"), filepath.Join("out", "calc.bmp")}, written)

	for _, path := range written {
		f, err := fs.Open(path)
		require.NoError(t, err)
		img, err := bmp.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds(), path)
		r, g, b, a := img.At(64, 64).RGBA()
		assert.Equal(t, [4]uint32{0xFFFF, 0, 0, 0xFFFF}, [4]uint32{r, g, b, a}, path)
	}
}

func TestConvertContinuesPastFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "good.png", 8, 8, color.White)
	require.NoError(t, afero.WriteFile(fs, "broken.png", []byte("not a png"), 0644))

	log, hook := test.NewNullLogger()
	c := &Converter{Fs: fs, OutDir: "out", Size: 4, Log: log}
	written, err := c.Convert(context.Background(), []string{"missing.png", "broken.png", "good.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.png")
	assert.Contains(t, err.Error(), "broken.png")
	assert.Equal(t, []string{filepath.Join("out", "good.bmp")}, written)
	assert.Len(t, hook.AllEntries(), 3)

	exists, err := afero.Exists(fs, filepath.Join("out", "broken.bmp"))
	require.NoError(t, err)
	assert.False(t, exists, "no bitmap must be written for a broken source")
}

func TestConvertInvalidSize(t *testing.T) {
	_, err := newConverter(afero.NewMemMapFs(), 0).Convert(context.Background(), []string{"a.png"})
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	c := &Converter{OutDir: "out"}
	assert.Equal(t, filepath.Join("out", "3D.bmp"), c.OutputPath("icons/3D.png"))
	assert.Equal(t, filepath.Join("out", "x0.bmp"), c.OutputPath("x0.jpeg"))
}

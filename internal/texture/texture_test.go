package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestBuildIndex(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(first, "bark", "Birch_Bark.png"), color.NRGBA{R: 200, A: 255})
	writePNG(t, filepath.Join(second, "birch_bark.png"), color.NRGBA{B: 200, A: 255})
	writePNG(t, filepath.Join(second, "leaf.png"), color.NRGBA{G: 200, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(second, "notes.txt"), []byte("x"), 0o644))

	idx := BuildIndex(first, "", second)
	assert.Equal(t, 2, idx.Len())

	path, ok := idx.ResolvePath(`textures\birch_bark.tga`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(first, "bark", "Birch_Bark.png"), path, "first directory wins")

	_, ok = idx.ResolvePath("oak")
	assert.False(t, ok)
	_, ok = idx.ResolvePath("")
	assert.False(t, ok)
}

func TestResolvePathLiteralFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.png")
	writePNG(t, path, color.NRGBA{G: 200, A: 255})

	var idx *Index
	got, ok := idx.ResolvePath(path)
	require.True(t, ok)
	assert.Equal(t, path, got)
}

func TestCacheResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "leaf.png"), color.NRGBA{G: 200, A: 255})
	c := NewCache(BuildIndex(dir))

	var wg sync.WaitGroup
	results := make([]*image.NRGBA, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Resolve("leaf")
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	assert.Equal(t, image.Rect(0, 0, 4, 2), results[0].Bounds())
	assert.Equal(t, color.NRGBA{G: 200, A: 255}, results[0].NRGBAAt(1, 1))
	for _, img := range results[1:] {
		assert.Same(t, results[0], img)
	}
	assert.NoError(t, c.Err("leaf"))
}

func TestCacheRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644))
	c := NewCache(BuildIndex(dir))

	assert.Nil(t, c.Resolve("broken"))
	assert.ErrorContains(t, c.Err("broken"), "texture: decode")

	assert.Nil(t, c.Resolve("missing"))
	assert.ErrorContains(t, c.Err("missing"), "not found")
}

func TestToNRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.RGBA{R: 255, A: 255})

	out := toNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
}

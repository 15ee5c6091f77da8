package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"ltree-renderer/internal/grammar"
	"ltree-renderer/internal/postprocess"
	"ltree-renderer/internal/profile"
	"ltree-renderer/internal/raster"
	"ltree-renderer/internal/skeleton"
	"ltree-renderer/internal/texture"
	"ltree-renderer/internal/treemesh"
)

// Options controls how a skeleton is turned into a preview image.
type Options struct {
	Camera         raster.Camera
	Textures       texture.Resolver // nil draws flat colors
	RenderSize     int
	Supersample    int
	RadialSegments int
	FillRatio      float64
}

// Preview is one generated tree and its rendered image.
type Preview struct {
	Skeleton  *skeleton.Skeleton
	Image     *image.NRGBA
	Triangles int
}

// RenderPreview generates the tree for seed and renders it.
func RenderPreview(p *profile.Profile, seed int64, opt Options) (*Preview, error) {
	skel, err := p.Generator.Generate(grammar.NewRand(seed), nil)
	if err != nil {
		return nil, fmt.Errorf("batch: generate %s seed %d: %w", p.Name, seed, err)
	}

	bark, err := treemesh.Branches(skel, opt.RadialSegments)
	if err != nil {
		return nil, fmt.Errorf("batch: mesh %s seed %d: %w", p.Name, seed, err)
	}
	bark.TexPath = p.TrunkTexture
	foliage := treemesh.Leaves(skel, opt.Camera.View)
	foliage.TexPath = p.LeafTexture

	img := raster.RenderTree([]*treemesh.Mesh{bark, foliage}, opt.Camera, opt.Textures, opt.RenderSize, opt.Supersample)
	if opt.Supersample > 1 {
		img = postprocess.Downsample(img, opt.RenderSize)
	}
	img = postprocess.FitToCanvas(img, opt.RenderSize, opt.FillRatio, postprocess.Bottom)

	return &Preview{
		Skeleton:  skel,
		Image:     img,
		Triangles: len(bark.Tris) + len(foliage.Tris),
	}, nil
}

// WriteWebP encodes img losslessly to path, creating parent directories.
func WriteWebP(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("batch: close %s: %w", path, cerr)
		}
	}()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("batch: encode %s: %w", path, err)
	}
	return nil
}

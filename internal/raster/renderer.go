package raster

import (
	"image"

	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/texture"
	"ltree-renderer/internal/treemesh"
)

// Fallback colors when a mesh has no texture.
var (
	barkColor    = [4]uint8{110, 84, 62, 255}
	foliageColor = [4]uint8{86, 140, 70, 255}
)

// RenderTree draws tree meshes into a square NRGBA image of
// size*supersample pixels. textures may be nil.
func RenderTree(
	meshes []*treemesh.Mesh,
	cam Camera,
	textures texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	renderSize := size * max(supersample, 1)

	var all []mathutil.Vec3
	for _, m := range meshes {
		all = append(all, m.Verts...)
	}
	if len(all) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	margin := 16 * max(supersample, 1)
	f := fitFrame(all, cam, renderSize, margin)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for _, mesh := range meshes {
		if len(mesh.Verts) == 0 {
			continue
		}
		px, py, pz := f.project(mesh.Verts, cam.View)

		surf := Surface{Mode: Wrap, Default: barkColor}
		if mesh.Kind == treemesh.Foliage {
			surf = Surface{Mode: Clamp, Default: foliageColor}
		}
		if textures != nil && mesh.TexPath != "" {
			surf.Tex = textures.Resolve(mesh.TexPath)
		}

		for _, tri := range mesh.Tris {
			surf.Tint = tri.Tint
			RasterizeTriangle(fb, px, py, pz, mesh.UVs, tri.V, &surf, &lc)
		}
	}

	return fb.Image()
}

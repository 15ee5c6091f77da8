package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// DefaultFillRatio is the share of the canvas the tree's longer side fills.
const DefaultFillRatio = 0.9

// Anchor places the fitted image on the canvas.
type Anchor int

const (
	// Center centers both axes.
	Center Anchor = iota
	// Bottom centers horizontally and rests the image on the bottom margin,
	// keeping the trunk base at the same height across renders.
	Bottom
)

// OpaqueBounds returns the bounding box of pixels with non-zero alpha, or
// an empty rectangle if there are none.
func OpaqueBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX = min(minX, b.Min.X+x)
			maxX = max(maxX, b.Min.X+x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// FitToCanvas crops img to its opaque pixels, scales the crop so its longer
// side fills fillRatio of a size×size canvas and places it per anchor.
func FitToCanvas(img *image.NRGBA, size int, fillRatio float64, anchor Anchor) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	crop := OpaqueBounds(img)
	if crop.Empty() {
		return canvas
	}
	if fillRatio <= 0 || fillRatio > 1 {
		fillRatio = DefaultFillRatio
	}

	srcW, srcH := crop.Dx(), crop.Dy()
	scale := float64(size) * fillRatio / math.Max(float64(srcW), float64(srcH))
	newW := max(int(float64(srcW)*scale+0.5), 1)
	newH := max(int(float64(srcH)*scale+0.5), 1)

	offX := (size - newW) / 2
	offY := (size - newH) / 2
	if anchor == Bottom {
		offY = size - newH - int(float64(size)*(1-fillRatio)/2)
	}

	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, crop, draw.Src, nil)
	return canvas
}

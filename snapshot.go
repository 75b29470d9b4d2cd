package life

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Snapshot renders the active cells of s that fall inside bounds into
// an RGBA image, one pixel per cell, scaled up by scale using
// nearest-neighbor so cells stay crisp. A scale below 1 is treated
// as 1.
func Snapshot(s *State, bounds image.Rectangle, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	base := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	bg := color.RGBA{A: 0xff}
	fg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	draw.Draw(base, base.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for c := range s.Active {
		x, y := int(c.X), int(c.Y)
		if !(image.Point{X: x, Y: y}).In(bounds) {
			continue
		}
		base.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, fg)
	}

	if scale == 1 {
		return base
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
	return dst
}

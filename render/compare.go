package render

import "image"

// BitmapPercent scores the visual difference between two grayscale
// bitmaps as a percentage from 0 to 100. Pixels inside the overlapping
// region compare by exact intensity; pixels covered by only one bitmap
// count as fully differing, so a size change is penalized rather than
// ignored. The score is symmetric in its arguments. Two empty bitmaps
// score 0.
func BitmapPercent(a, b *image.Gray) float64 {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()
	uw, uh := max(aw, bw), max(ah, bh)
	if uw == 0 || uh == 0 {
		return 0
	}
	ow, oh := min(aw, bw), min(ah, bh)
	differing := uw*uh - ow*oh
	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			pa := a.Pix[a.PixOffset(a.Bounds().Min.X+x, a.Bounds().Min.Y+y)]
			pb := b.Pix[b.PixOffset(b.Bounds().Min.X+x, b.Bounds().Min.Y+y)]
			if pa != pb {
				differing++
			}
		}
	}
	return float64(differing) / float64(uw*uh) * 100
}

package mask

// Dilate3x3 grows foreground regions by one pixel with a square kernel.
func Dilate3x3(b *Bitmap) *Bitmap {
	out := New(b.W, b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if !b.Pix[y*b.W+x] {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					out.Set(x+dx, y+dy, true)
				}
			}
		}
	}
	return out
}

// Erode3x3 shrinks foreground regions by one pixel with a square kernel.
// Pixels outside the bitmap count as background, so regions touching the
// frame erode at the frame too.
func Erode3x3(b *Bitmap) *Bitmap {
	out := New(b.W, b.H)
	for y := 0; y < b.H; y++ {
	pixels:
		for x := 0; x < b.W; x++ {
			if !b.Pix[y*b.W+x] {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if !b.At(x+dx, y+dy) {
						continue pixels
					}
				}
			}
			out.Pix[y*b.W+x] = true
		}
	}
	return out
}

// Close fills gaps up to one pixel wide: dilate then erode.
func Close(b *Bitmap) *Bitmap {
	return Erode3x3(Dilate3x3(b))
}

// Open removes speckle up to one pixel wide: erode then dilate.
func Open(b *Bitmap) *Bitmap {
	return Dilate3x3(Erode3x3(b))
}

package compose

import (
	"github.com/AltairaLabs/BackdropKit/media"
)

// DefaultBlurRadius is the kernel radius for the blur background, covering a
// 21x21 neighborhood at the default value.
const DefaultBlurRadius = 10

// Blur returns a uniformly blurred copy of the frame using a separable
// two-pass box blur. A box blur approximates the Gaussian closely enough for
// a defocused-background effect and runs in O(pixels) regardless of radius,
// which matters on the per-frame hot path.
func Blur(f *media.Frame, radius int) *media.Frame {
	if radius <= 0 {
		return f.Clone()
	}

	tmp := media.NewFrame(f.Width, f.Height)
	out := media.NewFrame(f.Width, f.Height)
	blurHorizontal(f, tmp, radius)
	blurVertical(tmp, out, radius)
	return out
}

func blurHorizontal(src, dst *media.Frame, radius int) {
	for y := 0; y < src.Height; y++ {
		var sumR, sumG, sumB, count int

		// Prime the sliding window for x = 0.
		for x := -radius; x <= radius; x++ {
			if x < 0 || x >= src.Width {
				continue
			}
			r, g, b := src.At(x, y)
			sumR += int(r)
			sumG += int(g)
			sumB += int(b)
			count++
		}

		for x := 0; x < src.Width; x++ {
			dst.Set(x, y, byte(sumR/count), byte(sumG/count), byte(sumB/count))

			// Slide: drop x-radius, add x+radius+1.
			if drop := x - radius; drop >= 0 {
				r, g, b := src.At(drop, y)
				sumR -= int(r)
				sumG -= int(g)
				sumB -= int(b)
				count--
			}
			if add := x + radius + 1; add < src.Width {
				r, g, b := src.At(add, y)
				sumR += int(r)
				sumG += int(g)
				sumB += int(b)
				count++
			}
		}
	}
}

func blurVertical(src, dst *media.Frame, radius int) {
	for x := 0; x < src.Width; x++ {
		var sumR, sumG, sumB, count int

		for y := -radius; y <= radius; y++ {
			if y < 0 || y >= src.Height {
				continue
			}
			r, g, b := src.At(x, y)
			sumR += int(r)
			sumG += int(g)
			sumB += int(b)
			count++
		}

		for y := 0; y < src.Height; y++ {
			dst.Set(x, y, byte(sumR/count), byte(sumG/count), byte(sumB/count))

			if drop := y - radius; drop >= 0 {
				r, g, b := src.At(x, drop)
				sumR -= int(r)
				sumG -= int(g)
				sumB -= int(b)
				count--
			}
			if add := y + radius + 1; add < src.Height {
				r, g, b := src.At(x, add)
				sumR += int(r)
				sumG += int(g)
				sumB += int(b)
				count++
			}
		}
	}
}

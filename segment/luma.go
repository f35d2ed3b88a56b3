package segment

import (
	"context"
	"math"

	"github.com/AltairaLabs/BackdropKit/media"
)

// Luma distance normalization: a pixel this far (Euclidean RGB distance) from
// the estimated background color maps to probability 1.
const lumaFullDistance = 160.0

// Luma is a built-in reference segmenter. It estimates the background color
// from the frame border and scores each pixel by its color distance from that
// estimate. It lets the server run end-to-end without an external model and
// serves as the stateless fallback collaborator; production deployments plug
// in a model-backed Segmenter instead.
//
// Luma holds no state and is safe for concurrent use.
type Luma struct{}

// NewLuma returns the built-in color-distance segmenter.
func NewLuma() *Luma {
	return &Luma{}
}

// Segment implements Segmenter.
func (l *Luma) Segment(_ context.Context, frame *media.Frame) (*Mask, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	bgR, bgG, bgB := borderMean(frame)

	mask := NewMask(frame.Width, frame.Height)
	i := 0
	for p := 0; p < len(frame.Pix); p += media.Channels {
		dr := float64(frame.Pix[p]) - bgR
		dg := float64(frame.Pix[p+1]) - bgG
		db := float64(frame.Pix[p+2]) - bgB
		d := math.Sqrt(dr*dr + dg*dg + db*db)

		prob := d / lumaFullDistance
		if prob > 1 {
			prob = 1
		}
		mask.Prob[i] = float32(prob)
		i++
	}
	return mask, nil
}

// borderMean averages the outermost pixel ring as the background estimate.
func borderMean(f *media.Frame) (r, g, b float64) {
	var sumR, sumG, sumB, n float64

	add := func(x, y int) {
		pr, pg, pb := f.At(x, y)
		sumR += float64(pr)
		sumG += float64(pg)
		sumB += float64(pb)
		n++
	}

	for x := 0; x < f.Width; x++ {
		add(x, 0)
		if f.Height > 1 {
			add(x, f.Height-1)
		}
	}
	for y := 1; y < f.Height-1; y++ {
		add(0, y)
		if f.Width > 1 {
			add(f.Width-1, y)
		}
	}

	return sumR / n, sumG / n, sumB / n
}

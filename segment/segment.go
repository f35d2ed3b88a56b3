// Package segment defines the boundary to the person-segmentation capability:
// a per-pixel foreground probability mask, the Segmenter interface that
// produces one, and a pool wrapper that isolates blocking inference from
// connection dispatch.
package segment

import (
	"context"
	"fmt"

	"github.com/AltairaLabs/BackdropKit/media"
)

// ForegroundThreshold is the probability above which a pixel is treated as
// subject rather than background. The cutover is hard; there is no blending
// at the boundary.
const ForegroundThreshold = 0.5

// Mask is a per-pixel foreground probability map in [0, 1]. Its resolution is
// authoritative for compositing: frames are resampled to match the mask, not
// the other way around, because the segmenter may downsample internally.
type Mask struct {
	Width  int
	Height int
	Prob   []float32 // len == Width*Height
}

// NewMask allocates a zeroed (all-background) mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Prob:   make([]float32, width*height),
	}
}

// At returns the foreground probability at (x, y).
func (m *Mask) At(x, y int) float32 {
	return m.Prob[y*m.Width+x]
}

// Foreground reports whether the pixel at (x, y) is subject.
func (m *Mask) Foreground(x, y int) bool {
	return m.Prob[y*m.Width+x] > ForegroundThreshold
}

// Validate checks that the buffer length matches the declared dimensions.
func (m *Mask) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("invalid mask dimensions %dx%d", m.Width, m.Height)
	}
	if want := m.Width * m.Height; len(m.Prob) != want {
		return fmt.Errorf("mask buffer length %d, want %d for %dx%d", len(m.Prob), want, m.Width, m.Height)
	}
	return nil
}

// Segmenter produces a foreground mask for a frame.
//
// A (nil, nil) return means the segmenter detected no subject; callers must
// treat this as "pass the frame through unmodified", not as an error.
//
// Implementations must either be safe for concurrent use by multiple
// goroutines or be instantiated per worker; model-backed implementations
// with internal mutable state should document which.
type Segmenter interface {
	Segment(ctx context.Context, frame *media.Frame) (*Mask, error)
}

// SegmenterFunc adapts a plain function to the Segmenter interface.
type SegmenterFunc func(ctx context.Context, frame *media.Frame) (*Mask, error)

// Segment implements Segmenter.
func (fn SegmenterFunc) Segment(ctx context.Context, frame *media.Frame) (*Mask, error) {
	return fn(ctx, frame)
}

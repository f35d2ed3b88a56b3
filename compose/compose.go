// Package compose combines a source frame, a foreground mask, and a resolved
// background selection into an output frame.
package compose

import (
	"github.com/AltairaLabs/BackdropKit/background"
	"github.com/AltairaLabs/BackdropKit/media"
	"github.com/AltairaLabs/BackdropKit/segment"
)

// Compositor renders output frames for one session. It is not safe for
// concurrent use; each session owns its own instance so the resize cache
// stays session-local.
type Compositor struct {
	// BlurRadius is the kernel radius for the blur background.
	BlurRadius int

	// cache holds the last background buffer resampled for this session,
	// keyed by (background id, resolution). Sessions typically keep one
	// background and one capture resolution for many frames in a row, so a
	// single entry covers the common case.
	cache       *media.Frame
	cacheID     string
	cacheWidth  int
	cacheHeight int
}

// New creates a Compositor. A radius of 0 or less selects DefaultBlurRadius.
func New(blurRadius int) *Compositor {
	if blurRadius <= 0 {
		blurRadius = DefaultBlurRadius
	}
	return &Compositor{BlurRadius: blurRadius}
}

// Composite produces the output frame for one inbound frame.
//
// Behavior by resolved mode:
//   - PassThrough: the frame is returned unchanged.
//   - BlurBackground: a blurred copy of the frame is the background layer.
//   - Pixels: the stored buffer, resampled to the frame's resolution, is the
//     background layer.
//
// A nil mask means the segmenter detected no subject; the frame is returned
// unmodified. When frame and mask resolutions differ, the frame is resampled
// to the mask's resolution first (the mask is authoritative). The combine is
// a hard per-pixel cutover at the foreground threshold.
func (c *Compositor) Composite(frame *media.Frame, mask *segment.Mask, resolved background.Resolved) *media.Frame {
	if resolved.Mode == background.PassThrough || mask == nil {
		return frame
	}

	if frame.Width != mask.Width || frame.Height != mask.Height {
		frame = media.Resample(frame, mask.Width, mask.Height)
	}

	var bg *media.Frame
	switch resolved.Mode {
	case background.BlurBackground:
		bg = Blur(frame, c.BlurRadius)
	case background.Pixels:
		bg = c.resampled(resolved.ID, resolved.Pix, frame.Width, frame.Height)
	default:
		return frame
	}

	out := media.NewFrame(frame.Width, frame.Height)
	i := 0
	for p := 0; p < len(frame.Pix); p += media.Channels {
		if mask.Prob[i] > segment.ForegroundThreshold {
			out.Pix[p] = frame.Pix[p]
			out.Pix[p+1] = frame.Pix[p+1]
			out.Pix[p+2] = frame.Pix[p+2]
		} else {
			out.Pix[p] = bg.Pix[p]
			out.Pix[p+1] = bg.Pix[p+1]
			out.Pix[p+2] = bg.Pix[p+2]
		}
		i++
	}
	return out
}

// resampled returns the background buffer at the target resolution, reusing
// the cached copy when the same background and resolution repeat.
func (c *Compositor) resampled(id string, pix *media.Frame, width, height int) *media.Frame {
	if pix.Width == width && pix.Height == height {
		return pix
	}
	if c.cache != nil && c.cacheID == id && c.cacheWidth == width && c.cacheHeight == height {
		return c.cache
	}

	c.cache = media.Resample(pix, width, height)
	c.cacheID = id
	c.cacheWidth = width
	c.cacheHeight = height
	return c.cache
}

// Composite renders with a throwaway Compositor at the default blur radius.
func Composite(frame *media.Frame, mask *segment.Mask, resolved background.Resolved) *media.Frame {
	return New(0).Composite(frame, mask, resolved)
}

package compose

import (
	"image/color"
	"testing"

	"github.com/AltairaLabs/BackdropKit/background"
	"github.com/AltairaLabs/BackdropKit/media"
	"github.com/AltairaLabs/BackdropKit/segment"
)

func solidFrame(w, h int, c color.RGBA) *media.Frame {
	f := media.NewFrame(w, h)
	f.Fill(c)
	return f
}

func uniformMask(w, h int, prob float32) *segment.Mask {
	m := segment.NewMask(w, h)
	for i := range m.Prob {
		m.Prob[i] = prob
	}
	return m
}

func TestComposite_PassThroughIdentity(t *testing.T) {
	frame := solidFrame(20, 20, color.RGBA{R: 10, G: 20, B: 30})
	resolved := background.Resolved{Mode: background.PassThrough, ID: background.IDNone}

	// Identity for any mask, including a mismatched-resolution one.
	for _, mask := range []*segment.Mask{nil, uniformMask(20, 20, 1), uniformMask(5, 5, 0)} {
		if out := Composite(frame, mask, resolved); out != frame {
			t.Error("PassThrough must return the frame unchanged")
		}
	}
}

func TestComposite_NilMaskReturnsFrame(t *testing.T) {
	frame := solidFrame(10, 10, color.RGBA{R: 1, G: 2, B: 3})
	bg := solidFrame(10, 10, color.RGBA{R: 200, G: 200, B: 200})
	resolved := background.Resolved{Mode: background.Pixels, ID: "office", Pix: bg}

	if out := Composite(frame, nil, resolved); out != frame {
		t.Error("No detection must skip compositing entirely")
	}
}

func TestComposite_AllForegroundKeepsFrame(t *testing.T) {
	frame := solidFrame(16, 12, color.RGBA{R: 40, G: 50, B: 60})
	bg := solidFrame(8, 8, color.RGBA{R: 250, G: 0, B: 0})
	resolved := background.Resolved{Mode: background.Pixels, ID: "office", Pix: bg}

	out := Composite(frame, uniformMask(16, 12, 1), resolved)
	if out.Width != 16 || out.Height != 12 {
		t.Fatalf("Unexpected output resolution %dx%d", out.Width, out.Height)
	}
	for i := range out.Pix {
		if out.Pix[i] != frame.Pix[i] {
			t.Fatal("All-foreground mask must keep the frame pixels exactly")
		}
	}
}

func TestComposite_AllBackgroundUsesBackground(t *testing.T) {
	frame := solidFrame(16, 12, color.RGBA{R: 40, G: 50, B: 60})
	// Deliberately different resolution: must be resampled to the frame's.
	bg := solidFrame(8, 8, color.RGBA{R: 250, G: 10, B: 10})
	resolved := background.Resolved{Mode: background.Pixels, ID: "office", Pix: bg}

	out := Composite(frame, uniformMask(16, 12, 0), resolved)
	if out.Width != 16 || out.Height != 12 {
		t.Fatalf("Unexpected output resolution %dx%d", out.Width, out.Height)
	}
	r, g, b := out.At(8, 6)
	if r != 250 || g != 10 || b != 10 {
		t.Errorf("All-background mask must yield background pixels, got (%d,%d,%d)", r, g, b)
	}
}

func TestComposite_MaskResolutionIsAuthoritative(t *testing.T) {
	frame := solidFrame(64, 64, color.RGBA{R: 100, G: 100, B: 100})
	bg := solidFrame(32, 24, color.RGBA{R: 0, G: 0, B: 0})
	resolved := background.Resolved{Mode: background.Pixels, ID: "office", Pix: bg}

	out := Composite(frame, uniformMask(32, 24, 1), resolved)
	if out.Width != 32 || out.Height != 24 {
		t.Errorf("Output must match mask resolution 32x24, got %dx%d", out.Width, out.Height)
	}
}

func TestComposite_HardCutover(t *testing.T) {
	frame := solidFrame(4, 1, color.RGBA{R: 255, G: 255, B: 255})
	bg := solidFrame(4, 1, color.RGBA{R: 0, G: 0, B: 0})
	resolved := background.Resolved{Mode: background.Pixels, ID: "office", Pix: bg}

	mask := segment.NewMask(4, 1)
	mask.Prob = []float32{0, 0.5, 0.51, 1}

	out := Composite(frame, mask, resolved)
	want := []byte{0, 0, 255, 255} // per-pixel R channel after cutover
	for x := 0; x < 4; x++ {
		r, _, _ := out.At(x, 0)
		if r != want[x] {
			t.Errorf("Pixel %d: got R=%d, want %d (no blending at the boundary)", x, r, want[x])
		}
	}
}

func TestComposite_BlurBackground(t *testing.T) {
	// Half white, half black: blurring smears the edge, so the cutover
	// column must differ from both extremes.
	frame := media.NewFrame(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			frame.Set(x, y, 255, 255, 255)
		}
	}
	resolved := background.Resolved{Mode: background.BlurBackground, ID: background.IDBlur}

	out := Composite(frame, uniformMask(40, 40, 0), resolved)
	r, _, _ := out.At(20, 20)
	if r == 0 || r == 255 {
		t.Errorf("Expected smeared edge under blur, got R=%d", r)
	}
}

func TestBlur_ZeroRadiusClones(t *testing.T) {
	frame := solidFrame(10, 10, color.RGBA{R: 77, G: 88, B: 99})
	out := Blur(frame, 0)
	if out == frame {
		t.Fatal("Blur must not alias the input frame")
	}
	for i := range out.Pix {
		if out.Pix[i] != frame.Pix[i] {
			t.Fatal("Zero radius must preserve pixels")
		}
	}
}

func TestBlur_PreservesSolidColor(t *testing.T) {
	frame := solidFrame(30, 30, color.RGBA{R: 120, G: 130, B: 140})
	out := Blur(frame, DefaultBlurRadius)
	r, g, b := out.At(15, 15)
	if r != 120 || g != 130 || b != 140 {
		t.Errorf("Solid color changed under blur: (%d,%d,%d)", r, g, b)
	}
}

func TestCompositor_ReusesResizedBackground(t *testing.T) {
	c := New(0)
	frame := solidFrame(16, 16, color.RGBA{R: 1, G: 1, B: 1})
	bg := solidFrame(8, 8, color.RGBA{R: 9, G: 9, B: 9})
	resolved := background.Resolved{Mode: background.Pixels, ID: "office", Pix: bg}
	mask := uniformMask(16, 16, 0)

	c.Composite(frame, mask, resolved)
	first := c.cache
	if first == nil {
		t.Fatal("Expected resize cache to be populated")
	}

	c.Composite(frame, mask, resolved)
	if c.cache != first {
		t.Error("Repeated composite with same background and resolution must reuse the cache")
	}

	// A different resolution must invalidate it.
	c.Composite(solidFrame(20, 20, color.RGBA{}), uniformMask(20, 20, 0), resolved)
	if c.cache == first {
		t.Error("Resolution change must replace the cached buffer")
	}
}

package background

import (
	"math"
	"math/rand"

	"github.com/AltairaLabs/BackdropKit/media"
)

// Procedural backgrounds are generated once at startup at a fixed resolution
// and are immutable for the process lifetime.
const (
	proceduralWidth  = 640
	proceduralHeight = 480

	// spaceStarSeed fixes the star field so the space background is
	// deterministic across processes.
	spaceStarSeed = 42
	spaceStars    = 100
)

// proceduralSet builds the predefined catalog entries.
func proceduralSet() []*Background {
	return []*Background{
		{ID: "office", Kind: KindProcedural, Label: "Office", Pix: officeBackground()},
		{ID: "nature", Kind: KindProcedural, Label: "Nature", Pix: natureBackground()},
		{ID: "space", Kind: KindProcedural, Label: "Space", Pix: spaceBackground()},
		{ID: "beach", Kind: KindProcedural, Label: "Beach", Pix: beachBackground()},
		{ID: "gradient", Kind: KindProcedural, Label: "Gradient", Pix: gradientBackground()},
		{ID: "abstract", Kind: KindProcedural, Label: "Abstract", Pix: abstractBackground()},
	}
}

func clamp(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// officeBackground is a vertical gradient from light blue to near white.
func officeBackground() *media.Frame {
	f := media.NewFrame(proceduralWidth, proceduralHeight)
	for y := 0; y < f.Height; y++ {
		intensity := 200 + 55*y/f.Height
		r := clamp(intensity)
		g := clamp(intensity + 20)
		b := clamp(intensity + 40)
		for x := 0; x < f.Width; x++ {
			f.Set(x, y, r, g, b)
		}
	}
	return f
}

// natureBackground is sky over ground: blue fading down into green.
func natureBackground() *media.Frame {
	f := media.NewFrame(proceduralWidth, proceduralHeight)
	half := f.Height / 2
	for y := 0; y < f.Height; y++ {
		var r, g, b byte
		if y < half {
			intensity := 100 + 100*y/half
			r = clamp(intensity)
			g = clamp(intensity + 50)
			b = clamp(intensity + 100)
		} else {
			intensity := 50 + 50*(y-half)/half
			r = clamp(intensity)
			g = clamp(intensity + 100)
			b = clamp(intensity)
		}
		for x := 0; x < f.Width; x++ {
			f.Set(x, y, r, g, b)
		}
	}
	return f
}

// spaceBackground is a deep blue-to-black gradient with a fixed star field.
func spaceBackground() *media.Frame {
	f := media.NewFrame(proceduralWidth, proceduralHeight)
	for y := 0; y < f.Height; y++ {
		intensity := 20 + 30*(f.Height-y)/f.Height
		r := clamp(intensity / 3)
		g := clamp(intensity / 2)
		b := clamp(intensity)
		for x := 0; x < f.Width; x++ {
			f.Set(x, y, r, g, b)
		}
	}

	rng := rand.New(rand.NewSource(spaceStarSeed))
	for i := 0; i < spaceStars; i++ {
		x := rng.Intn(f.Width)
		y := rng.Intn(f.Height)
		brightness := byte(150 + rng.Intn(106))
		f.Set(x, y, brightness, brightness, brightness)
	}
	return f
}

// beachBackground stacks sky, water, and sand bands.
func beachBackground() *media.Frame {
	f := media.NewFrame(proceduralWidth, proceduralHeight)
	sky := f.Height / 2
	water := f.Height * 3 / 4
	for y := 0; y < f.Height; y++ {
		var r, g, b byte
		switch {
		case y < sky:
			intensity := 100 + 80*y/sky
			r = clamp(intensity)
			g = clamp(intensity + 50)
			b = clamp(intensity + 100)
		case y < water:
			intensity := 50 + 30*(y-sky)/(water-sky)
			r = clamp(intensity + 50)
			g = clamp(intensity + 80)
			b = clamp(intensity + 120)
		default:
			intensity := 80 + 40*(y-water)/(f.Height-water)
			r = clamp(intensity + 60)
			g = clamp(intensity + 40)
			b = clamp(intensity)
		}
		for x := 0; x < f.Width; x++ {
			f.Set(x, y, r, g, b)
		}
	}
	return f
}

// gradientBackground is a diagonal purple-to-pink sweep.
func gradientBackground() *media.Frame {
	f := media.NewFrame(proceduralWidth, proceduralHeight)
	for y := 0; y < f.Height; y++ {
		fy := float64(y) / float64(f.Height)
		for x := 0; x < f.Width; x++ {
			fx := float64(x) / float64(f.Width)
			r := clamp(int(128 + 127*(fx+fy)/2))
			g := clamp(int(50 + 100*fx))
			b := clamp(int(200 - 100*fy))
			f.Set(x, y, r, g, b)
		}
	}
	return f
}

// abstractBackground overlays sine waves on each channel.
func abstractBackground() *media.Frame {
	f := media.NewFrame(proceduralWidth, proceduralHeight)
	for y := 0; y < f.Height; y++ {
		fy := float64(y) / float64(f.Height)
		for x := 0; x < f.Width; x++ {
			fx := float64(x) / float64(f.Width)
			r := clamp(int(100 + 100*math.Sin(fx*math.Pi*2)*math.Cos(fy*math.Pi*2)))
			g := clamp(int(100 + 100*math.Sin(fy*math.Pi*3)*math.Cos(fx*math.Pi*1.5)))
			b := clamp(int(100 + 100*math.Sin((fx+fy)*math.Pi*2.5)))
			f.Set(x, y, r, g, b)
		}
	}
	return f
}

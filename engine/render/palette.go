package render

import (
	"image/color"
	"math"
	"time"

	"github.com/1siamBot/isogrid/engine/viewport"
)

// TerrainColors maps terrain types to their base fill
var TerrainColors = map[viewport.Terrain]color.RGBA{
	viewport.TerrainLand:  {0xFE, 0xF3, 0xC7, 255}, // sand
	viewport.TerrainWater: {0x0E, 0xA5, 0xE9, 255}, // sky blue
}

var (
	BackgroundColor = color.RGBA{255, 255, 255, 255}
	StrokeColor     = color.RGBA{0xD1, 0xD5, 0xDB, 255}
	HoverColor      = color.RGBA{0x22, 0xC5, 0x5E, 220} // placeable
	BlockedColor    = color.RGBA{0xEF, 0x44, 0x44, 220} // water under the cursor
	ObjectColor     = color.RGBA{0xB4, 0x53, 0x09, 255}
	RoofColor       = color.RGBA{0x7C, 0x2D, 0x12, 255}
)

const (
	// ShimmerAmplitude is how far water tiles rise, in scene pixels.
	ShimmerAmplitude = 2.0
	// ShimmerHalfCycle is the duration of one rise (or fall).
	ShimmerHalfCycle = 2000 * time.Millisecond
	// tintStep is the brightness change between neighbouring variants.
	tintStep = 0.04
)

// Tint returns base lightened or darkened according to the cell variant.
// Variants are spread symmetrically around the base color.
func Tint(base color.RGBA, variant, period int) color.RGBA {
	if period <= 1 {
		return base
	}
	f := 1 + (float64(variant)-float64(period-1)/2)*tintStep
	scale := func(c uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(c)*f))))
	}
	return color.RGBA{scale(base.R), scale(base.G), scale(base.B), base.A}
}

// ShimmerOffset is the vertical offset of a water tile at time t.
// The tile eases up by ShimmerAmplitude and back, starting after a delay
// of phase seconds, so neighbouring tiles move out of step.
func ShimmerOffset(phase float64, t time.Duration) float64 {
	delay := time.Duration(phase * float64(time.Second))
	if t < delay {
		return 0
	}
	e := (t - delay) % (2 * ShimmerHalfCycle)
	p := float64(e) / float64(ShimmerHalfCycle)
	if p > 1 {
		p = 2 - p
	}
	return -ShimmerAmplitude * (1 - math.Cos(math.Pi*p)) / 2
}

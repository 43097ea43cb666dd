package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/1siamBot/isogrid/engine/render"
	"github.com/1siamBot/isogrid/engine/settings"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// supersample is the oversize factor tiles are drawn at before scaling down.
const supersample = 4

func main() {
	configPath := flag.String("config", settings.DefaultPath, "settings file")
	dir := flag.String("out", filepath.Join("assets", "tiles"), "output directory")
	force := flag.Bool("force", false, "overwrite existing tiles")
	flag.Parse()

	s, err := settings.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Viewport.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatal(err)
	}

	cfg := s.Viewport
	tw, th := int(cfg.TileWidth), int(cfg.TileHeight)
	period := max(cfg.JitterPeriod, 1)

	textures := map[viewport.Terrain]func(x, y int, rng *rand.Rand) float64{
		viewport.TerrainLand: func(x, y int, rng *rand.Rand) float64 {
			grain := 0.02 * math.Sin(float64(x)*0.8+float64(y)*0.3)
			return 1 + rng.Float64()*0.04 - 0.02 + grain
		},
		viewport.TerrainWater: func(x, y int, rng *rand.Rand) float64 {
			// horizontal ripples
			ripple := 0.05 * math.Sin(float64(y)*0.5+float64(x)*0.05)
			return 1 + rng.Float64()*0.02 - 0.01 + ripple
		},
	}

	written := 0
	for terrain, name := range render.TerrainNames {
		for v := 0; v < period; v++ {
			path := filepath.Join(*dir, fmt.Sprintf("%s_%d.png", name, v))
			if _, err := os.Stat(path); err == nil && !*force {
				continue
			}
			base := render.Tint(render.TerrainColors[terrain], v, period)
			rng := rand.New(rand.NewSource(int64((v + 1) * 12345)))
			img := render.ScaleImage(rhombus(tw*supersample, th*supersample, base, textures[terrain], rng), tw, th)
			if err := writePNG(path, img); err != nil {
				log.Fatal(err)
			}
			written++
		}
	}
	log.Printf("generate_tiles: wrote %d tiles to %s", written, *dir)
}

// rhombus fills the diamond inscribed in a w x h image, leaving the
// corners transparent.
func rhombus(w, h int, base color.RGBA, shade func(x, y int, rng *rand.Rand) float64, rng *rand.Rand) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	hw, hh := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := math.Abs(float64(x)+0.5-hw) / hw
			dy := math.Abs(float64(y)+0.5-hh) / hh
			if dx+dy > 1 {
				continue
			}
			k := shade(x/supersample, y/supersample, rng)
			img.SetRGBA(x, y, color.RGBA{scale(base.R, k), scale(base.G, k), scale(base.B, k), 255})
		}
	}
	return img
}

func scale(c uint8, k float64) uint8 {
	return uint8(math.Max(0, math.Min(255, float64(c)*k)))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

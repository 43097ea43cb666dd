package render

import (
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/1siamBot/isogrid/engine/viewport"
)

// TerrainNames are the file prefixes of generated tiles.
var TerrainNames = map[viewport.Terrain]string{
	viewport.TerrainLand:  "land",
	viewport.TerrainWater: "water",
}

// TileSet holds tile images per terrain, one per jitter variant.
type TileSet struct {
	Variants map[viewport.Terrain][]*ebiten.Image
}

// LoadTileSet reads <dir>/<terrain>_<variant>.png for each terrain and
// scales every image to the tile size. Missing files are skipped; the
// renderer falls back to flat diamonds.
func LoadTileSet(dir string, period, tw, th int) *TileSet {
	ts := &TileSet{Variants: make(map[viewport.Terrain][]*ebiten.Image)}
	if period < 1 {
		period = 1
	}
	total := 0
	for terrain, name := range TerrainNames {
		for v := 0; v < period; v++ {
			img := loadScaled(filepath.Join(dir, fmt.Sprintf("%s_%d.png", name, v)), tw, th)
			if img == nil {
				break
			}
			ts.Variants[terrain] = append(ts.Variants[terrain], ebiten.NewImageFromImage(img))
			total++
		}
	}
	if total > 0 {
		log.Printf("TileSet: loaded %d tiles from %s", total, dir)
	}
	return ts
}

// Variant returns the image for a terrain variant, or nil.
func (ts *TileSet) Variant(terrain viewport.Terrain, variant int) *ebiten.Image {
	if ts == nil {
		return nil
	}
	imgs := ts.Variants[terrain]
	if len(imgs) == 0 {
		return nil
	}
	return imgs[variant%len(imgs)]
}

func loadScaled(path string, tw, th int) image.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.Printf("Warning: could not decode tile %s: %v", path, err)
		return nil
	}
	return ScaleImage(img, tw, th)
}

// ScaleImage resamples src to w x h. Images already at that size are
// returned unchanged.
func ScaleImage(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

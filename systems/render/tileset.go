package render

import (
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"ebiten-dungeon/generation"
)

// Tileset handles loading and drawing a dual grid tile sheet: a 4x4 block
// of tiles indexed by generation.DisplayAtlas.
type Tileset struct {
	Image      *ebiten.Image
	SourceSize int // Pixel size of one tile in the sheet
	Width      int // Number of tiles horizontally in the tileset
	Height     int // Number of tiles vertically in the tileset
}

// NewTileset loads a tileset from a PNG file
func NewTileset(filename string, sourceSize int) (*Tileset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	return newTileset(ebiten.NewImageFromImage(img), sourceSize), nil
}

// NewProceduralTileset paints a flat dual grid sheet: every tile is split in
// four quadrants coloured floor or wall after its corner mask.
func NewProceduralTileset(sourceSize int, floor, wall color.Color) *Tileset {
	img := ebiten.NewImage(4*sourceSize, 4*sourceSize)
	half := float32(sourceSize) / 2

	quadrants := []struct {
		bit    int
		dx, dy float32
	}{
		{generation.DisplayTopLeft, 0, 0},
		{generation.DisplayTopRight, half, 0},
		{generation.DisplayBottomLeft, 0, half},
		{generation.DisplayBottomRight, half, half},
	}

	for mask, cell := range generation.DisplayAtlas {
		ox := float32(cell.X * sourceSize)
		oy := float32(cell.Y * sourceSize)
		for _, q := range quadrants {
			clr := wall
			if mask&q.bit != 0 {
				clr = floor
			}
			vector.DrawFilledRect(img, ox+q.dx, oy+q.dy, half, half, clr, false)
		}
	}

	return newTileset(img, sourceSize)
}

func newTileset(img *ebiten.Image, sourceSize int) *Tileset {
	bounds := img.Bounds()
	return &Tileset{
		Image:      img,
		SourceSize: sourceSize,
		Width:      bounds.Dx() / sourceSize,
		Height:     bounds.Dy() / sourceSize,
	}
}

// DrawTileByID draws the sheet tile at id with its top-left corner at screen
// (x, y), scaled to size pixels and tinted by clr when non-nil.
func (t *Tileset) DrawTileByID(target *ebiten.Image, id image.Point, x, y, size float64, clr color.Color) {
	if id.X < 0 || id.X >= t.Width || id.Y < 0 || id.Y >= t.Height {
		vector.DrawFilledRect(target, float32(x), float32(y), float32(size), float32(size), color.RGBA{255, 0, 255, 255}, false)
		return
	}

	sx := id.X * t.SourceSize
	sy := id.Y * t.SourceSize

	op := &ebiten.DrawImageOptions{}
	scale := size / float64(t.SourceSize)
	op.GeoM.Scale(scale, scale)
	if clr != nil {
		op.ColorScale.ScaleWithColor(clr)
	}
	op.GeoM.Translate(x, y)

	rect := image.Rect(sx, sy, sx+t.SourceSize, sy+t.SourceSize)
	target.DrawImage(t.Image.SubImage(rect).(*ebiten.Image), op)
}

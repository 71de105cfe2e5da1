package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"ebiten-dungeon/components"
	"ebiten-dungeon/config"
	"ebiten-dungeon/ecs"
	"ebiten-dungeon/systems"
)

var (
	cellColor     = color.RGBA{90, 90, 110, 255}
	roomColor     = color.RGBA{220, 220, 220, 255}
	extraColor    = color.RGBA{120, 160, 255, 255}
	selectedColor = color.RGBA{255, 230, 80, 255}
	mstColor      = color.RGBA{255, 255, 255, 200}
	loopColor     = color.RGBA{80, 220, 220, 200}
	startColor    = color.RGBA{80, 220, 80, 255}
	background    = color.RGBA{0, 0, 0, 255}
)

// RenderSystem draws the active run: cells while they separate, then the
// tile grid with optional geometry overlays.
type RenderSystem struct {
	tileset      *Tileset
	cameraSystem *systems.CameraSystem
	log          *systems.MessageLog

	ShowTiles bool
	ShowAtlas bool
	ShowGraph bool
	ShowCells bool
}

// NewRenderSystem creates a new rendering system. A nil tileset is replaced
// by a procedural one on first draw.
func NewRenderSystem(tileset *Tileset, cameraSystem *systems.CameraSystem, log *systems.MessageLog) *RenderSystem {
	return &RenderSystem{
		tileset:      tileset,
		cameraSystem: cameraSystem,
		log:          log,
		ShowTiles:    true,
		ShowGraph:    true,
	}
}

// Update does nothing; drawing happens in Draw
func (s *RenderSystem) Update(world *ecs.World, dt float64) {}

// Draw renders the active run and the status bar
func (s *RenderSystem) Draw(world *ecs.World, screen *ebiten.Image) {
	screen.Fill(background)

	active, ok := world.FirstWithTag("active")
	if !ok {
		s.drawStatus(screen, nil)
		return
	}

	var mapping *components.TileMappingComponent
	if e, ok := world.FirstWithTag("tilemap"); ok {
		if comp, ok := world.GetComponent(e.ID, components.Appearance); ok {
			mapping = comp.(*components.TileMappingComponent)
		}
	}
	if mapping == nil {
		mapping = components.NewTileMappingComponent()
	}

	layout := component[*components.LayoutComponent](world, active.ID, components.Layout)
	tm := component[*components.TileMapComponent](world, active.ID, components.TileMap)
	progress := component[*components.ProgressComponent](world, active.ID, components.Progress)
	if layout == nil {
		s.drawStatus(screen, progress)
		return
	}

	separating := progress != nil && progress.Separating()
	if separating || tm == nil || tm.Grid == nil {
		s.drawRects(screen, layout.Cells, cellColor, 1)
	} else if s.ShowTiles {
		if s.ShowAtlas {
			s.drawAtlas(screen, tm, layout.TileSize, mapping)
		} else {
			s.drawGrid(screen, tm.Grid, layout.TileSize, mapping)
		}
	}

	if !separating {
		s.drawOverlays(screen, layout)
	}
	s.drawStatus(screen, progress)
}

func component[T any](world *ecs.World, id ecs.EntityID, cid ecs.ComponentID) T {
	var zero T
	comp, ok := world.GetComponent(id, cid)
	if !ok {
		return zero
	}
	t, _ := comp.(T)
	return t
}

// screenRect maps a world rectangle to screen space, false when off screen
func (s *RenderSystem) screenRect(screen *ebiten.Image, r image.Rectangle) (x, y, w, h float32, ok bool) {
	x0, y0 := s.cameraSystem.WorldToScreen(float64(r.Min.X), float64(r.Min.Y))
	x1, y1 := s.cameraSystem.WorldToScreen(float64(r.Max.X), float64(r.Max.Y))
	b := screen.Bounds()
	if x1 < 0 || y1 < 0 || x0 > float64(b.Dx()) || y0 > float64(b.Dy()) {
		return 0, 0, 0, 0, false
	}
	return float32(x0), float32(y0), float32(x1 - x0), float32(y1 - y0), true
}

func (s *RenderSystem) drawRects(screen *ebiten.Image, rects []image.Rectangle, clr color.Color, width float32) {
	for _, r := range rects {
		if x, y, w, h, ok := s.screenRect(screen, r); ok {
			vector.StrokeRect(screen, x, y, w, h, width, clr, false)
		}
	}
}

// drawGrid fills every tile with the foreground colour of its definition
func (s *RenderSystem) drawGrid(screen *ebiten.Image, grid *components.TileGrid, tileSize int, mapping *components.TileMappingComponent) {
	grid.Each(func(x, y int, tile components.Tile) {
		if tile.Type == components.TileNone {
			return
		}
		r := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
		if sx, sy, w, h, ok := s.screenRect(screen, r); ok {
			vector.DrawFilledRect(screen, sx, sy, w, h, mapping.Lookup(tile).FG, false)
		}
	})
}

// drawAtlas draws the dual grid, each display tile centred on a tile corner
func (s *RenderSystem) drawAtlas(screen *ebiten.Image, tm *components.TileMapComponent, tileSize int, mapping *components.TileMappingComponent) {
	if s.tileset == nil {
		s.tileset = NewProceduralTileset(config.AtlasSourceSize,
			mapping.GetTileDefinition(components.FloorOpen).FG,
			mapping.Solid.FG)
	}

	half := tileSize / 2
	for y, row := range tm.Atlas {
		for x, cell := range row {
			wx := (x+tm.AtlasOriginX)*tileSize - half
			wy := (y+tm.AtlasOriginY)*tileSize - half
			r := image.Rect(wx, wy, wx+tileSize, wy+tileSize)
			if sx, sy, w, _, ok := s.screenRect(screen, r); ok {
				s.tileset.DrawTileByID(screen, cell, float64(sx), float64(sy), float64(w), nil)
			}
		}
	}
}

func (s *RenderSystem) drawOverlays(screen *ebiten.Image, layout *components.LayoutComponent) {
	if s.ShowCells {
		s.drawRects(screen, layout.Cells, cellColor, 1)
	}
	s.drawRects(screen, layout.Rooms, roomColor, 1)
	s.drawRects(screen, layout.ExtraRooms, extraColor, 1)
	if layout.Selected >= 0 && layout.Selected < len(layout.ExtraRooms) {
		s.drawRects(screen, layout.ExtraRooms[layout.Selected:layout.Selected+1], selectedColor, 3)
	}

	if !s.ShowGraph {
		return
	}
	for i, e := range layout.Edges {
		clr := mstColor
		if i >= layout.MSTEdges {
			clr = loopColor
		}
		x0, y0 := s.cameraSystem.WorldToScreen(float64(e[0].X), float64(e[0].Y))
		x1, y1 := s.cameraSystem.WorldToScreen(float64(e[1].X), float64(e[1].Y))
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, clr, true)
	}
	if layout.HasStart {
		x, y := s.cameraSystem.WorldToScreen(float64(layout.Start.X), float64(layout.Start.Y))
		vector.DrawFilledCircle(screen, float32(x), float32(y), 6, startColor, true)
	}
}

// drawStatus prints the run summary, the controls and the recent messages
func (s *RenderSystem) drawStatus(screen *ebiten.Image, progress *components.ProgressComponent) {
	line := "no run"
	if progress != nil {
		line = fmt.Sprintf("seed %d  stage %s  step %d  rooms %d", progress.Seed, progress.Stage, progress.Step, progress.Rooms)
		if progress.Err != "" {
			line += "  error: " + progress.Err
		}
	}
	ebitenutil.DebugPrintAt(screen, line, 4, 4)
	ebitenutil.DebugPrintAt(screen, "H help  R new  E promote  Tab select  [ ] history  arrows pan  +/- zoom  Q quit", 4, 20)

	if s.log == nil {
		return
	}
	h := screen.Bounds().Dy()
	for i, msg := range s.log.RecentMessages(config.StatusMessages) {
		ebitenutil.DebugPrintAt(screen, msg.Text, 4, h-16*(i+1))
	}
}

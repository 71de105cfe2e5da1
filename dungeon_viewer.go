package main

import (
	"context"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ebiten-dungeon/components"
	"ebiten-dungeon/config"
	"ebiten-dungeon/ecs"
	"ebiten-dungeon/screens"
	"ebiten-dungeon/systems"
	"ebiten-dungeon/systems/render"
)

// DungeonViewer implements ebiten.Game. It watches runs separate live and
// browses the finished dungeons.
type DungeonViewer struct {
	world             *ecs.World
	generationSystem  *systems.GenerationSystem
	mapRegistrySystem *systems.MapRegistrySystem
	cameraSystem      *systems.CameraSystem
	renderSystem      *render.RenderSystem

	// OnHelp is called when the help key is pressed
	OnHelp func()
}

// viewerHelp lists the viewer controls
var viewerHelp = []string{
	"R        regenerate with the next seed",
	"E        promote the selected extra room",
	"Tab      select the next extra room",
	"[ ]      step through previous runs",
	"arrows   pan, + - zoom",
	"G C T A  toggle graph, cells, tiles, atlas",
	"F        fullscreen",
	"Q        quit",
}

// NewDungeonViewer creates the viewer and starts the first run. tileset
// may be nil for the built in procedural sheet.
func NewDungeonViewer(ctx context.Context, cfg config.Generation, tileset *render.Tileset, logger *slog.Logger) *DungeonViewer {
	world := ecs.NewWorld()
	width, height := config.GetWindowSize()

	log := systems.NewMessageLog()
	generationSystem := systems.NewGenerationSystem(ctx, world, cfg, logger, config.SeparationStepsPerFrame)
	mapRegistrySystem := systems.NewMapRegistrySystem(world, logger, config.MaxRuns)
	cameraSystem := systems.NewCameraSystem(world, width, height)
	systems.NewMessageSystem(world, log)

	world.AddSystem(generationSystem)
	world.AddSystem(mapRegistrySystem)
	world.AddSystem(cameraSystem)

	v := &DungeonViewer{
		world:             world,
		generationSystem:  generationSystem,
		mapRegistrySystem: mapRegistrySystem,
		cameraSystem:      cameraSystem,
		renderSystem:      render.NewRenderSystem(tileset, cameraSystem, log),
	}

	tileMapEntity := world.CreateEntity()
	world.TagEntity(tileMapEntity.ID, "tilemap")
	world.AddComponent(tileMapEntity.ID, components.Appearance, components.NewTileMappingComponent())

	cameraEntity := world.CreateEntity()
	world.TagEntity(cameraEntity.ID, "camera")
	world.AddComponent(cameraEntity.ID, components.Camera, components.NewCameraComponent(1))

	log.AddTyped("H help, R regenerate, E promote, Tab select", systems.MessageTypeSystem)

	generationSystem.Start(0)
	return v
}

// Update handles input then advances the world one frame
func (v *DungeonViewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return screens.ErrClose
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) && v.OnHelp != nil {
		v.OnHelp()
		return nil
	}
	v.handleInput()
	v.world.Update(1.0 / 60.0)
	return nil
}

func (v *DungeonViewer) handleInput() {
	emit := v.world.EmitEvent

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		emit(systems.RegenerateEvent{})
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		emit(systems.PromoteEvent{})
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		emit(systems.SelectExtraEvent{})
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		emit(systems.HistoryEvent{Delta: -1})
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		emit(systems.HistoryEvent{Delta: 1})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		v.renderSystem.ShowGraph = !v.renderSystem.ShowGraph
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.renderSystem.ShowCells = !v.renderSystem.ShowCells
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.renderSystem.ShowTiles = !v.renderSystem.ShowTiles
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.renderSystem.ShowAtlas = !v.renderSystem.ShowAtlas
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= config.CameraSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += config.CameraSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= config.CameraSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += config.CameraSpeed
	}
	if dx != 0 || dy != 0 {
		emit(systems.PanEvent{DX: dx, DY: dy})
	}

	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyNumpadAdd) {
		emit(systems.ZoomEvent{Factor: config.ZoomStep})
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyNumpadSubtract) {
		emit(systems.ZoomEvent{Factor: 1 / config.ZoomStep})
	}
}

// Draw draws the viewer screen
func (v *DungeonViewer) Draw(screen *ebiten.Image) {
	v.renderSystem.Draw(v.world, screen)
}

// Layout implements ebiten.Game's Layout
func (v *DungeonViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.cameraSystem.SetScreenSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

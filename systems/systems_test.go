package systems

import (
	"context"
	"log/slog"
	"testing"

	"ebiten-dungeon/components"
	"ebiten-dungeon/config"
	"ebiten-dungeon/ecs"
	"ebiten-dungeon/generation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewer struct {
	world    *ecs.World
	gen      *GenerationSystem
	registry *MapRegistrySystem
	camera   *CameraSystem
	log      *MessageLog
}

func newViewer(cfg config.Generation) *viewer {
	w := ecs.NewWorld()
	logger := slog.New(slog.DiscardHandler)
	v := &viewer{
		world:    w,
		gen:      NewGenerationSystem(context.Background(), w, cfg, logger, 50),
		registry: NewMapRegistrySystem(w, logger, 4),
		camera:   NewCameraSystem(w, 800, 600),
		log:      NewMessageLog(),
	}
	NewMessageSystem(w, v.log)
	w.AddSystem(v.gen)
	w.AddSystem(v.registry)
	w.AddSystem(v.camera)

	cam := w.CreateEntity()
	w.TagEntity(cam.ID, "camera")
	w.AddComponent(cam.ID, components.Camera, components.NewCameraComponent(1))
	return v
}

func (v *viewer) finish(t *testing.T) {
	t.Helper()
	for i := 0; i < 10000 && v.gen.Separating(); i++ {
		v.world.Update(1.0 / 60)
	}
	require.False(t, v.gen.Separating(), "separation never finished")
	v.world.Update(1.0 / 60)
}

func (v *viewer) layout(id ecs.EntityID) *components.LayoutComponent {
	comp, _ := v.world.GetComponent(id, components.Layout)
	return comp.(*components.LayoutComponent)
}

func (v *viewer) progress(id ecs.EntityID) *components.ProgressComponent {
	comp, _ := v.world.GetComponent(id, components.Progress)
	return comp.(*components.ProgressComponent)
}

func testConfig() config.Generation {
	cfg := config.DefaultGeneration()
	cfg.Seed = 42
	cfg.NumberOfCells = 20
	return cfg
}

func TestGenerationSystemMatchesGenerator(t *testing.T) {
	for _, strategy := range []string{config.SeparatorDiscrete, config.SeparatorPhysics} {
		t.Run(strategy, func(t *testing.T) {
			cfg := testConfig()
			cfg.Separation.Strategy = strategy
			v := newViewer(cfg)

			id := v.gen.Start(0)
			assert.True(t, v.gen.Separating())
			assert.True(t, v.progress(id).Separating())
			assert.Len(t, v.layout(id).Cells, cfg.NumberOfCells)
			v.finish(t)

			want, err := generation.NewDungeonGenerator(cfg).Generate(context.Background())
			require.NoError(t, err)

			got, ok := v.gen.Dungeon(id)
			require.True(t, ok)
			assert.Equal(t, want.Cells, got.Cells)
			assert.Equal(t, want.Rooms, got.Rooms)
			assert.Equal(t, want.Corridors, got.Corridors)
			assert.Equal(t, want.Grid, got.Grid)

			layout := v.layout(id)
			assert.Len(t, layout.Rooms, len(want.Rooms))
			assert.Len(t, layout.Edges, len(want.CorridorEdges))
			assert.Equal(t, len(want.Graph.MST), layout.MSTEdges)
			assert.True(t, layout.HasStart)

			progress := v.progress(id)
			assert.Equal(t, string(generation.StageRasterized), progress.Stage)
			assert.Equal(t, int64(42), progress.Seed)
			assert.Equal(t, want.Seed, got.Seed)
			assert.Empty(t, progress.Err)
			assert.NotEmpty(t, progress.RunID)

			comp, ok := v.world.GetComponent(id, components.TileMap)
			require.True(t, ok)
			tm := comp.(*components.TileMapComponent)
			assert.Equal(t, want.Grid, tm.Grid)
			assert.Len(t, tm.Atlas, want.DisplayTiles.Height)

			recent := v.log.RecentMessages(1)
			require.Len(t, recent, 1)
			assert.Contains(t, recent[0].Text, "seed 42")
		})
	}
}

func TestRegenerateAndHistory(t *testing.T) {
	v := newViewer(testConfig())
	em := v.world.GetEventManager()

	em.Emit(RegenerateEvent{})
	v.finish(t)
	first, ok := v.world.FirstWithTag("active")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.progress(first.ID).Seed)

	em.Emit(RegenerateEvent{})
	v.finish(t)
	second, ok := v.world.FirstWithTag("active")
	require.True(t, ok)
	assert.Equal(t, int64(43), v.progress(second.ID).Seed)
	assert.Equal(t, []ecs.EntityID{first.ID, second.ID}, v.registry.History())
	assert.Len(t, v.world.GetEntitiesWithTag("active"), 1)

	em.Emit(HistoryEvent{Delta: -1})
	v.world.Update(1.0 / 60)
	assert.Equal(t, first.ID, v.registry.GetActiveMap().ID)
	assert.Equal(t, first.ID, v.gen.Active())
	assert.Equal(t, second.ID, v.registry.GetLastMap().ID)
	assert.Equal(t, second.ID, v.registry.GetMapBySeed(43).ID)

	em.Emit(HistoryEvent{Delta: -5})
	assert.Equal(t, first.ID, v.registry.GetActiveMap().ID)

	em.Emit(RegenerateEvent{Seed: 7})
	v.finish(t)
	assert.Equal(t, int64(7), v.registry.ActiveProgress().Seed)
}

func TestRegistryEvictsOldestRuns(t *testing.T) {
	v := newViewer(testConfig())
	v.registry.MaxMaps = 2

	var ids []ecs.EntityID
	for seed := int64(1); seed <= 3; seed++ {
		ids = append(ids, v.gen.Start(seed))
		v.finish(t)
	}

	assert.Equal(t, ids[1:], v.registry.History())
	assert.Nil(t, v.world.GetEntity(ids[0]))
	assert.Nil(t, v.registry.GetMapBySeed(1))
}

func TestRestartDiscardsRunInProgress(t *testing.T) {
	v := newViewer(testConfig())

	abandoned := v.gen.Start(1)
	v.world.Update(1.0 / 60)
	kept := v.gen.Start(2)
	v.finish(t)

	assert.Nil(t, v.world.GetEntity(abandoned))
	assert.Equal(t, []ecs.EntityID{kept}, v.registry.History())
}

func TestPromoteSelectedExtraRoom(t *testing.T) {
	cfg := testConfig()
	cfg.NumberOfCells = 64
	v := newViewer(cfg)
	em := v.world.GetEventManager()

	assert.ErrorIs(t, v.gen.Promote(), ErrNothingSelected)

	var id ecs.EntityID
	for seed := int64(1); seed <= 20; seed++ {
		id = v.gen.Start(seed)
		v.finish(t)
		if len(v.layout(id).ExtraRooms) > 0 {
			break
		}
	}
	layout := v.layout(id)
	require.NotEmpty(t, layout.ExtraRooms, "no seed produced an extra room")

	assert.ErrorIs(t, v.gen.Promote(), ErrNothingSelected)

	rooms, extras := len(layout.Rooms), len(layout.ExtraRooms)
	em.Emit(SelectExtraEvent{})
	assert.Equal(t, 0, layout.Selected)
	em.Emit(PromoteEvent{})
	v.world.Update(1.0 / 60)

	assert.Len(t, layout.Rooms, rooms+1)
	assert.LessOrEqual(t, len(layout.ExtraRooms), extras-1)
	if len(layout.ExtraRooms) == 0 {
		assert.Equal(t, -1, layout.Selected)
	} else {
		assert.Less(t, layout.Selected, len(layout.ExtraRooms))
	}
	assert.Equal(t, string(generation.StagePromoted), v.progress(id).Stage)
}

func TestCameraSystem(t *testing.T) {
	v := newViewer(testConfig())
	em := v.world.GetEventManager()
	cam, _ := v.world.FirstWithTag("camera")
	comp, _ := v.world.GetComponent(cam.ID, components.Camera)
	camera := comp.(*components.CameraComponent)

	v.gen.Start(0)
	v.finish(t)
	assert.True(t, camera.AutoFit)

	active, _ := v.world.FirstWithTag("active")
	bounds := v.layout(active.ID).Bounds()
	x0, y0 := v.camera.WorldToScreen(float64(bounds.Min.X), float64(bounds.Min.Y))
	x1, y1 := v.camera.WorldToScreen(float64(bounds.Max.X), float64(bounds.Max.Y))
	assert.GreaterOrEqual(t, x0, 0.0)
	assert.GreaterOrEqual(t, y0, 0.0)
	assert.LessOrEqual(t, x1, 800.0)
	assert.LessOrEqual(t, y1, 600.0)

	x, y, zoom := camera.X, camera.Y, camera.Zoom
	em.Emit(PanEvent{DX: 10 * zoom, DY: -20 * zoom})
	assert.False(t, camera.AutoFit)
	assert.InDelta(t, x+10, camera.X, 1e-9)
	assert.InDelta(t, y-20, camera.Y, 1e-9)

	cx, cy := v.camera.ScreenToWorld(400, 300)
	em.Emit(ZoomEvent{Factor: 2})
	assert.InDelta(t, 2*zoom, camera.Zoom, 1e-9)
	nx, ny := v.camera.ScreenToWorld(400, 300)
	assert.InDelta(t, cx, nx, 1e-6)
	assert.InDelta(t, cy, ny, 1e-6)

	em.Emit(ZoomEvent{Factor: 1e6})
	assert.Equal(t, float64(MaxZoom), camera.Zoom)

	v.world.Update(1.0 / 60)
	assert.Equal(t, float64(MaxZoom), camera.Zoom, "no refit after a manual zoom")

	v.gen.Start(0)
	v.world.Update(1.0 / 60)
	assert.True(t, camera.AutoFit)
}

func TestMessageLog(t *testing.T) {
	log := NewMessageLog()
	log.MaxMessages = 3
	for _, m := range []string{"a", "b", "c", "d"} {
		log.Add(m)
	}
	log.AddTyped("e", MessageTypeAlert)

	recent := log.RecentMessages(10)
	require.Len(t, recent, 3)
	assert.Equal(t, "e", recent[0].Text)
	assert.Equal(t, "c", recent[2].Text)
	assert.NotEqual(t, recent[0].GetColor(), recent[1].GetColor())

	log.Clear()
	assert.Empty(t, log.RecentMessages(1))
}

func TestMessageSystemReportsFailures(t *testing.T) {
	cfg := testConfig()
	cfg.NumberOfCells = 1
	cfg.LargestRoomsPercent = 1
	v := newViewer(cfg)

	id := v.gen.Start(0)
	v.finish(t)

	assert.NotEmpty(t, v.progress(id).Err)
	recent := v.log.RecentMessages(1)
	require.Len(t, recent, 1)
	assert.Equal(t, MessageTypeAlert, recent[0].Type)
}

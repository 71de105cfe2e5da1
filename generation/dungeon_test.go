package generation

import (
	"context"
	"testing"
	"time"

	"ebiten-dungeon/components"
	"ebiten-dungeon/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Generation {
	cfg := config.DefaultGeneration()
	cfg.Seed = 42
	return cfg
}

type recorder struct {
	snapshots []Snapshot
}

func (r *recorder) OnStage(s Snapshot) { r.snapshots = append(r.snapshots, s) }

func (r *recorder) stages() []Stage {
	stages := make([]Stage, len(r.snapshots))
	for i, s := range r.snapshots {
		stages[i] = s.Stage
	}
	return stages
}

func assertRoomsReachable(t *testing.T, d *Dungeon) {
	t.Helper()
	start, ok := d.StartingRoomCenter()
	require.True(t, ok)

	floors := floorSet(d.Grid)
	reached := flood(floors, worldToTile(start, d.TileSize))
	for i, c := range d.RoomCenters {
		assert.True(t, reached[worldToTile(c, d.TileSize)], "room %d unreachable from the start", i)
	}
}

// assertFloorConnected checks that every floor tile is reachable from the
// starting room
func assertFloorConnected(t *testing.T, d *Dungeon) {
	t.Helper()
	start, ok := d.StartingRoomCenter()
	require.True(t, ok)

	floors := floorSet(d.Grid)
	reached := flood(floors, worldToTile(start, d.TileSize))
	for p := range floors {
		if !reached[p] {
			assert.Fail(t, "floor tile unreachable from the start", "seed %d tile %v", d.Seed, p)
			return
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := NewDungeonGenerator(testConfig()).Generate(context.Background())
	require.NoError(t, err)
	b, err := NewDungeonGenerator(testConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Cells, b.Cells)
	assert.Equal(t, a.Rooms, b.Rooms)
	assert.Equal(t, a.RoomCenters, b.RoomCenters)
	assert.Equal(t, a.StartingRoomIndex, b.StartingRoomIndex)
	assert.Equal(t, a.Graph, b.Graph)
	assert.Equal(t, a.CorridorEdges, b.CorridorEdges)
	assert.Equal(t, a.Corridors, b.Corridors)
	assert.Equal(t, a.ExtraRooms, b.ExtraRooms)
	assert.Equal(t, a.Grid, b.Grid)
	assert.Equal(t, a.DisplayTiles, b.DisplayTiles)

	cfg := testConfig()
	cfg.Seed = 43
	c, err := NewDungeonGenerator(cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Cells, c.Cells)
}

func TestGenerateProperties(t *testing.T) {
	for _, strategy := range []string{config.SeparatorDiscrete, config.SeparatorPhysics} {
		t.Run(strategy, func(t *testing.T) {
			cfg := testConfig()
			cfg.NumberOfCells = 40
			cfg.Separation.Strategy = strategy

			d, err := NewDungeonGenerator(cfg).Generate(context.Background())
			require.NoError(t, err)

			require.Len(t, d.Cells, 40)
			assert.Len(t, d.Rooms, 10)
			assert.Len(t, d.RoomCenters, len(d.Rooms))
			assert.Len(t, d.Graph.MST, len(d.Rooms)-1)
			assert.Equal(t, len(d.Graph.MST)+len(d.Graph.Loops), len(d.CorridorEdges))

			for _, c := range append(d.Cells, d.Corridors...) {
				assert.Zero(t, c.X%cfg.TileSize)
				assert.Zero(t, c.Y%cfg.TileSize)
			}
			for _, c := range d.RoomCenters {
				assert.Zero(t, c.X%cfg.TileSize)
				assert.Zero(t, c.Y%cfg.TileSize)
			}
			for _, extra := range d.ExtraRooms {
				assert.NotContains(t, d.Rooms, extra)
				assert.NotContains(t, d.Corridors, extra)
			}

			assertClosed(t, d.Grid)
			assertRoomsReachable(t, d)
			assertFloorConnected(t, d)
		})
	}
}

func TestGenerateFloorConnected(t *testing.T) {
	seeds := []int64{32, 124, 163}
	if !testing.Short() {
		for seed := int64(1); seed <= 200; seed++ {
			seeds = append(seeds, seed)
		}
	}

	for _, seed := range seeds {
		cfg := config.DefaultGeneration()
		cfg.Seed = seed
		d, err := NewDungeonGenerator(cfg).Generate(context.Background())
		require.NoError(t, err, "seed %d", seed)

		assertRoomsReachable(t, d)
		assertFloorConnected(t, d)
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TileSize = 0
	gen := NewDungeonGenerator(cfg)

	for _, tc := range []struct {
		name string
		run  func() (*Dungeon, error)
	}{
		{"generate", func() (*Dungeon, error) { return gen.Generate(context.Background()) }},
		{"from cells", func() (*Dungeon, error) { return gen.GenerateFromCells(context.Background(), spreadCells()) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, err := tc.run()
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Nil(t, d)
		})
	}
}

func TestGenerateSingleRoom(t *testing.T) {
	cfg := testConfig()
	cfg.NumberOfCells = 1
	cfg.LargestRoomsPercent = 1

	d, err := NewDungeonGenerator(cfg).Generate(context.Background())
	require.ErrorIs(t, err, ErrNotEnoughRooms)
	require.NotNil(t, d)

	require.Len(t, d.Rooms, 1)
	assert.Empty(t, d.CorridorEdges)
	assert.Empty(t, d.Corridors)
	assert.Equal(t, 0, d.StartingRoomIndex)

	w, h := d.Rooms[0].Width/cfg.TileSize, d.Rooms[0].Height/cfg.TileSize
	assert.Equal(t, w*h, d.Grid.Count(components.TileFloor))
	assert.Equal(t, 2*(w+2)+2*h, d.Grid.Count(components.TileWall), "a single walled rectangle")
	assert.Zero(t, d.Grid.Count(components.TileNone))
	assertClosed(t, d.Grid)
}

func spreadCells() []Cell {
	return []Cell{
		{X: 0, Y: 0, Width: 160, Height: 160},
		{X: 480, Y: 0, Width: 160, Height: 160},
		{X: 0, Y: 480, Width: 160, Height: 160},
		{X: 480, Y: 480, Width: 160, Height: 160},
		{X: 240, Y: 960, Width: 160, Height: 160},
	}
}

func TestGenerateFromSpreadCells(t *testing.T) {
	cfg := testConfig()
	cfg.LargestRoomsPercent = 1

	d, err := NewDungeonGenerator(cfg).GenerateFromCells(context.Background(), spreadCells())
	require.NoError(t, err)

	assert.Equal(t, spreadCells(), d.Cells, "nothing overlaps so nothing moves")
	assert.Len(t, d.Rooms, 5)
	assert.Len(t, d.Graph.MST, 4)
	assert.False(t, d.Graph.UsedCompleteGraph)
	assertRoomsReachable(t, d)
	assertClosed(t, d.Grid)
}

func TestGenerateTwoRooms(t *testing.T) {
	cfg := testConfig()
	cfg.LargestRoomsPercent = 1
	cells := []Cell{
		{X: 0, Y: 0, Width: 160, Height: 160},
		{X: 480, Y: 0, Width: 160, Height: 160},
	}

	d, err := NewDungeonGenerator(cfg).GenerateFromCells(context.Background(), cells)
	require.NoError(t, err)

	assert.True(t, d.Graph.UsedCompleteGraph)
	assert.Equal(t, []Edge{NewEdge(0, 1, d.RoomCenters)}, d.Graph.MST)
	assert.Empty(t, d.Graph.Loops)
	assertRoomsReachable(t, d)
}

func TestGenerateStackedCells(t *testing.T) {
	for _, strategy := range []string{config.SeparatorDiscrete, config.SeparatorPhysics} {
		t.Run(strategy, func(t *testing.T) {
			cfg := testConfig()
			cfg.LargestRoomsPercent = 0.5
			cfg.Separation.Strategy = strategy
			cfg.Separation.Timeout = time.Second

			done := make(chan struct{})
			var d *Dungeon
			go func() {
				defer close(done)
				d, _ = NewDungeonGenerator(cfg).GenerateFromCells(context.Background(), stackedCells(8))
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("separation did not terminate")
			}
			require.NotNil(t, d)
			assert.Len(t, d.Rooms, 4)
		})
	}
}

func TestGenerateObserver(t *testing.T) {
	rec := &recorder{}
	cfg := testConfig()
	cfg.NumberOfCells = 20

	d, err := NewDungeonGenerator(cfg, WithObserver(rec)).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Stage{
		StageScattered, StageSeparated, StageRooms, StageGraph,
		StageCorridors, StageExtraRooms, StageRasterized,
	}, rec.stages())

	for _, s := range rec.snapshots {
		assert.Equal(t, d.RunID, s.RunID)
	}

	// snapshots are copies
	last := rec.snapshots[len(rec.snapshots)-1]
	require.NotEmpty(t, last.Cells)
	last.Cells[0].X += 1000
	last.Grid.Set(last.Grid.OriginX, last.Grid.OriginY, components.Tile{Type: components.TileFloor})
	assert.NotEqual(t, last.Cells[0], d.Cells[0])
	assert.NotEqual(t, components.TileFloor, d.Grid.TypeAt(d.Grid.OriginX, d.Grid.OriginY))
}

func TestGenerateObserverDoesNotChangeOutcome(t *testing.T) {
	mutate := ObserverFunc(func(s Snapshot) {
		for i := range s.Rooms {
			s.Rooms[i].X = -1
		}
	})

	a, err := NewDungeonGenerator(testConfig(), WithObserver(mutate)).Generate(context.Background())
	require.NoError(t, err)
	b, err := NewDungeonGenerator(testConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, b.Rooms, a.Rooms)
	assert.Equal(t, b.Grid, a.Grid)
}

func TestGeneratePhysicsProgress(t *testing.T) {
	rec := &recorder{}
	cfg := testConfig()
	cfg.NumberOfCells = 12
	cfg.Separation.Strategy = config.SeparatorPhysics
	cfg.Separation.ProgressEvery = 1

	_, err := NewDungeonGenerator(cfg, WithObserver(rec)).Generate(context.Background())
	require.NoError(t, err)

	step := 0
	for _, s := range rec.snapshots {
		if s.Stage != StageSeparating {
			continue
		}
		assert.Greater(t, s.Step, step)
		step = s.Step
		assert.Len(t, s.Cells, 12)
	}
	assert.Positive(t, step, "at least one progress snapshot")
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDungeonGenerator(testConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithSeparator(t *testing.T) {
	cfg := testConfig()
	cfg.LargestRoomsPercent = 1
	cells := []Cell{
		{X: 0, Y: 0, Width: 160, Height: 160},
		{X: 16, Y: 0, Width: 160, Height: 160},
	}

	d, err := NewDungeonGenerator(cfg, WithSeparator(Presettled)).GenerateFromCells(context.Background(), cells)
	require.NoError(t, err)
	assert.Equal(t, cells, d.Cells)

	called := 0
	counting := SeparatorFunc(func(ctx context.Context, cells []Cell) []Cell {
		called++
		return DiscreteSeparator{TileSize: 16, MaxIterations: 100}.Separate(ctx, cells)
	})
	d, err = NewDungeonGenerator(cfg, WithSeparator(counting)).GenerateFromCells(context.Background(), cells)
	require.NoError(t, err)
	assert.Equal(t, 1, called)
	assert.Zero(t, Overlaps(d.Cells))
}

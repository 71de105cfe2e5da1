package protocol

import (
	"ebiten-dungeon/components"
	"ebiten-dungeon/generation"
)

// Envelope types
const (
	TypeStage   = "Stage"
	TypeDungeon = "Dungeon"
	TypeError   = "Error"
)

// Envelope is one message streamed to clients
type Envelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	RunID    string `json:"runId"`
	Stage    string `json:"stage,omitempty"`
	Payload  any    `json:"payload"`
}

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Edge struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Distance float64 `json:"distance"`
}

// Grid is a rasterized grid as one string per row, see Glyph
type Grid struct {
	OriginX int      `json:"originX"`
	OriginY int      `json:"originY"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Rows    []string `json:"rows"`
}

type StageChanged struct {
	Step         int     `json:"step,omitempty"`
	Cells        []Rect  `json:"cells"`
	Rooms        []Rect  `json:"rooms,omitempty"`
	RoomCenters  []Point `json:"roomCenters,omitempty"`
	StartingRoom int     `json:"startingRoom"`
	Edges        []Edge  `json:"edges,omitempty"`
	Corridors    []Rect  `json:"corridors,omitempty"`
	ExtraRooms   []Rect  `json:"extraRooms,omitempty"`
	Grid         *Grid   `json:"grid,omitempty"`
}

type DungeonReady struct {
	Seed             int64   `json:"seed"`
	TileSize         int     `json:"tileSize"`
	Cells            []Rect  `json:"cells"`
	Rooms            []Rect  `json:"rooms"`
	RoomCenters      []Point `json:"roomCenters"`
	StartingRoom     int     `json:"startingRoom"`
	MST              []Edge  `json:"mst"`
	Loops            []Edge  `json:"loops"`
	Corridors        []Rect  `json:"corridors"`
	ExtraRooms       []Rect  `json:"extraRooms"`
	ExtraRoomCenters []Point `json:"extraRoomCenters"`
	Grid             Grid    `json:"grid"`
}

type ErrorRaised struct {
	Message string `json:"message"`
}

// Grid glyphs
const (
	GlyphNone     = ' '
	GlyphFloor    = '.'
	GlyphCorridor = ','
	GlyphOpening  = '+'
	GlyphWall     = '#'
)

// Glyph is the character a tile is encoded as
func Glyph(t components.Tile) rune {
	switch {
	case t.Type == components.TileWall:
		return GlyphWall
	case t.Type != components.TileFloor:
		return GlyphNone
	case t.Opening:
		return GlyphOpening
	case t.Corridor:
		return GlyphCorridor
	}
	return GlyphFloor
}

// EncodeGrid turns a tile grid into glyph rows
func EncodeGrid(g *components.TileGrid) Grid {
	if g == nil {
		return Grid{}
	}
	out := Grid{OriginX: g.OriginX, OriginY: g.OriginY, Width: g.Width, Height: g.Height}
	out.Rows = make([]string, len(g.Tiles))
	row := make([]rune, g.Width)
	for y, tiles := range g.Tiles {
		for x, t := range tiles {
			row[x] = Glyph(t)
		}
		out.Rows[y] = string(row)
	}
	return out
}

// DecodeGrid rebuilds tile types and flags from glyph rows. Autotile
// variants are not encoded.
func DecodeGrid(in Grid) *components.TileGrid {
	g := components.NewTileGrid(in.OriginX, in.OriginY, in.Width, in.Height)
	for y, row := range in.Rows {
		x := 0
		for _, r := range row {
			var t components.Tile
			switch r {
			case GlyphWall:
				t.Type = components.TileWall
			case GlyphFloor:
				t.Type = components.TileFloor
			case GlyphCorridor:
				t = components.Tile{Type: components.TileFloor, Corridor: true}
			case GlyphOpening:
				t = components.Tile{Type: components.TileFloor, Opening: true}
			}
			g.Set(x+in.OriginX, y+in.OriginY, t)
			x++
		}
	}
	return g
}

func rects(cells []generation.Cell) []Rect {
	if cells == nil {
		return nil
	}
	out := make([]Rect, len(cells))
	for i, c := range cells {
		out[i] = Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
	}
	return out
}

func points(ps []generation.Point) []Point {
	if ps == nil {
		return nil
	}
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func edges(es []generation.Edge) []Edge {
	if es == nil {
		return nil
	}
	out := make([]Edge, len(es))
	for i, e := range es {
		out[i] = Edge{A: e.A, B: e.B, Distance: e.Distance}
	}
	return out
}

// FromSnapshot converts an observer snapshot
func FromSnapshot(s generation.Snapshot) StageChanged {
	out := StageChanged{
		Step:         s.Step,
		Cells:        rects(s.Cells),
		Rooms:        rects(s.Rooms),
		RoomCenters:  points(s.RoomCenters),
		StartingRoom: s.StartingRoomIndex,
		Edges:        edges(s.Edges),
		Corridors:    rects(s.Corridors),
		ExtraRooms:   rects(s.ExtraRooms),
	}
	if s.Grid != nil {
		g := EncodeGrid(s.Grid)
		out.Grid = &g
	}
	return out
}

// FromDungeon converts a finished dungeon
func FromDungeon(d *generation.Dungeon) DungeonReady {
	return DungeonReady{
		Seed:             d.Seed,
		TileSize:         d.TileSize,
		Cells:            rects(d.Cells),
		Rooms:            rects(d.Rooms),
		RoomCenters:      points(d.RoomCenters),
		StartingRoom:     d.StartingRoomIndex,
		MST:              edges(d.Graph.MST),
		Loops:            edges(d.Graph.Loops),
		Corridors:        rects(d.Corridors),
		ExtraRooms:       rects(d.ExtraRooms),
		ExtraRoomCenters: points(d.ExtraRoomCenters),
		Grid:             EncodeGrid(d.Grid),
	}
}

// StageEnvelope wraps a snapshot
func StageEnvelope(seq uint64, s generation.Snapshot) Envelope {
	return Envelope{Sequence: seq, Type: TypeStage, RunID: s.RunID, Stage: string(s.Stage), Payload: FromSnapshot(s)}
}

// DungeonEnvelope wraps a finished dungeon
func DungeonEnvelope(seq uint64, d *generation.Dungeon) Envelope {
	return Envelope{Sequence: seq, Type: TypeDungeon, RunID: d.RunID, Payload: FromDungeon(d)}
}

// ErrorEnvelope wraps a failed run
func ErrorEnvelope(seq uint64, runID string, err error) Envelope {
	return Envelope{Sequence: seq, Type: TypeError, RunID: runID, Payload: ErrorRaised{Message: err.Error()}}
}

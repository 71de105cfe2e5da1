package components

import (
	"ebiten-dungeon/ecs"
)

// Component IDs for the dungeon viewer
const (
	Layout     ecs.ComponentID = iota
	TileMap                    // rasterized grid of the current dungeon
	Appearance                 // glyph and colour per tile variant
	Camera                     // Camera component for viewport management
	Progress                   // pipeline stage and separation progress
)

package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ebiten-dungeon/generation"

	"github.com/gdamore/tcell/v2"
)

// App is the terminal dungeon browser: n/p step through seeds, e promotes
// the first extra room, arrows pan and q quits.
type App struct {
	screen    tcell.Screen
	renderer  *Renderer
	generator *generation.DungeonGenerator
	logger    *slog.Logger

	dungeon *generation.Dungeon
	err     error
}

func NewApp(screen tcell.Screen, generator *generation.DungeonGenerator, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		screen:    screen,
		renderer:  NewRenderer(screen, nil),
		generator: generator,
		logger:    logger,
	}
}

// Dungeon returns the dungeon currently shown
func (a *App) Dungeon() *generation.Dungeon { return a.dungeon }

func (a *App) Renderer() *Renderer { return a.renderer }

// Generate replaces the shown dungeon with the one for seed
func (a *App) Generate(ctx context.Context, seed int64) {
	a.generator.SetSeed(seed)
	d, err := a.generator.Generate(ctx)
	a.dungeon, a.err = d, err
	if err != nil {
		a.logger.Warn("generation failed", "seed", seed, "error", err)
	}
	if d != nil {
		a.renderer.Center(d.Grid)
	}
}

func (a *App) status() string {
	if a.dungeon == nil {
		return "no dungeon"
	}
	d := a.dungeon
	s := fmt.Sprintf("seed %d  rooms %d  extra %d  corridors %d", d.Seed, len(d.Rooms), len(d.ExtraRooms), len(d.Corridors))
	if a.err != nil {
		s += "  " + a.err.Error()
	}
	return s + "  [n/p seed, e promote, arrows pan, q quit]"
}

func (a *App) draw() {
	if a.dungeon == nil {
		a.renderer.Draw(nil, a.status())
		return
	}
	a.renderer.Draw(a.dungeon.Grid, a.status())
}

// Run draws and handles input until the user quits, the screen is finalized
// or ctx is done. The screen must already be initialized.
func (a *App) Run(ctx context.Context) error {
	if a.dungeon == nil {
		a.Generate(ctx, a.generator.Seed())
	}

	stop := context.AfterFunc(ctx, func() {
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		a.draw()

		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if !a.handleKey(ctx, ev) {
				return nil
			}
		}
	}
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.renderer.Pan(-1, 0)
	case tcell.KeyRight:
		a.renderer.Pan(1, 0)
	case tcell.KeyUp:
		a.renderer.Pan(0, -1)
	case tcell.KeyDown:
		a.renderer.Pan(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'n':
			a.Generate(ctx, a.generator.Seed()+1)
		case 'p':
			a.Generate(ctx, a.generator.Seed()-1)
		case 'e':
			a.promote()
		}
	}
	return true
}

func (a *App) promote() {
	if a.dungeon == nil {
		return
	}
	err := a.dungeon.PromoteExtraRoom(0)
	switch {
	case errors.Is(err, generation.ErrCandidateOutOfRange):
		a.logger.Info("no extra rooms left")
	case err != nil:
		a.logger.Warn("promotion failed", "error", err)
	}
}

package screens

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrClose is returned from Update by a screen that wants to be popped
var ErrClose = errors.New("close screen")

// Screen represents a screen that can be pushed onto the screen stack
type Screen interface {
	// Update updates the screen state
	Update() error
	// Draw draws the screen
	Draw(screen *ebiten.Image)
	// Layout handles screen layout
	Layout(outsideWidth, outsideHeight int) (int, int)
}

// ScreenStack manages a stack of screens. It implements ebiten.Game.
type ScreenStack struct {
	screens []Screen
}

// NewScreenStack creates a new screen stack
func NewScreenStack(screens ...Screen) *ScreenStack {
	return &ScreenStack{screens: screens}
}

// Push adds a new screen to the top of the stack
func (s *ScreenStack) Push(screen Screen) {
	s.screens = append(s.screens, screen)
}

// Pop removes the top screen from the stack
func (s *ScreenStack) Pop() Screen {
	if len(s.screens) == 0 {
		return nil
	}
	top := s.screens[len(s.screens)-1]
	s.screens = s.screens[:len(s.screens)-1]
	return top
}

// Peek returns the top screen without removing it
func (s *ScreenStack) Peek() Screen {
	if len(s.screens) == 0 {
		return nil
	}
	return s.screens[len(s.screens)-1]
}

func (s *ScreenStack) Len() int { return len(s.screens) }

// Update updates the top screen only, so screens below are paused. A top
// screen returning ErrClose is popped; closing the last one ends the game.
func (s *ScreenStack) Update() error {
	top := s.Peek()
	if top == nil {
		return ebiten.Termination
	}
	err := top.Update()
	if errors.Is(err, ErrClose) {
		s.Pop()
		if s.Len() == 0 {
			return ebiten.Termination
		}
		return nil
	}
	return err
}

// Draw draws all screens from bottom to top
func (s *ScreenStack) Draw(screen *ebiten.Image) {
	for _, scr := range s.screens {
		scr.Draw(screen)
	}
}

// Layout passes the window size to every screen and returns the top
// screen's layout
func (s *ScreenStack) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := outsideWidth, outsideHeight
	for _, scr := range s.screens {
		w, h = scr.Layout(outsideWidth, outsideHeight)
	}
	return w, h
}

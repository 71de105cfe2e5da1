package screens

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const lineHeight = 16

// ModalScreen represents a popup window that appears on top of other
// screens. Any of its close keys dismisses it.
type ModalScreen struct {
	title      string
	lines      []string
	width      int
	background color.Color
	border     color.Color
	closeKeys  []ebiten.Key
}

// NewModalScreen creates a new modal screen. Escape always closes it.
func NewModalScreen(title string, lines []string, width int, closeKeys ...ebiten.Key) *ModalScreen {
	return &ModalScreen{
		title:      title,
		lines:      lines,
		width:      width,
		background: color.RGBA{0, 0, 0, 200}, // Semi-transparent black
		border:     color.White,
		closeKeys:  append([]ebiten.Key{ebiten.KeyEscape}, closeKeys...),
	}
}

// Update implements the Screen interface
func (s *ModalScreen) Update() error {
	for _, key := range s.closeKeys {
		if inpututil.IsKeyJustPressed(key) {
			return ErrClose
		}
	}
	return nil
}

// Draw implements the Screen interface
func (s *ModalScreen) Draw(screen *ebiten.Image) {
	height := lineHeight*(len(s.lines)+2) + 20
	bounds := screen.Bounds()
	x := float32(bounds.Dx()-s.width) / 2
	y := float32(bounds.Dy()-height) / 2

	vector.DrawFilledRect(screen, x, y, float32(s.width), float32(height), s.background, false)
	vector.StrokeRect(screen, x, y, float32(s.width), float32(height), 1, s.border, false)

	titleX := int(x) + (s.width-len(s.title)*6)/2 // Approximate text width
	ebitenutil.DebugPrintAt(screen, s.title, titleX, int(y)+10)
	ebitenutil.DebugPrintAt(screen, strings.Join(s.lines, "\n"), int(x)+10, int(y)+10+2*lineHeight)
}

// Layout implements the Screen interface
func (s *ModalScreen) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

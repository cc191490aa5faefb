package engine

import (
	"fmt"
	"strings"

	"github.com/vectorpad/vectorpad/internal/shape"
)

// Mode decides what a pointer gesture on the canvas does.
type Mode int

const (
	ModeSelect Mode = iota
	ModeDrawLine
	ModeDrawRect
	ModeDrawCircle
)

var modeNames = map[Mode]string{
	ModeSelect:     "select",
	ModeDrawLine:   "draw-line",
	ModeDrawRect:   "draw-rect",
	ModeDrawCircle: "draw-circle",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Drawing reports whether the mode creates shapes.
func (m Mode) Drawing() bool {
	return m == ModeDrawLine || m == ModeDrawRect || m == ModeDrawCircle
}

// ParseMode accepts the names returned by Mode.String. Underscores may be
// used in place of hyphens.
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return ModeSelect, fmt.Errorf("unknown mode %q", s)
}

// newPreview creates the degenerate shape a draw gesture starts from.
func newPreview(m Mode, x, y float64) shape.Shape {
	switch m {
	case ModeDrawLine:
		return shape.NewLine(x, y, x, y)
	case ModeDrawRect:
		return shape.NewRect(x, y, x, y)
	case ModeDrawCircle:
		return shape.NewCircle(x, y, 0)
	}
	return nil
}

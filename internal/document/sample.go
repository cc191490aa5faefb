package document

import (
	"github.com/vectorpad/vectorpad/internal/shape"
)

// NewSample returns a small drawing used to try the editor out.
func NewSample() *Document {
	d := New()

	frame := shape.NewRect(40, 40, 360, 260)
	_ = frame.SetStyle("#2d3436", 3)
	d.Append(frame)

	sun := shape.NewCircle(290, 110, 40)
	_ = sun.SetStyle("orange", 2)
	sun.SetFill("gold")
	d.Append(sun)

	hill := shape.NewRect(40, 200, 360, 260)
	_ = hill.SetStyle("darkgreen", 1)
	hill.SetFill("forestgreen")
	d.Append(hill)

	horizon := shape.NewLine(40, 200, 360, 200)
	_ = horizon.SetStyle("steelblue", 2)
	d.Append(horizon)

	return d
}

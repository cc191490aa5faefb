package render

import (
	"encoding/json"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string    `json:"op"` // Operation: "line", "rect", "oval"
	X1          float64   `json:"x1"`
	Y1          float64   `json:"y1"`
	X2          float64   `json:"x2"`
	Y2          float64   `json:"y2"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Fill        string    `json:"fill,omitempty"`
}

// Recorder is a Surface that captures draw calls in painter's order.
type Recorder struct {
	commands []DrawCommand
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, pen Pen) {
	r.add("line", x1, y1, x2, y2, pen, "")
}

func (r *Recorder) Rect(x1, y1, x2, y2 float64, pen Pen, fill string) {
	r.add("rect", x1, y1, x2, y2, pen, fill)
}

func (r *Recorder) Oval(x1, y1, x2, y2 float64, pen Pen, fill string) {
	r.add("oval", x1, y1, x2, y2, pen, fill)
}

func (r *Recorder) add(op string, x1, y1, x2, y2 float64, pen Pen, fill string) {
	var dash []float64
	if len(pen.Dash) > 0 {
		dash = append([]float64(nil), pen.Dash...)
	}
	r.commands = append(r.commands, DrawCommand{
		Op:          op,
		X1:          x1,
		Y1:          y1,
		X2:          x2,
		Y2:          y2,
		Stroke:      pen.Color,
		StrokeWidth: pen.Width,
		Dash:        dash,
		Fill:        fill,
	})
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// CommandsToJSON serializes draw commands to JSON.
func CommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

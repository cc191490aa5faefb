package shape

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/vectorpad/vectorpad/internal/render"
)

func TestBoundingBoxFollowsMove(t *testing.T) {
	shapes := []Shape{
		NewLine(30, 40, 10, 5),
		NewRect(50, 10, 20, 60),
		NewCircle(100, 100, 25),
	}
	for _, s := range shapes {
		before := s.BoundingBox()
		s.Move(7, -3)
		after := s.BoundingBox()
		want := Box{X1: before.X1 + 7, Y1: before.Y1 - 3, X2: before.X2 + 7, Y2: before.Y2 - 3}
		if after != want {
			t.Errorf("%s: bbox after move = %+v, want %+v", s.Kind(), after, want)
		}
	}
}

func TestBoundingBoxNormalises(t *testing.T) {
	r := NewRect(50, 60, 10, 20)
	if got, want := r.BoundingBox(), (Box{X1: 10, Y1: 20, X2: 50, Y2: 60}); got != want {
		t.Errorf("rect bbox = %+v, want %+v", got, want)
	}
	c := NewCircle(10, 10, 4)
	if got, want := c.BoundingBox(), (Box{X1: 6, Y1: 6, X2: 14, Y2: 14}); got != want {
		t.Errorf("circle bbox = %+v, want %+v", got, want)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	line := NewLine(1.5, 2, 3, 4.25)
	if err := line.SetStyle("red", 3); err != nil {
		t.Fatal(err)
	}
	rect := NewRect(10, 20, 5, 1)
	rect.SetFill("yellow")
	circle := NewCircle(50, 60, 12.5)
	if err := circle.SetStyle("#00ff00", 0.5); err != nil {
		t.Fatal(err)
	}

	for _, s := range []Shape{line, rect, circle} {
		data, err := json.Marshal(s.Record())
		if err != nil {
			t.Fatalf("%s: marshal: %v", s.Kind(), err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			t.Fatalf("%s: unmarshal: %v", s.Kind(), err)
		}
		got, err := Decode(rec)
		if err != nil {
			t.Fatalf("%s: decode: %v", s.Kind(), err)
		}
		if got.Kind() != s.Kind() {
			t.Errorf("kind = %s, want %s", got.Kind(), s.Kind())
		}
		if !reflect.DeepEqual(got.Fields(), s.Fields()) {
			t.Errorf("%s: fields = %v, want %v", s.Kind(), got.Fields(), s.Fields())
		}
		if got.Color() != s.Color() || got.Width() != s.Width() {
			t.Errorf("%s: style = %s/%v, want %s/%v", s.Kind(), got.Color(), got.Width(), s.Color(), s.Width())
		}
		if f, ok := s.(Filler); ok {
			if gf := got.(Filler).Fill(); gf != f.Fill() {
				t.Errorf("%s: fill = %q, want %q", s.Kind(), gf, f.Fill())
			}
		}
	}
}

func TestRecordFieldsPerVariant(t *testing.T) {
	data, err := json.Marshal(NewLine(0, 0, 1, 1).Record())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["fill"]; ok {
		t.Errorf("line record has a fill: %s", data)
	}

	data, err = json.Marshal(NewCircle(0, 0, 1).Record())
	if err != nil {
		t.Fatal(err)
	}
	m = nil
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"type", "cx", "cy", "r", "color", "width", "fill"} {
		if _, ok := m[key]; !ok {
			t.Errorf("circle record missing %q: %s", key, data)
		}
	}
	if _, ok := m["x1"]; ok {
		t.Errorf("circle record has x1: %s", data)
	}
}

func TestDecodeDefaults(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"type":"rect","x1":1,"y1":2,"x2":3,"y2":4}`), &rec); err != nil {
		t.Fatal(err)
	}
	s, err := Decode(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Color() != "black" || s.Width() != 2 || s.(Filler).Fill() != "" {
		t.Errorf("defaults = %s/%v/%q", s.Color(), s.Width(), s.(Filler).Fill())
	}
	if s.Selected() {
		t.Error("decoded shape is selected")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing type", `{"x1":1}`, "type"},
		{"unknown type", `{"type":"triangle"}`, "type"},
		{"missing geometry", `{"type":"line","x1":1,"y1":2,"x2":3}`, "y2"},
		{"missing radius", `{"type":"circle","cx":1,"cy":2}`, "r"},
		{"zero width", `{"type":"line","x1":1,"y1":2,"x2":3,"y2":4,"width":0}`, "width"},
		{"negative radius", `{"type":"circle","cx":1,"cy":2,"r":-1}`, "r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Record
			if err := json.Unmarshal([]byte(tt.input), &rec); err != nil {
				t.Fatal(err)
			}
			_, err := Decode(rec)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Decode() error = %v, want *FormatError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("field = %q, want %q", fe.Field, tt.field)
			}
			if fe.Index != -1 {
				t.Errorf("index = %d, want -1", fe.Index)
			}
		})
	}
}

func TestCircleResizeFloor(t *testing.T) {
	c := NewCircle(10, 10, 20)
	c.Resize(0, 10, 10)
	if c.R != MinRadius {
		t.Errorf("r = %v, want %v", c.R, float64(MinRadius))
	}
	c.Resize(0, 11, 10)
	if c.R != MinRadius {
		t.Errorf("r = %v, want %v", c.R, float64(MinRadius))
	}
	c.Resize(7, 13, 14)
	if c.R != 5 {
		t.Errorf("r = %v, want 5", c.R)
	}

	c.Stretch(10, 10)
	if c.R != 0 {
		t.Errorf("stretch r = %v, want 0", c.R)
	}
}

func TestLineContainsSymmetric(t *testing.T) {
	a := NewLine(0, 0, 100, 50)
	b := NewLine(100, 50, 0, 0)
	points := []Point{{50, 25}, {50, 30}, {50, 40}, {-3, 0}, {-10, 0}, {104, 52}, {120, 60}, {0, 7}}
	for _, p := range points {
		if a.ContainsPoint(p.X, p.Y) != b.ContainsPoint(p.X, p.Y) {
			t.Errorf("asymmetric at %+v", p)
		}
	}
}

func TestLineContainsPoint(t *testing.T) {
	l := NewLine(0, 0, 100, 0)
	tests := []struct {
		x, y float64
		want bool
	}{
		{50, 0, true},
		{50, 5, true},
		{50, 6, true},
		{50, 7, false},
		{-5, 0, true},
		{-7, 0, false},
	}
	for _, tt := range tests {
		if got := l.ContainsPoint(tt.x, tt.y); got != tt.want {
			t.Errorf("ContainsPoint(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	thick := NewLine(0, 0, 100, 0)
	if err := thick.SetStyle("black", 10); err != nil {
		t.Fatal(err)
	}
	if !thick.ContainsPoint(50, 13) {
		t.Error("thick line should accept width+3 tolerance")
	}

	dot := NewLine(10, 10, 10, 10)
	if !dot.ContainsPoint(15, 5) || dot.ContainsPoint(16, 10) {
		t.Error("degenerate line tolerance is 5 on each axis")
	}
}

func TestRectAndCircleContainsPoint(t *testing.T) {
	r := NewRect(40, 40, 10, 10)
	if !r.ContainsPoint(25, 25) {
		t.Error("hollow rect interior should hit")
	}
	if !r.ContainsPoint(10, 40) {
		t.Error("rect edge is inclusive")
	}
	if r.ContainsPoint(9, 25) {
		t.Error("outside rect should miss")
	}

	c := NewCircle(0, 0, 10)
	if !c.ContainsPoint(16, 0) {
		t.Error("circle tolerance is r + 6")
	}
	if c.ContainsPoint(17, 0) {
		t.Error("beyond tolerance should miss")
	}
}

func TestRectHandleResize(t *testing.T) {
	r := NewRect(10, 10, 50, 40)
	handles := r.Handles()
	want := []Point{{10, 10}, {50, 10}, {50, 40}, {10, 40}}
	if !reflect.DeepEqual(handles, want) {
		t.Fatalf("handles = %v, want %v", handles, want)
	}

	r.Resize(2, 70, 80)
	if got := r.BoundingBox(); got != (Box{X1: 10, Y1: 10, X2: 70, Y2: 80}) {
		t.Errorf("after handle 2: bbox = %+v", got)
	}
	r.Resize(0, 0, 5)
	if got := r.BoundingBox(); got != (Box{X1: 0, Y1: 5, X2: 70, Y2: 80}) {
		t.Errorf("after handle 0: bbox = %+v", got)
	}
	r.Resize(1, 90, 1)
	r.Resize(3, -5, 100)
	if got := r.Fields(); !reflect.DeepEqual(got, []float64{-5, 1, 90, 100}) {
		t.Errorf("after handles 1 and 3: fields = %v", got)
	}

	r.Resize(4, 1000, 1000)
	if got := r.Fields(); !reflect.DeepEqual(got, []float64{-5, 1, 90, 100}) {
		t.Errorf("unknown handle changed fields: %v", got)
	}
}

func TestLineResize(t *testing.T) {
	l := NewLine(0, 0, 10, 10)
	l.Resize(0, 1, 2)
	l.Resize(1, 3, 4)
	if got := l.Fields(); !reflect.DeepEqual(got, []float64{1, 2, 3, 4}) {
		t.Errorf("fields = %v", got)
	}
	l.Resize(9, 5, 6)
	if l.X2 != 5 || l.Y2 != 6 {
		t.Errorf("non-zero handle should move the end point: %v", l.Fields())
	}
}

func TestRenderSelectedDrawsHandles(t *testing.T) {
	rec := render.NewRecorder()
	r := NewRect(0, 0, 20, 20)
	r.Render(rec)
	if n := len(rec.Commands()); n != 1 {
		t.Fatalf("unselected render issued %d commands, want 1", n)
	}

	rec.Reset()
	r.SetSelected(true)
	r.Render(rec)
	cmds := rec.Commands()
	if len(cmds) != 5 {
		t.Fatalf("selected render issued %d commands, want 5", len(cmds))
	}
	h := cmds[1]
	if h.Op != "rect" || h.Stroke != HandleColor || h.X1 != -HandleSize || h.X2 != HandleSize {
		t.Errorf("handle marker = %+v", h)
	}

	rec.Reset()
	c := NewCircle(10, 10, 5)
	c.SetFill("red")
	c.Render(rec)
	if got := rec.Commands()[0]; got.Op != "oval" || got.Fill != "red" || got.X1 != 5 || got.Y2 != 15 {
		t.Errorf("circle command = %+v", got)
	}
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		fields []float64
		style  Style
		field  string
	}{
		{"too few", KindLine, []float64{1, 2, 3}, DefaultStyle(), "fields"},
		{"too many", KindCircle, []float64{1, 2, 3, 4}, DefaultStyle(), "fields"},
		{"negative radius", KindCircle, []float64{1, 2, -3}, DefaultStyle(), "r"},
		{"zero width", KindRect, []float64{1, 2, 3, 4}, Style{Color: "red"}, "width"},
		{"unknown kind", Kind("poly"), []float64{1}, DefaultStyle(), "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.kind, tt.fields, tt.style)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("New() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}

	s, err := New(KindRect, []float64{1, 2, 3, 4}, Style{Width: 4, Fill: "blue"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Color() != DefaultColor || s.Width() != 4 || s.(Filler).Fill() != "blue" {
		t.Errorf("style = %s/%v/%s", s.Color(), s.Width(), s.(Filler).Fill())
	}
}

func TestSetFieldsLeavesShapeOnError(t *testing.T) {
	c := NewCircle(1, 2, 3)
	if err := c.SetFields([]float64{4, 5, -6}); err == nil {
		t.Fatal("expected error for negative radius")
	}
	if got := c.Fields(); !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Errorf("fields changed on error: %v", got)
	}
	if err := c.SetStyle("red", -1); err == nil {
		t.Fatal("expected error for negative width")
	}
	if c.Color() != DefaultColor || c.Width() != DefaultWidth {
		t.Errorf("style changed on error: %s/%v", c.Color(), c.Width())
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("circle"); err != nil || k != KindCircle {
		t.Errorf("ParseKind(circle) = %v, %v", k, err)
	}
	if _, err := ParseKind("square"); err == nil {
		t.Error("ParseKind(square) should fail")
	}
}

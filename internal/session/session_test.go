package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/vectorpad/vectorpad/internal/engine"
	"github.com/vectorpad/vectorpad/internal/render"
	"github.com/vectorpad/vectorpad/internal/shape"
)

type memDrawings struct {
	mu      sync.Mutex
	records map[string][]shape.Record
	version map[string]int
	failing bool
}

func newMemDrawings() *memDrawings {
	return &memDrawings{records: make(map[string][]shape.Record), version: make(map[string]int)}
}

func (m *memDrawings) load(_ context.Context, id string) ([]shape.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs, ok := m.records[id]
	if !ok {
		return nil, errors.New("no such drawing")
	}
	return recs, nil
}

func (m *memDrawings) save(_ context.Context, id string, records []shape.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return 0, errors.New("disk full")
	}
	m.records[id] = records
	m.version[id]++
	return m.version[id], nil
}

func (m *memDrawings) saved(id string) (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[id]), m.version[id]
}

func msg(t *testing.T, typ string, payload interface{}) *Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return &Message{Type: typ, Payload: data}
}

func decode[T any](t *testing.T, m *Message) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(m.Payload, &v); err != nil {
		t.Fatalf("decode %s payload: %v", m.Type, err)
	}
	return v
}

func TestHandleDrawGesture(t *testing.T) {
	s, err := NewSession("drw_test", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	replies := s.Handle(ctx, msg(t, TypeModeSet, ModePayload{Mode: "draw-rect"}))
	if len(replies) != 2 || replies[0].Type != TypeRender || replies[1].Type != TypeSelection {
		t.Fatalf("mode.set replies = %v", replies)
	}
	if got := decode[RenderPayload](t, replies[0]).Status; got != "Mode: draw-rect" {
		t.Errorf("status = %q", got)
	}

	s.Handle(ctx, msg(t, TypePointerDown, PointPayload{X: 10, Y: 10}))
	replies = s.Handle(ctx, msg(t, TypePointerMove, PointPayload{X: 40, Y: 30}))
	if len(replies) != 1 || replies[0].Type != TypeRender {
		t.Fatalf("pointer.move replies = %v", replies)
	}
	replies = s.Handle(ctx, msg(t, TypePointerUp, PointPayload{X: 40, Y: 30}))
	r := decode[RenderPayload](t, replies[0])
	var cmds []render.DrawCommand
	if err := json.Unmarshal(r.Commands, &cmds); err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 1 || cmds[0].Op != "rect" || cmds[0].X2 != 40 {
		t.Errorf("commands = %+v", cmds)
	}
	if !r.Modified {
		t.Error("render should report unsaved changes")
	}
}

func TestHandleSelectionAndParams(t *testing.T) {
	s, err := NewSession("drw_test", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	create := msg(t, TypeShapeCreate, engine.Params{Kind: "circle", Fields: "50,50,10", Color: "red"})
	create.Seq = 7
	replies := s.Handle(ctx, create)
	if len(replies) != 2 || replies[0].Seq != 7 {
		t.Fatalf("shape.create replies = %+v", replies)
	}

	replies = s.Handle(ctx, msg(t, TypeDoubleClick, PointPayload{X: 50, Y: 50}))
	sel := decode[SelectionPayload](t, replies[1])
	if sel.Params == nil || sel.Params.Kind != "circle" || sel.Params.Fields != "50,50,10" {
		t.Fatalf("selection = %+v", sel.Params)
	}

	replies = s.Handle(ctx, msg(t, TypeShapeApply, engine.Params{Width: "-2"}))
	if len(replies) != 1 || replies[0].Type != TypeNotice {
		t.Fatalf("bad apply replies = %+v", replies)
	}
	if n := decode[NoticePayload](t, replies[0]); n.Kind != KindValidation {
		t.Errorf("notice kind = %q, want validation", n.Kind)
	}

	replies = s.Handle(ctx, msg(t, TypeSelectionDelete, nil))
	if sel := decode[SelectionPayload](t, replies[1]); sel.Params != nil {
		t.Errorf("selection after delete = %+v", sel.Params)
	}

	replies = s.Handle(ctx, msg(t, TypeShapeApply, engine.Params{Color: "blue"}))
	if n := decode[NoticePayload](t, replies[0]); n.Kind != KindSelection {
		t.Errorf("apply without selection notice kind = %q", n.Kind)
	}
}

func TestHandleLoadAndErrors(t *testing.T) {
	s, err := NewSession("drw_test", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	bad := &Message{Type: TypeDocLoad, Payload: json.RawMessage(`{"shapes":[{"type":"line","x1":0,"y1":0,"x2":1,"y2":1},{"type":"oops"}]}`)}
	replies := s.Handle(ctx, bad)
	n := decode[NoticePayload](t, replies[0])
	if n.Kind != KindFormat || !strings.Contains(n.Message, "record 1") {
		t.Errorf("notice = %+v", n)
	}

	mistyped := &Message{Type: TypeDocLoad, Payload: json.RawMessage(`{"shapes":[{"type":"line","x1":0,"y1":0,"x2":1,"y2":1},{"type":"rect","x1":"ten"}]}`)}
	n = decode[NoticePayload](t, s.Handle(ctx, mistyped)[0])
	if n.Kind != KindFormat || !strings.Contains(n.Message, "record 1") || !strings.Contains(n.Message, `"x1"`) {
		t.Errorf("mistyped record notice = %+v", n)
	}

	notList := &Message{Type: TypeDocLoad, Payload: json.RawMessage(`{"shapes":{"type":"line"}}`)}
	n = decode[NoticePayload](t, s.Handle(ctx, notList)[0])
	if n.Kind != KindFormat || !strings.Contains(n.Message, "malformed JSON") {
		t.Errorf("non-list notice = %+v", n)
	}

	good := &Message{Type: TypeDocLoad, Payload: json.RawMessage(`{"shapes":[{"type":"line","x1":0,"y1":0,"x2":1,"y2":1}]}`)}
	replies = s.Handle(ctx, good)
	if replies[0].Type != TypeRender || decode[RenderPayload](t, replies[0]).Modified {
		t.Errorf("load replies = %+v", replies)
	}

	for _, m := range []*Message{
		{Type: "teleport"},
		{Type: TypePointerDown, Payload: json.RawMessage(`"nope"`)},
		{Type: TypeModeSet, Payload: json.RawMessage(`{"mode":"erase"}`)},
	} {
		replies := s.Handle(ctx, m)
		if len(replies) != 1 || replies[0].Type != TypeNotice {
			t.Errorf("%s replies = %+v", m.Type, replies)
		}
	}

	replies = s.Handle(ctx, msg(t, TypeDocSave, nil))
	if n := decode[NoticePayload](t, replies[0]); n.Kind != KindInfo {
		t.Errorf("unpersisted save notice = %+v", n)
	}
}

func TestHandleSave(t *testing.T) {
	store := newMemDrawings()
	s, err := NewSession("drw_a", nil, store.save)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	s.Handle(ctx, msg(t, TypeShapeCreate, engine.Params{Kind: "line", Fields: "0,0,5,5"}))
	replies := s.Handle(ctx, msg(t, TypeDocSave, nil))
	if replies[0].Type != TypeSaved || decode[SavedPayload](t, replies[0]).Version != 1 {
		t.Fatalf("save replies = %+v", replies)
	}
	if n, _ := store.saved("drw_a"); n != 1 {
		t.Errorf("stored %d records, want 1", n)
	}

	store.failing = true
	replies = s.Handle(ctx, msg(t, TypeDocSave, nil))
	if n := decode[NoticePayload](t, replies[0]); n.Kind != KindIO {
		t.Errorf("failed save notice = %+v", n)
	}
}

func TestSaveIfModified(t *testing.T) {
	store := newMemDrawings()
	s, err := NewSession("drw_a", nil, store.save)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if v, err := s.SaveIfModified(ctx); err != nil || v != 0 {
		t.Fatalf("unmodified SaveIfModified = %d, %v", v, err)
	}
	s.Handle(ctx, msg(t, TypeShapeCreate, engine.Params{Kind: "rect", Fields: "0,0,5,5"}))
	if v, err := s.SaveIfModified(ctx); err != nil || v != 1 {
		t.Fatalf("SaveIfModified = %d, %v", v, err)
	}
	if v, _ := s.SaveIfModified(ctx); v != 0 {
		t.Errorf("second SaveIfModified saved again: %d", v)
	}
}

func TestHubOpen(t *testing.T) {
	store := newMemDrawings()
	store.records["drw_a"] = []shape.Record{shape.NewCircle(1, 2, 3).Record()}
	store.records["drw_bad"] = []shape.Record{{Type: "blob"}}
	h := NewHub(store.load, store.save, 0)
	ctx := context.Background()

	s, err := h.Open(ctx, "drw_a")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !s.Persisted() || s.engine.Document().Len() != 1 {
		t.Errorf("session persisted=%v len=%d", s.Persisted(), s.engine.Document().Len())
	}

	p, err := h.Open(ctx, PlaygroundDrawingID)
	if err != nil || p.Persisted() {
		t.Errorf("playground Open = %v, persisted=%v", err, p.Persisted())
	}

	if _, err := h.Open(ctx, "drw_missing"); err == nil {
		t.Error("Open of a missing drawing should fail")
	}
	if _, err := h.Open(ctx, "drw_bad"); err == nil {
		t.Error("Open of a corrupt drawing should fail")
	}
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestWebSocketSessionSavesOnStop(t *testing.T) {
	store := newMemDrawings()
	store.records["drw_a"] = nil
	h := NewHub(store.load, store.save, time.Hour)
	go h.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		client, err := h.Join(r.Context(), conn, "drw_a", "user_test")
		if err != nil {
			conn.Close(websocket.StatusInternalError, err.Error())
			return
		}
		go client.WritePump(r.Context())
		client.ReadPump(r.Context())
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	welcome := readMessage(t, ctx, conn)
	if welcome.Type != TypeWelcome || welcome.DrawingID != "drw_a" {
		t.Fatalf("first message = %+v", welcome)
	}
	if m := readMessage(t, ctx, conn); m.Type != TypeRender {
		t.Fatalf("second message = %s, want render", m.Type)
	}
	if m := readMessage(t, ctx, conn); m.Type != TypeSelection {
		t.Fatalf("third message = %s, want selection", m.Type)
	}

	data, err := json.Marshal(msg(t, TypeShapeCreate, engine.Params{Kind: "line", Fields: "0,0,9,9"}))
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if m := readMessage(t, ctx, conn); m.Type != TypeRender {
		t.Fatalf("reply = %s, want render", m.Type)
	}
	readMessage(t, ctx, conn)

	h.Stop()
	if n, v := store.saved("drw_a"); n != 1 || v != 1 {
		t.Errorf("after Stop stored %d records at version %d, want 1 at 1", n, v)
	}
}

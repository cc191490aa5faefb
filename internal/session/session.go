package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/engine"
	"github.com/vectorpad/vectorpad/internal/shape"
)

// PlaygroundDrawingID is open to anonymous users and never persisted.
const PlaygroundDrawingID = "drw_playground"

// Loader returns the stored shapes of a drawing.
type Loader func(ctx context.Context, drawingID string) ([]shape.Record, error)

// Saver stores the shapes of a drawing and returns the new version.
type Saver func(ctx context.Context, drawingID string, records []shape.Record) (int, error)

// Session is one client's private copy of a drawing. Events are applied in
// arrival order; the mutex lets the hub save while the client is connected.
type Session struct {
	mu        sync.Mutex
	drawingID string
	engine    *engine.Engine
	save      Saver // nil for drawings that are not persisted
}

// NewSession creates a session editing records. A nil saver makes doc.save
// a no-op notice.
func NewSession(drawingID string, records []shape.Record, save Saver) (*Session, error) {
	e := engine.NewEngine()
	if err := e.LoadRecords(records); err != nil {
		return nil, err
	}
	return &Session{drawingID: drawingID, engine: e, save: save}, nil
}

func (s *Session) DrawingID() string {
	return s.drawingID
}

func (s *Session) Persisted() bool {
	return s.save != nil
}

// Handle applies one client message and returns the replies in order.
func (s *Session) Handle(ctx context.Context, msg *Message) []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.engine
	seq := msg.Seq

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp, TypeDoubleClick:
		var p PointPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return []*Message{notice(seq, KindProtocol, "invalid point payload")}
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(p.X, p.Y)
		case TypePointerMove:
			e.PointerMove(p.X, p.Y)
			return []*Message{s.render(seq)}
		case TypePointerUp:
			e.PointerUp(p.X, p.Y)
		case TypeDoubleClick:
			e.DoubleClick(p.X, p.Y)
		}
		return s.refresh(seq)

	case TypeModeSet:
		var p ModePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return []*Message{notice(seq, KindProtocol, "invalid mode payload")}
		}
		m, err := engine.ParseMode(p.Mode)
		if err != nil {
			return []*Message{notice(seq, KindValidation, err.Error())}
		}
		e.SetMode(m)
		return s.refresh(seq)

	case TypeShapeCreate, TypeShapeApply:
		var p engine.Params
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return []*Message{notice(seq, KindProtocol, "invalid parameter payload")}
		}
		var err error
		if msg.Type == TypeShapeCreate {
			_, err = e.CreateFromParams(p)
		} else {
			err = e.ApplyParams(p)
		}
		if err != nil {
			return []*Message{errorNotice(seq, err)}
		}
		return s.refresh(seq)

	case TypeSelectionDelete:
		e.DeleteSelected()
		return s.refresh(seq)

	case TypeDocClear:
		e.Clear()
		return s.refresh(seq)

	case TypeDocLoad:
		var p LoadPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return []*Message{errorNotice(seq, &shape.FormatError{Index: -1, Reason: "malformed JSON", Err: err})}
		}
		records, err := document.UnmarshalRecords(p.Shapes)
		if err != nil {
			return []*Message{errorNotice(seq, err)}
		}
		if err := e.LoadRecords(records); err != nil {
			return []*Message{errorNotice(seq, err)}
		}
		return s.refresh(seq)

	case TypeDocSave:
		if s.save == nil {
			return []*Message{notice(seq, KindInfo, "playground drawings are not saved")}
		}
		version, err := s.save(ctx, s.drawingID, e.Records())
		if err != nil {
			return []*Message{notice(seq, KindIO, "save failed: "+err.Error())}
		}
		e.MarkSaved()
		return []*Message{newMessage(TypeSaved, seq, SavedPayload{Version: version}), s.render(seq)}
	}

	return []*Message{notice(seq, KindProtocol, "unknown message type "+msg.Type)}
}

// Snapshot returns the replies that bring a freshly connected client up to
// date.
func (s *Session) Snapshot() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(0)
}

// SaveIfModified persists unsaved changes. It reports the stored version, or
// 0 when there was nothing to save.
func (s *Session) SaveIfModified(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.save == nil || !s.engine.Modified() {
		return 0, nil
	}
	version, err := s.save(ctx, s.drawingID, s.engine.Records())
	if err != nil {
		return 0, err
	}
	s.engine.MarkSaved()
	return version, nil
}

func (s *Session) refresh(seq int64) []*Message {
	return []*Message{s.render(seq), s.selection(seq)}
}

func (s *Session) render(seq int64) *Message {
	return newMessage(TypeRender, seq, RenderPayload{
		Commands: json.RawMessage(s.engine.DrawCommands()),
		Status:   s.engine.Status(),
		Modified: s.engine.Modified(),
	})
}

func (s *Session) selection(seq int64) *Message {
	var payload SelectionPayload
	if p, ok := s.engine.SelectionParams(); ok {
		payload.Params = &p
	}
	return newMessage(TypeSelection, seq, payload)
}

func notice(seq int64, kind, message string) *Message {
	return newMessage(TypeNotice, seq, NoticePayload{Kind: kind, Message: message})
}

// errorNotice reports err under the category of the editor error it wraps.
func errorNotice(seq int64, err error) *Message {
	return notice(seq, engine.ErrorKind(err), err.Error())
}

package session

import (
	"encoding/json"

	"github.com/vectorpad/vectorpad/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	// Client → server
	TypePointerDown     = "pointer.down"
	TypePointerMove     = "pointer.move"
	TypePointerUp       = "pointer.up"
	TypeDoubleClick     = "pointer.dblclick"
	TypeModeSet         = "mode.set"
	TypeShapeCreate     = "shape.create"
	TypeShapeApply      = "shape.apply"
	TypeSelectionDelete = "selection.delete"
	TypeDocClear        = "doc.clear"
	TypeDocLoad         = "doc.load"
	TypeDocSave         = "doc.save"

	// Server → client
	TypeWelcome   = "welcome"
	TypeRender    = "render"
	TypeSelection = "selection"
	TypeNotice    = "notice"
	TypeSaved     = "saved"
)

// Notice kinds
const (
	KindValidation = engine.KindValidation
	KindFormat     = engine.KindFormat
	KindIO         = engine.KindIO
	KindSelection  = engine.KindSelection
	KindError      = engine.KindError
	KindProtocol   = "protocol"
	KindInfo       = "info"
)

type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

// LoadPayload carries the raw entries so a bad one can be reported by index.
type LoadPayload struct {
	Shapes []json.RawMessage `json:"shapes"`
}

type WelcomePayload struct {
	ClientID  string `json:"clientId"`
	DrawingID string `json:"drawingId"`
	Persisted bool   `json:"persisted"`
}

type RenderPayload struct {
	Commands json.RawMessage `json:"commands"`
	Status   string          `json:"status"`
	Modified bool            `json:"modified"`
}

type SelectionPayload struct {
	Params *engine.Params `json:"params"`
}

type NoticePayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type SavedPayload struct {
	Version int `json:"version"`
}

func newMessage(typ string, seq int64, payload interface{}) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("null")
	}
	return &Message{Type: typ, Seq: seq, Payload: data}
}

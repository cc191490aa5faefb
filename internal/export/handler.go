package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/shape"
)

const maxUploadSize = 4 << 20 // 4MB

// publicScale bounds ad hoc exports to this multiple of the canvas size.
const publicScale = 2

// Request is the body of an ad hoc export: a drawing that is not stored on
// the server.
type Request struct {
	Name   string         `json:"name"`
	Format string         `json:"format"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Shapes []json.RawMessage `json:"shapes"`
}

type Handler struct {
	defaultWidth  int
	defaultHeight int
	maxWidth      int
	maxHeight     int
}

// NewHandler serves ad hoc exports. Requests without a size get the default
// canvas size; larger than publicScale times it is rejected.
func NewHandler(defaultWidth, defaultHeight int) *Handler {
	return &Handler{
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
		maxWidth:      min(publicScale*defaultWidth, MaxDimension),
		maxHeight:     min(publicScale*defaultHeight, MaxDimension),
	}
}

// Export renders the posted drawing and streams the image back as an
// attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	format, err := ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Width <= 0 {
		req.Width = h.defaultWidth
	}
	if req.Height <= 0 {
		req.Height = h.defaultHeight
	}
	if req.Width > h.maxWidth || req.Height > h.maxHeight {
		http.Error(w, fmt.Sprintf("image larger than %dx%d", h.maxWidth, h.maxHeight), http.StatusBadRequest)
		return
	}

	records, err := document.UnmarshalRecords(req.Shapes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, format, records, req.Width, req.Height); err != nil {
		var fe *shape.FormatError
		if errors.As(err, &fe) {
			http.Error(w, fe.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusBadRequest)
		return
	}

	Write(w, SanitizeName(req.Name), format, buf.Bytes())
	slog.Info("export complete", "format", format, "shapes", len(req.Shapes), "size", buf.Len())
}

// Write sends an encoded image as a download.
func Write(w http.ResponseWriter, name string, format Format, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// SanitizeName turns a drawing name into a safe file name.
func SanitizeName(name string) string {
	if name == "" {
		return "drawing"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

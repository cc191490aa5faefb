package engine

import (
	"errors"

	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/shape"
)

// Error kinds reported to the user interface.
const (
	KindValidation = "validation"
	KindFormat     = "format"
	KindIO         = "io"
	KindSelection  = "selection"
	KindError      = "error"
)

// ErrorKind classifies err by the editor error it wraps.
func ErrorKind(err error) string {
	var (
		ve    *shape.ValidationError
		fe    *shape.FormatError
		ioErr *document.IOError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &fe):
		return KindFormat
	case errors.As(err, &ioErr):
		return KindIO
	case errors.Is(err, ErrNoSelection):
		return KindSelection
	default:
		return KindError
	}
}

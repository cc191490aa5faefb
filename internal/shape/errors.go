package shape

import (
	"strconv"
	"strings"
)

// ValidationError reports parameter input that cannot describe a shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid parameters: " + e.Reason
	}
	return "invalid " + e.Field + ": " + e.Reason
}

// FormatError reports a persisted record that cannot be decoded.
type FormatError struct {
	Index  int    // position in the document, -1 when not applicable
	Type   string // type tag of the offending record, if known
	Field  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("bad drawing")
	if e.Index >= 0 {
		b.WriteString(": record ")
		b.WriteString(strconv.Itoa(e.Index))
	}
	if e.Type != "" {
		b.WriteString(" (")
		b.WriteString(e.Type)
		b.WriteString(")")
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(strconv.Quote(e.Field))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

func quote(s string) string { return strconv.Quote(s) }
func itoa(n int) string     { return strconv.Itoa(n) }

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vectorpad/vectorpad/internal/shape"
)

// Export returns the records of every shape in insertion order.
func (d *Document) Export() []shape.Record {
	records := make([]shape.Record, len(d.shapes))
	for i, s := range d.shapes {
		records[i] = s.Record()
	}
	return records
}

// Import replaces the content of the document with the decoded records. The
// first record that cannot be decoded aborts the import with a
// *shape.FormatError naming its index, and the document is left untouched.
// A successful import clears the selection.
func (d *Document) Import(records []shape.Record) error {
	shapes, err := DecodeRecords(records)
	if err != nil {
		return err
	}
	d.ClearSelection()
	d.shapes = shapes
	return nil
}

// DecodeRecords decodes every record or none.
func DecodeRecords(records []shape.Record) ([]shape.Shape, error) {
	shapes := make([]shape.Shape, 0, len(records))
	for i, rec := range records {
		s, err := shape.Decode(rec)
		if err != nil {
			var fe *shape.FormatError
			if errors.As(err, &fe) {
				fe.Index = i
				return nil, fe
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// ParseRecords reads a JSON list of shape records. Malformed JSON is reported
// as a *shape.FormatError with index -1; an entry that is not a valid record
// is reported with its index.
func ParseRecords(r io.Reader) ([]shape.Record, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &shape.FormatError{Index: -1, Reason: "malformed JSON", Err: err}
	}
	return UnmarshalRecords(raw)
}

// UnmarshalRecords decodes each entry of a JSON list into a record and stops
// at the first one that does not fit the record format.
func UnmarshalRecords(raw []json.RawMessage) ([]shape.Record, error) {
	records := make([]shape.Record, len(raw))
	for i, entry := range raw {
		if err := json.Unmarshal(entry, &records[i]); err != nil {
			fe := &shape.FormatError{Index: i, Type: recordType(entry), Reason: "malformed record", Err: err}
			var te *json.UnmarshalTypeError
			if errors.As(err, &te) && te.Field != "" {
				fe.Field = te.Field
				fe.Reason = "expected a " + te.Type.String() + ", got a JSON " + te.Value
				fe.Err = nil
			}
			return nil, fe
		}
	}
	return records, nil
}

// recordType returns the type tag of entry when it is a string.
func recordType(entry json.RawMessage) string {
	var tagged struct {
		Type interface{} `json:"type"`
	}
	if json.Unmarshal(entry, &tagged) != nil {
		return ""
	}
	t, _ := tagged.Type.(string)
	return t
}

// Decode replaces the document with the JSON list read from r.
func (d *Document) Decode(r io.Reader) error {
	records, err := ParseRecords(r)
	if err != nil {
		return err
	}
	return d.Import(records)
}

// Encode writes the document as an indented JSON list.
func (d *Document) Encode(w io.Writer) error {
	return EncodeRecords(w, d.Export())
}

// EncodeRecords writes records as an indented JSON list.
func EncodeRecords(w io.Writer, records []shape.Record) error {
	if records == nil {
		records = []shape.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode drawing: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write drawing: %w", err)
	}
	return nil
}

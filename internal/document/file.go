package document

import (
	"bytes"
	"os"
	"path/filepath"
)

// IOError reports a failure to read or write a drawing file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// LoadFile replaces the document with the drawing stored at path.
func (d *Document) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}
	return d.Decode(bytes.NewReader(data))
}

// SaveFile writes the document to path. The content goes to a temporary file
// in the same directory first and is renamed over path once complete.
func (d *Document) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

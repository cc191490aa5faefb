// Command render converts a saved drawing into a PNG or SVG image.
//
//	render -in drawing.json -out drawing.png
//	render -sample -in sample.json
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/export"
)

func main() {
	in := flag.String("in", "", "drawing file to read (JSON)")
	out := flag.String("out", "", "image to write; the extension picks the format unless -format is set")
	format := flag.String("format", "", "png or svg")
	width := flag.Int("w", 800, "image width in pixels")
	height := flag.Int("h", 600, "image height in pixels")
	reformat := flag.Bool("fmt", false, "rewrite the drawing file in canonical form")
	sample := flag.Bool("sample", false, "write the sample drawing to -in instead of reading it")
	flag.Parse()

	if err := run(*in, *out, *format, *width, *height, *reformat, *sample); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(in, out, format string, width, height int, reformat, sample bool) error {
	if in == "" {
		return fmt.Errorf("-in is required")
	}

	doc := document.New()
	if sample {
		doc = document.NewSample()
		if err := doc.SaveFile(in); err != nil {
			return err
		}
		slog.Info("sample written", "path", in, "shapes", doc.Len())
	} else if err := doc.LoadFile(in); err != nil {
		return err
	}

	if reformat && !sample {
		if err := doc.SaveFile(in); err != nil {
			return err
		}
		slog.Info("drawing rewritten", "path", in, "shapes", doc.Len())
	}

	if out == "" {
		return nil
	}
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	file, err := os.Create(out)
	if err != nil {
		return &document.IOError{Op: "create", Path: out, Err: err}
	}
	if err := export.Render(file, f, doc.Export(), width, height); err != nil {
		file.Close()
		os.Remove(out)
		return err
	}
	if err := file.Close(); err != nil {
		return &document.IOError{Op: "write", Path: out, Err: err}
	}
	slog.Info("image written", "path", out, "format", f, "width", width, "height", height)
	return nil
}

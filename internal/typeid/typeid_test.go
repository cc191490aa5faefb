package typeid

import (
	"strings"
	"testing"
)

func TestNewAndValidate(t *testing.T) {
	id := NewDrawingID()
	if !strings.HasPrefix(id, PrefixDrawing+"_") {
		t.Fatalf("NewDrawingID() = %q", id)
	}
	if err := Validate(id, PrefixDrawing); err != nil {
		t.Errorf("Validate(%q) = %v", id, err)
	}
	if err := Validate(id, PrefixUser); err == nil {
		t.Error("Validate should reject the wrong prefix")
	}
	if err := Validate("drw_not-a-typeid", PrefixDrawing); err == nil {
		t.Error("Validate should reject a malformed id")
	}
}

package export

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves a color token: an SVG/X11 color name (case and spaces
// ignored, so "Forest Green" works) or a #rgb / #rrggbb hex value. Unknown
// tokens resolve to black.
func ParseColor(token string) color.RGBA {
	c, ok := lookupColor(token)
	if !ok {
		return color.RGBA{A: 0xff}
	}
	return c
}

func lookupColor(token string) (color.RGBA, bool) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "#") {
		return parseHex(token[1:])
	}
	name := strings.ToLower(strings.ReplaceAll(token, " ", ""))
	c, ok := colornames.Map[name]
	return c, ok
}

func parseHex(s string) (color.RGBA, bool) {
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// hex formats c as #rrggbb.
func hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

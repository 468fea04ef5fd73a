package dom

import (
	"regexp"
	"strconv"
	"strings"
)

// Style maps kebab-case CSS property names to values. An empty value means
// the property is unset.
type Style map[string]string

// Clone returns a copy of s without empty entries.
func (s Style) Clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Px formats a pixel length the way the engine writes it ("120px").
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// ParsePx parses a pixel length. "0" is accepted without a unit; percentages
// and keywords are rejected.
func ParsePx(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var translateRegex = regexp.MustCompile(`translate([XY])\((-?[0-9.]+)px\)`)

// ParseTranslate extracts the translateX/translateY pixel amounts from a
// transform value.
func ParseTranslate(transform string) (dx, dy float64) {
	for _, m := range translateRegex.FindAllStringSubmatch(transform, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if m[1] == "X" {
			dx += v
		} else {
			dy += v
		}
	}
	return dx, dy
}

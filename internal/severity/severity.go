// Package severity defines the ordered interaction severity tiers and their
// display encodings (short codes and colors).
package severity

import "strings"

type Tier string

const (
	Contraindicated Tier = "Contraindicated"
	Major           Tier = "Major"
	Moderate        Tier = "Moderate"
	Minor           Tier = "Minor"
	Unspecified     Tier = "Unspecified"
)

const (
	// DefaultColor is used for any tier without a palette entry.
	DefaultColor = "#CCCCCC"
	// EmptyColor paints cells with no interaction.
	EmptyColor = "#EEEEEE"
)

var (
	order   = []Tier{Contraindicated, Major, Moderate, Minor, Unspecified}
	tracked = []Tier{Contraindicated, Major, Moderate}

	shortCodes = map[Tier]string{
		Contraindicated: "CI",
		Major:           "MAJ",
		Moderate:        "MOD",
	}

	palette = map[Tier]string{
		Contraindicated: "#FF6B6B",
		Major:           "#FF9C6E",
		Moderate:        "#FFC000",
		Minor:           "#FFFF99",
		Unspecified:     "#ADD8E6",
	}
)

// Order returns every tier from most to least severe.
func Order() []Tier {
	out := make([]Tier, len(order))
	copy(out, order)
	return out
}

// Tracked returns the tiers that populate the matrix and the per-drug counts,
// most severe first.
func Tracked() []Tier {
	out := make([]Tier, len(tracked))
	copy(out, tracked)
	return out
}

// Normalize maps a raw cell value onto a tier. Anything that is not exactly a
// tier name (after trimming) becomes Unspecified.
func Normalize(raw string) Tier {
	t := Tier(strings.TrimSpace(raw))
	if _, ok := palette[t]; ok {
		return t
	}
	return Unspecified
}

// Rank is the position of t in the canonical order, 0 being the most severe.
func (t Tier) Rank() int {
	for i, o := range order {
		if o == t {
			return i
		}
	}
	return len(order) - 1
}

// IsTracked reports whether t has a short code.
func (t Tier) IsTracked() bool {
	_, ok := shortCodes[t]
	return ok
}

func (t Tier) String() string {
	return string(t)
}

// MoreSevere reports whether a ranks strictly above b.
func MoreSevere(a, b Tier) bool {
	return a.Rank() < b.Rank()
}

// ShortCode returns the display code of a tracked tier. The second result is
// false for Minor, Unspecified and anything unknown.
func ShortCode(t Tier) (string, bool) {
	code, ok := shortCodes[t]
	return code, ok
}

// FromShortCode is the inverse of ShortCode.
func FromShortCode(code string) (Tier, bool) {
	for t, c := range shortCodes {
		if c == code {
			return t, true
		}
	}
	return "", false
}

// Color returns the hex color of t, falling back to DefaultColor.
func Color(t Tier) string {
	if c, ok := palette[t]; ok {
		return c
	}
	return DefaultColor
}

// CodeColor returns the background for a matrix cell holding a short code.
// Empty cells get EmptyColor.
func CodeColor(code string) string {
	if code == "" {
		return EmptyColor
	}
	t, ok := FromShortCode(code)
	if !ok {
		return DefaultColor
	}
	return Color(t)
}

// LegendEntry describes one tier for display.
type LegendEntry struct {
	Tier    Tier   `json:"tier"`
	Code    string `json:"code,omitempty"`
	Color   string `json:"color"`
	Tracked bool   `json:"tracked"`
}

// Legend lists every tier in canonical order with its encodings.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(order))
	for _, t := range order {
		code, ok := ShortCode(t)
		out = append(out, LegendEntry{Tier: t, Code: code, Color: Color(t), Tracked: ok})
	}
	return out
}

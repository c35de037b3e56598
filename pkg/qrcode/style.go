package qr

import (
	"image/color"
	"strconv"
	"strings"
)

// Dot patterns for the data modules.
const (
	PatternSquare        = "square"
	PatternRounded       = "rounded"
	PatternExtraRounded  = "extra-rounded"
	PatternDots          = "dots"
	PatternClassy        = "classy"
	PatternClassyRounded = "classy-rounded"
)

// Gradient types.
const (
	GradientLinear = "linear"
	GradientRadial = "radial"
)

// Logo placements.
const (
	LogoInline     = "inline"
	LogoBackground = "background"
)

const (
	DefaultSize        = 512
	MinSize            = 64
	MaxSize            = 2048
	DefaultDarkColor   = "#000000"
	DefaultLightColor  = "#FFFFFF"
	DefaultLogoOpacity = 0.3
)

// Style is the rendering configuration for a code. It is persisted as
// free-form JSON on the owning record, so every field may be missing,
// empty, or carry a legacy spelling. Resolve is the only schema gate.
type Style struct {
	Pattern    string    `json:"pattern"`
	EyeStyle   string    `json:"eyeStyle"`
	DarkColor  string    `json:"darkColor"`
	LightColor string    `json:"lightColor"`
	Gradient   *Gradient `json:"gradient,omitempty"`
	Logo       *Logo     `json:"logo,omitempty"`
	Size       int       `json:"size"`
	Frame      *Frame    `json:"frame,omitempty"`
}

// Gradient overrides the solid dark color for dots and eyes uniformly.
type Gradient struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
	Color1  string `json:"color1"`
	Color2  string `json:"color2"`
}

type Logo struct {
	URL      string  `json:"url"`
	Position string  `json:"position"`
	Opacity  float64 `json:"opacity"`
}

// Frame is decorative only. It is normalized so persisted frame JSON
// round-trips, but it never affects the code layer itself.
type Frame struct {
	Style        string  `json:"style"`
	Color        string  `json:"color"`
	Width        float64 `json:"width"`
	CornerRadius float64 `json:"cornerRadius"`
	Padding      float64 `json:"padding"`
	Shadow       bool    `json:"shadow"`
}

// legacy spellings seen in persisted themes from older schema versions
var legacyShapes = map[string]string{
	"default":        PatternSquare,
	"squares":        PatternSquare,
	"rect":           PatternSquare,
	"extra_rounded":  PatternExtraRounded,
	"extrarounded":   PatternExtraRounded,
	"circle":         PatternDots,
	"dot":            PatternDots,
	"classy_rounded": PatternClassyRounded,
}

var knownShapes = map[string]bool{
	PatternSquare:        true,
	PatternRounded:       true,
	PatternExtraRounded:  true,
	PatternDots:          true,
	PatternClassy:        true,
	PatternClassyRounded: true,
}

// Resolve normalizes a raw persisted style into a complete configuration.
// It never fails: unknown values fall back to safe defaults, out-of-range
// numbers are clamped, and resolving an already resolved style returns it
// unchanged.
func Resolve(raw *Style) Style {
	var s Style
	if raw != nil {
		s = *raw
	}

	s.Pattern = resolveShape(s.Pattern)
	s.EyeStyle = resolveShape(s.EyeStyle)
	s.DarkColor = resolveColor(s.DarkColor, DefaultDarkColor)
	s.LightColor = resolveColor(s.LightColor, DefaultLightColor)

	if s.Size <= 0 {
		s.Size = DefaultSize
	} else if s.Size < MinSize {
		s.Size = MinSize
	} else if s.Size > MaxSize {
		s.Size = MaxSize
	}

	// An absent gradient means the same as a disabled one.
	g := Gradient{Type: GradientLinear}
	if s.Gradient != nil {
		g = *s.Gradient
	}
	if g.Type != GradientLinear && g.Type != GradientRadial {
		g.Type = GradientLinear
	}
	g.Color1 = resolveColor(g.Color1, s.DarkColor)
	g.Color2 = resolveColor(g.Color2, s.DarkColor)
	s.Gradient = &g

	l := Logo{Position: LogoInline, Opacity: DefaultLogoOpacity}
	if s.Logo != nil {
		l = *s.Logo
	}
	if l.Position != LogoInline && l.Position != LogoBackground {
		l.Position = LogoInline
	}
	if l.Opacity <= 0 {
		l.Opacity = DefaultLogoOpacity
	} else if l.Opacity > 1 {
		l.Opacity = 1
	}
	s.Logo = &l

	if s.Frame != nil {
		f := *s.Frame
		f.Color = resolveColor(f.Color, s.DarkColor)
		if f.Width < 0 {
			f.Width = 0
		}
		if f.CornerRadius < 0 {
			f.CornerRadius = 0
		}
		if f.Padding < 0 {
			f.Padding = 0
		}
		s.Frame = &f
	}

	return s
}

func resolveShape(shape string) string {
	shape = strings.ToLower(strings.TrimSpace(shape))
	if mapped, ok := legacyShapes[shape]; ok {
		return mapped
	}
	if knownShapes[shape] {
		return shape
	}
	return PatternSquare
}

func resolveColor(value, fallback string) string {
	if _, ok := parseHex(value); ok {
		return value
	}
	return fallback
}

// parseHex parses #RGB and #RRGGBB colors.
func parseHex(value string) (color.RGBA, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "#") {
		return color.RGBA{}, false
	}
	hex := value[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, true
}

// Color returns the parsed value or the given default when the string is
// not a valid hex color.
func Color(value string, fallback color.RGBA) color.RGBA {
	if c, ok := parseHex(value); ok {
		return c
	}
	return fallback
}

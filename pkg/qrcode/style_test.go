package qr

import (
	"reflect"
	"testing"
)

func TestResolveNilAndEmpty(t *testing.T) {
	for name, raw := range map[string]*Style{"nil": nil, "empty": {}} {
		s := Resolve(raw)
		if s.Pattern != PatternSquare || s.EyeStyle != PatternSquare {
			t.Fatalf("%s: expected square defaults, got %q/%q", name, s.Pattern, s.EyeStyle)
		}
		if s.DarkColor != DefaultDarkColor || s.LightColor != DefaultLightColor {
			t.Fatalf("%s: expected default colors, got %q/%q", name, s.DarkColor, s.LightColor)
		}
		if s.Size != DefaultSize {
			t.Fatalf("%s: expected size %d, got %d", name, DefaultSize, s.Size)
		}
		if s.Gradient == nil || s.Gradient.Enabled {
			t.Fatalf("%s: expected disabled gradient, got %+v", name, s.Gradient)
		}
		if s.Logo == nil || s.Logo.Position != LogoInline {
			t.Fatalf("%s: expected inline logo default, got %+v", name, s.Logo)
		}
	}
}

func TestResolveLegacyShapes(t *testing.T) {
	cases := map[string]string{
		"circle":         PatternDots,
		"extra_rounded":  PatternExtraRounded,
		"classy_rounded": PatternClassyRounded,
		"default":        PatternSquare,
		"Rounded":        PatternRounded,
		"no-such-shape":  PatternSquare,
		"":               PatternSquare,
	}
	for input, want := range cases {
		s := Resolve(&Style{Pattern: input, EyeStyle: input})
		if s.Pattern != want {
			t.Errorf("pattern %q: expected %q, got %q", input, want, s.Pattern)
		}
		if s.EyeStyle != want {
			t.Errorf("eye style %q: expected %q, got %q", input, want, s.EyeStyle)
		}
	}
}

func TestResolveClamping(t *testing.T) {
	s := Resolve(&Style{
		Size: 10000,
		Logo: &Logo{URL: "https://example.com/logo.png", Opacity: 4},
	})
	if s.Size != MaxSize {
		t.Fatalf("expected size clamped to %d, got %d", MaxSize, s.Size)
	}
	if s.Logo.Opacity != 1 {
		t.Fatalf("expected opacity clamped to 1, got %f", s.Logo.Opacity)
	}

	s = Resolve(&Style{
		Size: 3,
		Logo: &Logo{URL: "https://example.com/logo.png", Opacity: -2},
	})
	if s.Size != MinSize {
		t.Fatalf("expected size clamped to %d, got %d", MinSize, s.Size)
	}
	if s.Logo.Opacity != DefaultLogoOpacity {
		t.Fatalf("expected default opacity for nonsense input, got %f", s.Logo.Opacity)
	}
}

func TestResolveBadColorsFallBack(t *testing.T) {
	s := Resolve(&Style{DarkColor: "pink", LightColor: "#ZZZZZZ"})
	if s.DarkColor != DefaultDarkColor || s.LightColor != DefaultLightColor {
		t.Fatalf("expected defaults for unparsable colors, got %q/%q", s.DarkColor, s.LightColor)
	}

	s = Resolve(&Style{DarkColor: "#1a2b3c", LightColor: "#fff"})
	if s.DarkColor != "#1a2b3c" || s.LightColor != "#fff" {
		t.Fatalf("expected valid colors preserved, got %q/%q", s.DarkColor, s.LightColor)
	}
}

func TestResolveIdempotent(t *testing.T) {
	inputs := []*Style{
		nil,
		{},
		{Pattern: "circle", Size: -5, DarkColor: "nope"},
		{
			Pattern:  "classy_rounded",
			EyeStyle: "extrarounded",
			Size:     9999,
			Gradient: &Gradient{Enabled: true, Type: "diagonal", Color1: "#123456"},
			Logo:     &Logo{URL: "https://example.com/l.png", Position: "floating", Opacity: -1},
			Frame:    &Frame{Width: -4, Padding: 2},
		},
	}
	for i, raw := range inputs {
		once := Resolve(raw)
		twice := Resolve(&once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("case %d: resolve is not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestResolveGradientDefaults(t *testing.T) {
	s := Resolve(&Style{Gradient: &Gradient{Enabled: true, Type: "spiral"}})
	if s.Gradient.Type != GradientLinear {
		t.Fatalf("expected unknown gradient type mapped to linear, got %q", s.Gradient.Type)
	}
	if s.Gradient.Color1 != s.DarkColor || s.Gradient.Color2 != s.DarkColor {
		t.Fatalf("expected gradient stops to default to the dark color, got %q/%q", s.Gradient.Color1, s.Gradient.Color2)
	}
}

func TestParseHex(t *testing.T) {
	c, ok := parseHex("#FF8000")
	if !ok || c.R != 255 || c.G != 128 || c.B != 0 || c.A != 255 {
		t.Fatalf("unexpected parse result: %+v ok=%v", c, ok)
	}
	c, ok = parseHex("#f80")
	if !ok || c.R != 255 || c.G != 136 || c.B != 0 {
		t.Fatalf("unexpected short-form result: %+v ok=%v", c, ok)
	}
	if _, ok = parseHex("ff8000"); ok {
		t.Fatal("expected missing # to fail")
	}
}

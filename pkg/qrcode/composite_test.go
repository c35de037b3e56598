package qr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"
)

func TestCoverRect(t *testing.T) {
	cases := []struct {
		name       string
		imgW, imgH int
		size       int
		x, y, w, h int
	}{
		{"wide 2:1", 200, 100, 512, -256, 0, 1024, 512},
		{"tall 1:2", 100, 200, 512, 0, -256, 512, 1024},
		{"square", 300, 300, 512, 0, 0, 512, 512},
		{"slightly wide", 512, 256, 256, -128, 0, 512, 256},
	}
	for _, tc := range cases {
		x, y, w, h := coverRect(tc.imgW, tc.imgH, tc.size)
		if x != tc.x || y != tc.y || w != tc.w || h != tc.h {
			t.Errorf("%s: expected rect (%d,%d,%d,%d), got (%d,%d,%d,%d)",
				tc.name, tc.x, tc.y, tc.w, tc.h, x, y, w, h)
		}
	}
}

func TestCompositeBackgroundOpaqueAndDistinct(t *testing.T) {
	renderer := NewRenderer(nil, nil)
	style := Style{
		Size: 256,
		Logo: &Logo{URL: "https://example.com/logo.png", Position: LogoBackground, Opacity: 0.3},
	}
	codePNG, err := renderer.Render(context.Background(), testPayload, style)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	c := NewCompositor(staticFetcher{img: testLogo(200, 100)})
	composed, err := c.CompositeBackground(context.Background(), codePNG, "https://example.com/logo.png", 256, 0.3, color.White)
	if err != nil {
		t.Fatalf("composite failed: %v", err)
	}
	if bytes.Equal(composed, codePNG) {
		t.Fatal("composite did not change the rendered image")
	}

	img := decodePNG(t, composed)
	if img.Bounds().Dx() != 256 || img.Bounds().Dy() != 256 {
		t.Fatalf("expected 256x256 composite, got %v", img.Bounds())
	}
	for y := 0; y < 256; y += 8 {
		for x := 0; x < 256; x += 8 {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("expected fully opaque composite, found alpha %d at (%d,%d)", a, x, y)
			}
		}
	}
}

func TestCompositeBackgroundLogoVisible(t *testing.T) {
	renderer := NewRenderer(nil, nil)
	codePNG, err := renderer.Render(context.Background(), testPayload, Style{
		Size: 256,
		Logo: &Logo{URL: "https://example.com/logo.png", Position: LogoBackground, Opacity: 1},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	c := NewCompositor(staticFetcher{img: testLogo(128, 128)})
	composed, err := c.CompositeBackground(context.Background(), codePNG, "https://example.com/logo.png", 256, 1, color.White)
	if err != nil {
		t.Fatalf("composite failed: %v", err)
	}

	// At full opacity the watermark shows through the quiet zone.
	img := decodePNG(t, composed)
	red, g, b, _ := img.At(1, 1).RGBA()
	if !(g > red && g > b) {
		t.Fatalf("expected logo visible in the quiet zone, got rgb(%d,%d,%d)", red>>8, g>>8, b>>8)
	}
}

func TestCompositeBackgroundLogoFailureIsFatal(t *testing.T) {
	// A bare-error fetcher: the compositor itself must supply the
	// taxonomy, not rely on the fetcher pre-wrapping.
	c := NewCompositor(staticFetcher{err: errors.New("dns failure")})
	_, err := c.CompositeBackground(context.Background(), []byte("not a png"), "https://unreachable.example/logo.png", 256, 0.3, color.White)
	if !errors.Is(err, ErrLogoLoad) {
		t.Fatalf("expected ErrLogoLoad, got %v", err)
	}
	if !strings.Contains(err.Error(), "unreachable.example") {
		t.Fatalf("expected the failing image in the error, got %v", err)
	}
}

func TestCompositeBackgroundKeepsWrappedLogoError(t *testing.T) {
	wrapped := fmt.Errorf("%w: https://unreachable.example/logo.png: status 404", ErrLogoLoad)
	c := NewCompositor(staticFetcher{err: wrapped})
	_, err := c.CompositeBackground(context.Background(), []byte("not a png"), "https://unreachable.example/logo.png", 256, 0.3, color.White)
	if !errors.Is(err, ErrLogoLoad) {
		t.Fatalf("expected ErrLogoLoad, got %v", err)
	}
	if strings.Count(err.Error(), "logo load failed") != 1 {
		t.Fatalf("expected the sentinel exactly once, got %v", err)
	}
}

func TestCompositeBackgroundBadCodeLayer(t *testing.T) {
	c := NewCompositor(staticFetcher{img: testLogo(64, 64)})
	_, err := c.CompositeBackground(context.Background(), []byte("garbage"), "https://example.com/logo.png", 256, 0.3, color.White)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender for a corrupt code layer, got %v", err)
	}
}

package qr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

var (
	// ErrRender means the code could not be encoded or rasterized.
	ErrRender = errors.New("code render failed")
	// ErrLogoLoad means a remote logo image could not be fetched or decoded.
	ErrLogoLoad = errors.New("logo load failed")
)

// Renderer produces a styled code raster for a payload URL.
type Renderer struct {
	Fetcher ImageFetcher
	Logger  *zap.SugaredLogger
}

func NewRenderer(fetcher ImageFetcher, logger *zap.SugaredLogger) *Renderer {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	return &Renderer{Fetcher: fetcher, Logger: logger}
}

// Render encodes payload at style.Size x style.Size and returns PNG bytes.
//
// The background is filled with style.LightColor unless the style requests a
// full-bleed background logo; then the background stays transparent and the
// compositor supplies the final opaque backdrop. A failed inline logo fetch
// degrades to a plain code; every other failure is fatal.
func (r *Renderer) Render(ctx context.Context, payload string, style Style) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrRender)
	}
	style = Resolve(&style)

	code, err := qrcode.New(payload, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	grid := code.Bitmap()
	n := len(grid)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty module grid", ErrRender)
	}

	size := style.Size
	cell := float64(size) / float64(n)
	transparent := style.Logo.Position == LogoBackground && style.Logo.URL != ""

	dc := gg.NewContext(size, size)
	if !transparent {
		dc.SetColor(Color(style.LightColor, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
		dc.Clear()
	}

	setForeground(dc, style)

	quiet := quietZone(grid)
	eyes := eyeRegions(n, quiet)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !grid[y][x] || inEye(eyes, x, y) {
				continue
			}
			drawModule(dc, style.Pattern, float64(x)*cell, float64(y)*cell, cell)
			dc.Fill()
		}
	}

	for _, e := range eyes {
		drawEye(dc, style.EyeStyle, float64(e.x)*cell, float64(e.y)*cell, cell)
	}

	if style.Logo.Position == LogoInline && style.Logo.URL != "" {
		if err := r.embedLogo(ctx, dc, style, cell); err != nil {
			// Inline logos ride on error correction; a missing one
			// degrades to a plain code instead of failing the render.
			if r.Logger != nil {
				r.Logger.Warnf("inline logo skipped: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrRender)
	}
	return buf.Bytes(), nil
}

// setForeground installs the fill used by dots and eyes alike: one solid
// color, or one shared two-stop gradient so the whole symbol reads as a
// single coherent sweep.
func setForeground(dc *gg.Context, style Style) {
	dark := Color(style.DarkColor, color.RGBA{A: 255})
	if !style.Gradient.Enabled {
		dc.SetColor(dark)
		return
	}

	c1 := Color(style.Gradient.Color1, dark)
	c2 := Color(style.Gradient.Color2, dark)
	w := float64(dc.Width())

	var grad gg.Gradient
	if style.Gradient.Type == GradientRadial {
		grad = gg.NewRadialGradient(w/2, w/2, 0, w/2, w/2, w/2)
	} else {
		// Linear runs at a fixed 45 degrees.
		grad = gg.NewLinearGradient(0, 0, w, w)
	}
	grad.AddColorStop(0, c1)
	grad.AddColorStop(1, c2)
	dc.SetFillStyle(grad)
}

// quietZone returns the width in modules of the border go-qrcode bakes
// around the symbol.
func quietZone(grid [][]bool) int {
	for i := range grid {
		if grid[i][i] {
			return i
		}
	}
	return 0
}

type eyeRegion struct {
	x, y int
}

const eyeModules = 7

func eyeRegions(n, quiet int) []eyeRegion {
	return []eyeRegion{
		{quiet, quiet},
		{n - quiet - eyeModules, quiet},
		{quiet, n - quiet - eyeModules},
	}
}

func inEye(eyes []eyeRegion, x, y int) bool {
	for _, e := range eyes {
		if x >= e.x && x < e.x+eyeModules && y >= e.y && y < e.y+eyeModules {
			return true
		}
	}
	return false
}

func drawModule(dc *gg.Context, pattern string, x, y, s float64) {
	switch pattern {
	case PatternRounded:
		dc.DrawRoundedRectangle(x, y, s, s, s*0.3)
	case PatternExtraRounded:
		dc.DrawRoundedRectangle(x, y, s, s, s*0.5)
	case PatternDots:
		dc.DrawCircle(x+s/2, y+s/2, s*0.45)
	case PatternClassy:
		drawLeaf(dc, x, y, s, s*0.5, 0)
	case PatternClassyRounded:
		drawLeaf(dc, x, y, s, s*0.5, s*0.25)
	default:
		dc.DrawRectangle(x, y, s, s)
	}
}

// drawEye draws one finder marker: a ring (outer square minus its hole)
// and the center pupil, both shaped by the eye style independently of the
// dot pattern.
func drawEye(dc *gg.Context, style string, x, y, cell float64) {
	outer := 7 * cell
	inner := 5 * cell
	pupil := 3 * cell

	dc.SetFillRule(gg.FillRuleEvenOdd)
	eyePath(dc, style, x, y, outer)
	eyePath(dc, style, x+cell, y+cell, inner)
	dc.Fill()
	dc.SetFillRule(gg.FillRuleWinding)

	eyePath(dc, style, x+2*cell, y+2*cell, pupil)
	dc.Fill()
}

func eyePath(dc *gg.Context, style string, x, y, s float64) {
	dc.NewSubPath()
	switch style {
	case PatternRounded:
		dc.DrawRoundedRectangle(x, y, s, s, s*0.25)
	case PatternExtraRounded:
		dc.DrawRoundedRectangle(x, y, s, s, s*0.4)
	case PatternDots:
		dc.DrawCircle(x+s/2, y+s/2, s/2)
	case PatternClassy:
		drawLeaf(dc, x, y, s, s*0.4, 0)
	case PatternClassyRounded:
		drawLeaf(dc, x, y, s, s*0.4, s*0.2)
	default:
		dc.DrawRectangle(x, y, s, s)
	}
}

// drawLeaf paths a square with the top-left/bottom-right corners rounded
// by a and the other two corners rounded by b (b may be zero).
func drawLeaf(dc *gg.Context, x, y, s, a, b float64) {
	dc.NewSubPath()
	dc.MoveTo(x+a, y)
	dc.LineTo(x+s-b, y)
	if b > 0 {
		dc.QuadraticTo(x+s, y, x+s, y+b)
	}
	dc.LineTo(x+s, y+s-a)
	dc.QuadraticTo(x+s, y+s, x+s-a, y+s)
	dc.LineTo(x+b, y+s)
	if b > 0 {
		dc.QuadraticTo(x, y+s, x, y+s-b)
	}
	dc.LineTo(x, y+a)
	dc.QuadraticTo(x, y, x+a, y)
	dc.ClosePath()
}

func (r *Renderer) embedLogo(ctx context.Context, dc *gg.Context, style Style, cell float64) error {
	fetcher := r.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	img, err := fetcher.Fetch(ctx, style.Logo.URL)
	if err != nil {
		return err
	}

	size := dc.Width()
	// Bounded to ~40% of the symbol so error correction absorbs the
	// covered modules; no hole is punched in the data.
	logoSize := size * 2 / 5
	scaled := resize.Thumbnail(uint(logoSize), uint(logoSize), img, resize.Lanczos3)

	light := Color(style.LightColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	cx, cy := float64(size)/2, float64(size)/2
	dc.SetColor(light)
	dc.DrawCircle(cx, cy, float64(logoSize)/2+cell)
	dc.Fill()
	dc.DrawImageAnchored(scaled, size/2, size/2, 0.5, 0.5)
	return nil
}

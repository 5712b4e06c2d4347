package annotate

import (
	"image"
	"image/color"
	"testing"
)

func TestNewRendererMissingFontFallsBack(t *testing.T) {
	r := NewRenderer("testdata/does-not-exist.ttf", 11)
	if r.face == nil {
		t.Fatal("renderer has no face after fallback")
	}

	w, h := r.MeasureText("recyclable_plastic_bottle 0.91")
	if w <= 0 || h <= 0 {
		t.Errorf("MeasureText returned %dx%d, want positive dimensions", w, h)
	}
}

func TestMeasurementPathsAgreeWithinTolerance(t *testing.T) {
	r := NewRenderer("testdata/does-not-exist.ttf", 11)

	for _, s := range []string{"A", "recyclable 0.77", "hello world"} {
		gw, gh := measureGlyphBounds(r.face, s)
		aw, ah := measureAdvance(r.face, s)

		if gw <= 0 || gh <= 0 {
			// This face cannot report glyph bounds; the advance path is
			// the one in use and there is nothing to compare.
			continue
		}
		// Glyph bounds are tight while advance includes side bearings and
		// line gap, so allow a per-glyph rounding margin.
		if diff := aw - gw; diff < 0 || diff > len(s)*3+4 {
			t.Errorf("width mismatch for %q: bounds=%d advance=%d", s, gw, aw)
		}
		if diff := ah - gh; diff < -2 || diff > 8 {
			t.Errorf("height mismatch for %q: bounds=%d advance=%d", s, gh, ah)
		}
	}
}

func TestLabelOriginClampsTop(t *testing.T) {
	x, y := labelOrigin(10, 5, 40, 14, 640)
	if x != 10 {
		t.Errorf("x = %d, want 10", x)
	}
	if y != labelMargin {
		t.Errorf("y = %d, want clamped to %d", y, labelMargin)
	}
}

func TestLabelOriginShiftsLeftAtRightEdge(t *testing.T) {
	frameW := 100
	textW := 60
	x, _ := labelOrigin(80, 50, textW, 14, frameW)
	if x+textW > frameW {
		t.Errorf("label overflows right edge: x=%d textW=%d frameW=%d", x, textW, frameW)
	}
}

func TestLabelOriginNeverNegative(t *testing.T) {
	x, y := labelOrigin(0, 0, 500, 14, 100)
	if x < 0 || y < 0 {
		t.Errorf("origin (%d,%d) outside frame", x, y)
	}
}

func TestDrawLabelMutatesInPlace(t *testing.T) {
	r := NewRenderer("testdata/does-not-exist.ttf", 11)

	img := image.NewRGBA(image.Rect(0, 0, 120, 90))
	green := color.RGBA{0, 255, 0, 255}

	got := r.DrawLabel(img, [4]float64{20, 30, 80, 70}, "organic 0.77", green)
	if got != img {
		t.Error("DrawLabel returned a different buffer, want the caller's frame")
	}

	// Box outline pixel.
	if img.RGBAAt(20, 30) != green {
		t.Error("box outline corner not drawn")
	}

	changed := false
	for i := range img.Pix {
		if img.Pix[i] != 0 {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("frame buffer was not mutated")
	}
}

func TestPatchHeightCoversDescenders(t *testing.T) {
	r := NewRenderer("testdata/does-not-exist.ttf", 11)
	m := r.face.Metrics()
	lineH := m.Ascent.Ceil() + m.Descent.Ceil()

	// A short measured bbox must not shrink the patch below the line
	// height the baseline placement assumes.
	if got := r.patchHeight(1); got != lineH {
		t.Errorf("patchHeight(1) = %d, want line height %d", got, lineH)
	}
	if got := r.patchHeight(lineH + 5); got != lineH+5 {
		t.Errorf("patchHeight(%d) = %d, want measured height kept", lineH+5, got)
	}

	// Baseline at ascent plus the descent must land inside the patch for
	// a descender-heavy label.
	_, textH := r.MeasureText("gjpqy 0.91")
	if lineH > r.patchHeight(textH) {
		t.Error("descenders spill past the label background")
	}
}

func TestDrawLabelBoxPartiallyOutsideFrame(t *testing.T) {
	r := NewRenderer("testdata/does-not-exist.ttf", 11)

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	// Must not panic with coordinates past the frame edges.
	r.DrawLabel(img, [4]float64{-10, -5, 200, 100}, "可回收物_塑料瓶 0.91", color.RGBA{0, 255, 0, 255})
}

package annotate

import (
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	labelMargin = 2
	strokeWidth = 2
)

// probeString exercises both Latin and CJK glyphs when checking what the
// loaded face can measure.
const probeString = "Ag可回收物"

// Renderer draws bounding boxes and localized labels onto raster frames.
// The font face is loaded once at construction; rendering never fails due
// to a missing font.
type Renderer struct {
	face font.Face

	// Chosen once at construction: glyph-bounds measurement when the face
	// supports it, advance+line-metrics otherwise.
	useGlyphBounds bool
}

// NewRenderer loads the configured font file. When the file cannot be
// loaded it searches the system font list for a CJK-capable face, and as
// a last resort degrades to the built-in basic face with a warning.
func NewRenderer(fontPath string, size float64) *Renderer {
	face, err := loadFace(fontPath, size)
	if err != nil {
		log.Warn().Err(err).Str("font", fontPath).Msg("Font not loadable, trying system fonts")
		face, err = loadSystemCJKFace(size)
	}
	if err != nil {
		log.Warn().Err(err).Msg("No CJK font available, falling back to built-in face")
		face = basicfont.Face7x13
	}

	r := &Renderer{face: face}
	r.useGlyphBounds = r.probeGlyphBounds()
	return r
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// loadSystemCJKFace searches installed fonts for common CJK font files.
func loadSystemCJKFace(size float64) (font.Face, error) {
	preferred := []string{
		"simhei.ttf",
		"msyh.ttf",
		"notosanscjk",
		"wqy-zenhei",
		"simsun.ttc",
	}
	for _, want := range preferred {
		for _, path := range findfont.List() {
			if !strings.Contains(strings.ToLower(path), want) {
				continue
			}
			face, err := loadFace(path, size)
			if err == nil {
				log.Info().Str("font", path).Msg("Loaded system CJK font")
				return face, nil
			}
		}
	}
	return nil, os.ErrNotExist
}

// probeGlyphBounds checks once whether the glyph-bounds measurement API
// yields usable dimensions for this face.
func (r *Renderer) probeGlyphBounds() bool {
	w, h := measureGlyphBounds(r.face, probeString)
	return w > 0 && h > 0
}

// MeasureText returns the pixel width and height needed to render s in
// the configured face.
func (r *Renderer) MeasureText(s string) (int, int) {
	if r.useGlyphBounds {
		return measureGlyphBounds(r.face, s)
	}
	return measureAdvance(r.face, s)
}

// measureGlyphBounds uses the exact string bounding box.
func measureGlyphBounds(face font.Face, s string) (int, int) {
	bounds, _ := font.BoundString(face, s)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	return w, h
}

// measureAdvance uses the string advance and the face line metrics.
func measureAdvance(face font.Face, s string) (int, int) {
	d := &font.Drawer{Face: face}
	w := d.MeasureString(s).Ceil()
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	return w, h
}

// labelOrigin places a textW by textH label for a box whose top-left corner
// is (x1,y1): above the top edge with a small margin, clamped away from
// the frame top, and shifted left so it never overflows the right edge.
func labelOrigin(x1, y1, textW, textH, frameW int) (int, int) {
	textX := x1
	textY := y1 - textH - labelMargin
	if textY < labelMargin {
		textY = labelMargin
	}
	if textX+textW > frameW {
		textX = frameW - textW - labelMargin
	}
	if textX < 0 {
		textX = 0
	}
	return textX, textY
}

// DrawLabel draws the bounding box outline and the label with a filled
// background patch onto img. img is mutated in place and returned for
// chaining; no new buffer is allocated.
func (r *Renderer) DrawLabel(img *image.RGBA, box [4]float64, label string, col color.RGBA) *image.RGBA {
	x1 := int(math.Round(box[0]))
	y1 := int(math.Round(box[1]))
	x2 := int(math.Round(box[2]))
	y2 := int(math.Round(box[3]))

	drawRectOutline(img, x1, y1, x2, y2, col, strokeWidth)

	textW, textH := r.MeasureText(label)
	patchH := r.patchHeight(textH)
	textX, textY := labelOrigin(x1, y1, textW, patchH, img.Bounds().Dx())

	fillRect(img, textX, textY, textW, patchH, col)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: r.face,
		Dot:  fixed.P(textX, textY+r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)

	return img
}

// patchHeight sizes the label background from the same line metrics that
// place the baseline, so descenders always land inside the patch even
// when the measured glyph bounds are shorter than a full line.
func (r *Renderer) patchHeight(textH int) int {
	m := r.face.Metrics()
	lineH := m.Ascent.Ceil() + m.Descent.Ceil()
	if textH > lineH {
		return textH
	}
	return lineH
}

// drawRectOutline draws an axis-aligned rectangle outline, clipped to img.
func drawRectOutline(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		hline(img, x1, x2, y1+s, col)
		hline(img, x1, x2, y2-s, col)
		vline(img, x1+s, y1, y2, col)
		vline(img, x2-s, y1, y2, col)
	}
}

func hline(img *image.RGBA, x1, x2, y int, col color.RGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := maxInt(x1, b.Min.X); x <= minInt(x2, b.Max.X-1); x++ {
		img.SetRGBA(x, y, col)
	}
}

func vline(img *image.RGBA, x, y1, y2 int, col color.RGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := maxInt(y1, b.Min.Y); y <= minInt(y2, b.Max.Y-1); y++ {
		img.SetRGBA(x, y, col)
	}
}

// fillRect paints the label background patch, clipped to img.
func fillRect(img *image.RGBA, x, y, w, h int, col color.RGBA) {
	b := img.Bounds()
	for j := maxInt(y, b.Min.Y); j < minInt(y+h, b.Max.Y); j++ {
		for i := maxInt(x, b.Min.X); i < minInt(x+w, b.Max.X); i++ {
			img.SetRGBA(i, j, col)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

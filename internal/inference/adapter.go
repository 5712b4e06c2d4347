package inference

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"garbage-vision-go/internal/annotate"
	"garbage-vision-go/internal/catalog"
	"garbage-vision-go/internal/detector"
	"garbage-vision-go/internal/logging"
	"garbage-vision-go/internal/metrics"
	"garbage-vision-go/internal/models"
)

// highlight is the stroke and label background color for every detection.
var highlight = color.RGBA{R: 0, G: 255, B: 0, A: 255}

var supportedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
}

// Adapter drives one inference pass: decode, detect, remap categories,
// annotate, persist.
type Adapter struct {
	detector detector.Detector
	catalog  *catalog.Catalog
	renderer *annotate.Renderer
	quality  int
	log      zerolog.Logger
}

// NewAdapter wires the detector, catalog and renderer together.
func NewAdapter(det detector.Detector, cat *catalog.Catalog, ren *annotate.Renderer, jpegQuality int) *Adapter {
	return &Adapter{
		detector: det,
		catalog:  cat,
		renderer: ren,
		quality:  jpegQuality,
		log:      logging.ServiceLogger("inference"),
	}
}

// DetectAndAnnotate loads imgPath, runs the detector at confThreshold,
// remaps each detection to its big category, draws the labels and writes
// the annotated image to a path derived from the input filename
// ("annotated_" prefix, same directory). With zero detections no
// annotated file is produced and the returned path is empty.
//
// The detector pre-filters by confThreshold; records below it never
// appear. Detector failures propagate as ErrInference; callers decide the
// fallback.
func (a *Adapter) DetectAndAnnotate(imgPath string, confThreshold float64) (string, []models.DetectionRecord, error) {
	mat := gocv.IMRead(imgPath, gocv.IMReadColor)
	if mat.Empty() {
		return "", nil, fmt.Errorf("%w: %s", ErrImageRead, imgPath)
	}
	defer mat.Close()

	detections, err := a.detector.Detect(mat, confThreshold)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	records := make([]models.DetectionRecord, 0, len(detections))
	if len(detections) == 0 {
		return "", records, nil
	}

	src, err := mat.ToImage()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	frame := toRGBA(src)

	for _, det := range detections {
		small := a.catalog.SmallName(det.ClassID)
		big := a.catalog.MapToBig(small)

		records = append(records, models.DetectionRecord{
			BigCategory:   big,
			SmallCategory: small,
			Confidence:    math.Round(det.Confidence*1000) / 1000,
			Box:           det.Box,
		})

		label := fmt.Sprintf("%s_%s %.2f", big, small, det.Confidence)
		a.renderer.DrawLabel(frame, det.Box, label, highlight)
		metrics.DetectionsTotal.WithLabelValues(big).Inc()
	}

	annotatedPath := derivedOutputPath(imgPath)
	if err := writeJPEG(annotatedPath, frame, a.quality); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	a.log.Debug().
		Str("image", imgPath).
		Int("detections", len(records)).
		Str("annotated", annotatedPath).
		Msg("Inference completed")

	return annotatedPath, records, nil
}

// FolderResult is the per-image outcome of a batch folder run.
type FolderResult struct {
	Image         string                   `json:"image"`
	AnnotatedPath string                   `json:"annotated_path,omitempty"`
	Details       []models.DetectionRecord `json:"details"`
}

// DetectFolder runs DetectAndAnnotate over every supported image in dir.
// Per-image failures are logged and skipped; they never abort the batch.
func (a *Adapter) DetectFolder(dir string, confThreshold float64) ([]FolderResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var results []FolderResult
	for _, entry := range entries {
		if entry.IsDir() || !supportedImageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		imgPath := filepath.Join(dir, entry.Name())
		annotated, records, err := a.DetectAndAnnotate(imgPath, confThreshold)
		if err != nil {
			a.log.Warn().Err(err).Str("image", imgPath).Msg("Skipping image in batch run")
			continue
		}
		results = append(results, FolderResult{
			Image:         entry.Name(),
			AnnotatedPath: annotated,
			Details:       records,
		})
	}
	return results, nil
}

// derivedOutputPath prefixes the input filename, keeping its directory.
func derivedOutputPath(imgPath string) string {
	return filepath.Join(filepath.Dir(imgPath), "annotated_"+filepath.Base(imgPath))
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
}

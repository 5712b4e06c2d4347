// Package detector wraps the pre-trained garbage-item detection network.
// The network is treated as a black box: it takes an image and a
// confidence threshold and returns boxes with class id and confidence.
package detector

import (
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// Detection is one raw box emitted by the network, before any category
// mapping. Box is x1,y1,x2,y2 in pixel coordinates of the input image.
type Detection struct {
	ClassID    int
	Confidence float64
	Box        [4]float64
}

// Detector runs inference on a single decoded image. Implementations
// pre-filter by the given confidence threshold; callers never re-filter.
type Detector interface {
	Detect(img gocv.Mat, confThreshold float64) ([]Detection, error)
}

// DNNDetector runs the detection network in-process through the OpenCV
// DNN module.
type DNNDetector struct {
	net       gocv.Net
	inputSize int
	ready     bool
}

// NewDNNDetector loads the network from the model file (and optional
// config file). A missing or unloadable model does not fail construction:
// the detector stays usable and reports the error per Detect call, so the
// serving process can still start and stream raw frames.
func NewDNNDetector(modelPath, configPath string, inputSize int) *DNNDetector {
	d := &DNNDetector{inputSize: inputSize}

	if _, err := os.Stat(modelPath); err != nil {
		log.Warn().Str("model", modelPath).Msg("Detection model file not found, inference disabled")
		return d
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		log.Warn().Str("model", modelPath).Msg("Failed to load detection network, inference disabled")
		return d
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		log.Warn().Err(err).Msg("Failed to set DNN backend")
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		log.Warn().Err(err).Msg("Failed to set DNN target")
	}

	d.net = net
	d.ready = true
	log.Info().Str("model", modelPath).Int("input_size", inputSize).Msg("Detection network initialized")
	return d
}

// Detect runs one forward pass and returns detections at or above
// confThreshold, in the network's output order.
func (d *DNNDetector) Detect(img gocv.Mat, confThreshold float64) ([]Detection, error) {
	if !d.ready {
		return nil, fmt.Errorf("detection network not initialized")
	}
	if img.Empty() {
		return nil, fmt.Errorf("empty input image")
	}

	blob := gocv.BlobFromImage(img, 1.0/127.5,
		image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// Output rows are [image_id, class_id, confidence, x1, y1, x2, y2]
	// with normalized box coordinates.
	rows := output.Total() / 7
	reshaped := output.Reshape(1, rows)
	defer reshaped.Close()

	cols := float64(img.Cols())
	imgRows := float64(img.Rows())

	var detections []Detection
	for i := 0; i < reshaped.Rows(); i++ {
		conf := float64(reshaped.GetFloatAt(i, 2))
		if conf < confThreshold {
			continue
		}
		detections = append(detections, Detection{
			ClassID:    int(reshaped.GetFloatAt(i, 1)),
			Confidence: conf,
			Box: [4]float64{
				float64(reshaped.GetFloatAt(i, 3)) * cols,
				float64(reshaped.GetFloatAt(i, 4)) * imgRows,
				float64(reshaped.GetFloatAt(i, 5)) * cols,
				float64(reshaped.GetFloatAt(i, 6)) * imgRows,
			},
		})
	}

	return detections, nil
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	if d.ready {
		return d.net.Close()
	}
	return nil
}

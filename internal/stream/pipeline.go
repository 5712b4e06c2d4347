package stream

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"garbage-vision-go/internal/camera"
	"garbage-vision-go/internal/logging"
	"garbage-vision-go/internal/metrics"
	"garbage-vision-go/internal/models"
)

// Boundary delimits the multipart chunks of the MJPEG stream.
const Boundary = "frame"

// ContentType is the response content type for the MJPEG stream.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

// Inferencer is the slice of the inference adapter the pipeline needs.
type Inferencer interface {
	DetectAndAnnotate(imgPath string, confThreshold float64) (string, []models.DetectionRecord, error)
}

// Publisher fans per-frame detection results out to downstream consumers.
type Publisher interface {
	PublishDetections(source, image string, records []models.DetectionRecord) error
}

// Pipeline is the per-stream frame loop: capture, temp-persist, infer
// and annotate (falling back to the raw frame), encode, emit as a
// multipart chunk.
// It is a cooperative single producer: backpressure comes from the
// transport, and a consumer disconnect surfaces as a write failure.
type Pipeline struct {
	session  *camera.Session
	infer    Inferencer
	open     SourceOpener
	pub      Publisher
	tempPath string
	conf     float64
	quality  int
	log      zerolog.Logger
}

// NewPipeline builds a pipeline for one stream request. tempPath is the
// shared single-slot frame file; only one streaming session is supported
// at a time.
func NewPipeline(session *camera.Session, infer Inferencer, open SourceOpener, tempPath string, confThreshold float64, jpegQuality int) *Pipeline {
	return &Pipeline{
		session:  session,
		infer:    infer,
		open:     open,
		tempPath: tempPath,
		conf:     confThreshold,
		quality:  jpegQuality,
		log:      logging.ServiceLogger("stream"),
	}
}

// SetPublisher attaches an optional detection-event publisher. Frames
// with detections are announced on it; publish failures never affect the
// stream.
func (p *Pipeline) SetPublisher(pub Publisher) {
	p.pub = pub
}

// Run produces multipart chunks on w until the session stops, the source
// fails, or the consumer disconnects. An unopenable source yields an
// empty body; this is not a process error. The capture device and the
// temp frame file are released on every exit path.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) {
	source := p.session.Source()
	log := logging.WithSource(p.log, source)

	src, err := p.open(source)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot open capture source")
		p.cleanupTemp()
		return
	}
	defer src.Close()
	defer p.cleanupTemp()

	flusher, _ := w.(http.Flusher)

	for p.session.Active() {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Stream consumer context done")
			return
		default:
		}

		frame, err := src.ReadFrame()
		if err != nil {
			log.Debug().Err(err).Msg("Frame read failed, ending stream")
			return
		}

		chunk, ok := p.processFrame(frame)
		if !ok {
			continue
		}

		if !writePart(w, flusher, chunk) {
			log.Debug().Msg("Stream consumer disconnected")
			return
		}
		metrics.FramesStreamed.Inc()
	}

	log.Debug().Msg("Stream stopped by session")
}

// processFrame persists the frame to the shared temp path, attempts
// inference, and returns the JPEG bytes to emit. A failed inference falls
// back to the raw frame; a failed encode skips the frame (ok=false). A
// single bad frame never terminates the stream.
func (p *Pipeline) processFrame(frame image.Image) ([]byte, bool) {
	if err := p.writeTempFrame(frame); err != nil {
		p.log.Warn().Err(err).Msg("Cannot persist temp frame, skipping")
		metrics.FramesDropped.Inc()
		return nil, false
	}

	annotatedPath, records, err := p.infer.DetectAndAnnotate(p.tempPath, p.conf)
	if err == nil && annotatedPath != "" {
		if p.pub != nil && len(records) > 0 {
			if pubErr := p.pub.PublishDetections("stream", "", records); pubErr != nil {
				p.log.Debug().Err(pubErr).Msg("Failed to publish detection event")
			}
		}
		chunk, readErr := os.ReadFile(annotatedPath)
		os.Remove(annotatedPath)
		if readErr == nil {
			return chunk, true
		}
		p.log.Warn().Err(readErr).Msg("Annotated frame unreadable, emitting raw frame")
	} else if err != nil {
		p.log.Debug().Err(err).Msg("Inference failed, emitting raw frame")
		metrics.InferenceFallbacks.Inc()
	}

	chunk, err := encodeJPEG(frame, p.quality)
	if err != nil {
		p.log.Warn().Err(err).Msg("JPEG encode failed, skipping frame")
		metrics.FramesDropped.Inc()
		return nil, false
	}
	return chunk, true
}

func (p *Pipeline) writeTempFrame(frame image.Image) error {
	f, err := os.Create(p.tempPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, frame, &jpeg.Options{Quality: p.quality})
}

func (p *Pipeline) cleanupTemp() {
	if err := os.Remove(p.tempPath); err != nil && !os.IsNotExist(err) {
		p.log.Debug().Err(err).Msg("Temp frame cleanup failed")
	}
}

// writePart emits one boundary-delimited JPEG chunk. Returns false when
// the consumer is gone.
func writePart(w io.Writer, flusher http.Flusher, jpegBytes []byte) bool {
	if _, err := io.WriteString(w, "--"+Boundary+"\r\n"); err != nil {
		return false
	}
	if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
		return false
	}
	if _, err := io.WriteString(w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpegBytes))); err != nil {
		return false
	}
	if _, err := w.Write(jpegBytes); err != nil {
		return false
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return false
	}
	if flusher != nil {
		flusher.Flush()
	}
	return true
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

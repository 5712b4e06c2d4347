package stream

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"garbage-vision-go/internal/camera"
	"garbage-vision-go/internal/models"
)

type fakeSource struct {
	frames []image.Image
	idx    int
	closed bool
	onRead func(frameIndex int)
}

func (f *fakeSource) ReadFrame() (image.Image, error) {
	if f.onRead != nil {
		f.onRead(f.idx)
	}
	if f.idx >= len(f.frames) {
		return nil, ErrCaptureRead
	}
	img := f.frames[f.idx]
	f.idx++
	return img, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

type fakeInferencer struct {
	fn func(imgPath string, conf float64) (string, []models.DetectionRecord, error)
}

func (f *fakeInferencer) DetectAndAnnotate(imgPath string, conf float64) (string, []models.DetectionRecord, error) {
	return f.fn(imgPath, conf)
}

func testFrame(seed uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{seed, uint8(x), uint8(y), 255})
		}
	}
	return img
}

func noDetections(imgPath string, conf float64) (string, []models.DetectionRecord, error) {
	return "", nil, nil
}

func newTestPipeline(t *testing.T, session *camera.Session, src FrameSource, infer Inferencer) *Pipeline {
	t.Helper()
	tempPath := filepath.Join(t.TempDir(), "temp_frame.jpg")
	opener := func(source string) (FrameSource, error) { return src, nil }
	return NewPipeline(session, infer, opener, tempPath, 0.5, 90)
}

func readParts(t *testing.T, body []byte) [][]byte {
	t.Helper()
	mr := multipart.NewReader(bytes.NewReader(body), Boundary)
	var parts [][]byte
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The stream has no closing boundary; treat a parse error at
			// the tail as end of input.
			break
		}
		if ct := p.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part content-type = %q, want image/jpeg", ct)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		parts = append(parts, data)
	}
	return parts
}

func TestRunEmitsOneChunkPerFrame(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")
	src := &fakeSource{frames: []image.Image{testFrame(1), testFrame(2)}}

	p := newTestPipeline(t, session, src, &fakeInferencer{fn: noDetections})

	var buf bytes.Buffer
	p.Run(context.Background(), &buf)

	parts := readParts(t, buf.Bytes())
	if len(parts) != 2 {
		t.Fatalf("emitted %d chunks, want 2", len(parts))
	}
	if !src.closed {
		t.Error("capture source not released on exit")
	}
	if _, err := os.Stat(p.tempPath); !os.IsNotExist(err) {
		t.Error("temp frame file not cleaned up")
	}
}

func TestRunOpenFailureYieldsEmptyBody(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")

	tempPath := filepath.Join(t.TempDir(), "temp_frame.jpg")
	// Leftover temp state from a prior iteration must be removed even
	// when the loop body is never entered.
	if err := os.WriteFile(tempPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	opener := func(source string) (FrameSource, error) { return nil, ErrCaptureOpen }
	p := NewPipeline(session, &fakeInferencer{fn: noDetections}, opener, tempPath, 0.5, 90)

	var buf bytes.Buffer
	p.Run(context.Background(), &buf)

	if buf.Len() != 0 {
		t.Errorf("body has %d bytes, want empty", buf.Len())
	}
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Error("stale temp frame not removed")
	}
}

func TestRunInferenceFailureFallsBackToRawFrame(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")
	frame := testFrame(7)
	src := &fakeSource{frames: []image.Image{frame}}

	infer := &fakeInferencer{fn: func(string, float64) (string, []models.DetectionRecord, error) {
		return "", nil, errors.New("model unavailable")
	}}
	p := newTestPipeline(t, session, src, infer)

	var buf bytes.Buffer
	p.Run(context.Background(), &buf)

	parts := readParts(t, buf.Bytes())
	if len(parts) != 1 {
		t.Fatalf("emitted %d chunks, want exactly 1", len(parts))
	}

	var want bytes.Buffer
	if err := jpeg.Encode(&want, frame, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parts[0], want.Bytes()) {
		t.Error("fallback chunk differs from the raw frame encoding")
	}
}

type recordingPublisher struct {
	source string
	calls  int
}

func (p *recordingPublisher) PublishDetections(source, imageName string, records []models.DetectionRecord) error {
	p.source = source
	p.calls++
	return nil
}

func TestRunUsesAnnotatedOutputAndDeletesIt(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")
	src := &fakeSource{frames: []image.Image{testFrame(3)}}

	annotated := []byte("\xff\xd8annotated-jpeg-bytes")
	annotatedPath := filepath.Join(t.TempDir(), "annotated_temp_frame.jpg")
	infer := &fakeInferencer{fn: func(imgPath string, conf float64) (string, []models.DetectionRecord, error) {
		if err := os.WriteFile(annotatedPath, annotated, 0o644); err != nil {
			t.Fatal(err)
		}
		return annotatedPath, []models.DetectionRecord{{BigCategory: "recyclable"}}, nil
	}}
	p := newTestPipeline(t, session, src, infer)
	pub := &recordingPublisher{}
	p.SetPublisher(pub)

	var buf bytes.Buffer
	p.Run(context.Background(), &buf)

	parts := readParts(t, buf.Bytes())
	if len(parts) != 1 {
		t.Fatalf("emitted %d chunks, want 1", len(parts))
	}
	if !bytes.Equal(parts[0], annotated) {
		t.Error("chunk does not contain the annotated frame bytes")
	}
	if _, err := os.Stat(annotatedPath); !os.IsNotExist(err) {
		t.Error("annotated temp file not deleted after loading")
	}
	if pub.calls != 1 || pub.source != "stream" {
		t.Errorf("publisher called %d times with source %q", pub.calls, pub.source)
	}
}

func TestRunStopsWhenSessionStops(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")

	src := &fakeSource{frames: []image.Image{testFrame(1), testFrame(2), testFrame(3), testFrame(4)}}
	src.onRead = func(frameIndex int) {
		if frameIndex == 2 {
			session.Stop()
		}
	}
	p := newTestPipeline(t, session, src, &fakeInferencer{fn: noDetections})

	var buf bytes.Buffer
	p.Run(context.Background(), &buf)

	// Stop was requested while reading the third frame; the loop must
	// observe it within one iteration.
	parts := readParts(t, buf.Bytes())
	if len(parts) > 3 {
		t.Errorf("emitted %d chunks after stop, want at most 3", len(parts))
	}
	if !src.closed {
		t.Error("capture source not released after stop")
	}
}

type failingWriter struct {
	allowed int
	written int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written >= w.allowed {
		return 0, errors.New("broken pipe")
	}
	w.written++
	return len(p), nil
}

func TestRunStopsOnConsumerDisconnect(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")

	frames := make([]image.Image, 10)
	for i := range frames {
		frames[i] = testFrame(uint8(i))
	}
	src := &fakeSource{frames: frames}
	p := newTestPipeline(t, session, src, &fakeInferencer{fn: noDetections})

	// First frame's part writes succeed, then the consumer goes away.
	p.Run(context.Background(), &failingWriter{allowed: 6})

	if !src.closed {
		t.Error("capture source not released after consumer disconnect")
	}
	if src.idx >= len(frames) {
		t.Error("pipeline kept reading all frames after the consumer disconnected")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	session := camera.NewSession("0")
	session.Start("0")
	src := &fakeSource{frames: []image.Image{testFrame(1), testFrame(2)}}
	p := newTestPipeline(t, session, src, &fakeInferencer{fn: noDetections})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	p.Run(ctx, &buf)

	if buf.Len() != 0 {
		t.Errorf("emitted %d bytes after cancelled context, want none", buf.Len())
	}
	if !src.closed {
		t.Error("capture source not released after context cancel")
	}
}

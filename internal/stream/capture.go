package stream

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"garbage-vision-go/internal/models"
)

var (
	// ErrCaptureOpen means the device or URI could not be opened.
	ErrCaptureOpen = errors.New("capture source could not be opened")

	// ErrCaptureRead means the source stopped producing frames.
	ErrCaptureRead = errors.New("capture read failed")
)

// FrameSource produces frames from an opened capture device or stream.
type FrameSource interface {
	// ReadFrame returns the next frame, or an error wrapping
	// ErrCaptureRead at end of stream.
	ReadFrame() (image.Image, error)
	Close() error
}

// SourceOpener opens a FrameSource for a session source string.
type SourceOpener func(source string) (FrameSource, error)

// deviceSource wraps an OpenCV VideoCapture.
type deviceSource struct {
	cap *gocv.VideoCapture
	buf gocv.Mat
}

// OpenDevice opens a capture source: a numeric string selects an indexed
// local device, any other string is treated as a network stream URI.
func OpenDevice(source string) (FrameSource, error) {
	var (
		cap *gocv.VideoCapture
		err error
	)
	if idx, convErr := strconv.Atoi(source); convErr == nil {
		cap, err = gocv.OpenVideoCapture(idx)
	} else {
		cap, err = gocv.OpenVideoCapture(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCaptureOpen, source, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%w: %s", ErrCaptureOpen, source)
	}

	return &deviceSource{cap: cap, buf: gocv.NewMat()}, nil
}

func (d *deviceSource) ReadFrame() (image.Image, error) {
	if ok := d.cap.Read(&d.buf); !ok || d.buf.Empty() {
		return nil, ErrCaptureRead
	}
	img, err := d.buf.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureRead, err)
	}
	return img, nil
}

func (d *deviceSource) Close() error {
	d.buf.Close()
	return d.cap.Close()
}

// ProbeDevices enumerates openable local capture devices by index,
// reporting each device's resolution.
func ProbeDevices(maxIndex int) []models.DeviceInfo {
	var devices []models.DeviceInfo
	for idx := 0; idx < maxIndex; idx++ {
		cap, err := gocv.OpenVideoCapture(idx)
		if err != nil {
			continue
		}
		if !cap.IsOpened() {
			cap.Close()
			continue
		}
		devices = append(devices, models.DeviceInfo{
			Index:  idx,
			Width:  int(cap.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(cap.Get(gocv.VideoCaptureFrameHeight)),
		})
		cap.Close()
	}
	log.Debug().Int("found", len(devices)).Msg("Camera device probe finished")
	return devices
}

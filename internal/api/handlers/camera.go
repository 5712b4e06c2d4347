package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"garbage-vision-go/internal/camera"
	"garbage-vision-go/internal/models"
	"garbage-vision-go/internal/stream"
)

// Streamer produces a complete MJPEG body on w, returning when the
// session stops or the consumer disconnects.
type Streamer interface {
	Run(ctx context.Context, w io.Writer)
}

// Prober enumerates openable local capture devices.
type Prober func(maxIndex int) []models.DeviceInfo

type CameraHandler struct {
	session       *camera.Session
	streamer      Streamer
	probe         Prober
	probeMaxIndex int
}

func NewCameraHandler(session *camera.Session, streamer Streamer, probe Prober, probeMaxIndex int) *CameraHandler {
	return &CameraHandler{
		session:       session,
		streamer:      streamer,
		probe:         probe,
		probeMaxIndex: probeMaxIndex,
	}
}

// StartCamera activates the camera session
// @Summary Start the camera session
// @Description Record the capture source and mark the session active. A numeric source selects a local device index, anything else is a stream URI.
// @Tags camera
// @Produce json
// @Param source path string true "Device index or stream URI"
// @Success 200 {object} models.CameraControlResponse
// @Router /camera/start/{source} [get]
func (h *CameraHandler) StartCamera(c *gin.Context) {
	// The route is a wildcard so URI sources keep their slashes; the
	// parameter carries a leading slash to strip.
	source := strings.TrimPrefix(c.Param("source"), "/")
	if source == "" {
		c.JSON(http.StatusOK, models.CameraControlResponse{
			Success: false,
			Error:   "source is required",
		})
		return
	}
	h.session.Start(source)

	log.Info().Str("source", source).Msg("Camera session started")
	c.JSON(http.StatusOK, models.CameraControlResponse{
		Success: true,
		Message: fmt.Sprintf("Camera %s started", source),
	})
}

// StopCamera deactivates the camera session
// @Summary Stop the camera session
// @Description Mark the session stopped. The running stream observes the flag and terminates within one frame.
// @Tags camera
// @Produce json
// @Success 200 {object} models.CameraControlResponse
// @Router /camera/stop [get]
func (h *CameraHandler) StopCamera(c *gin.Context) {
	h.session.Stop()

	log.Info().Msg("Camera session stopped")
	c.JSON(http.StatusOK, models.CameraControlResponse{
		Success: true,
		Message: "Camera stopped",
	})
}

// CameraStatus reads the session state
// @Summary Camera session status
// @Description Point-in-time read of the session flag and last recorded source
// @Tags camera
// @Produce json
// @Success 200 {object} models.CameraStatusResponse
// @Router /camera/status [get]
func (h *CameraHandler) CameraStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Status())
}

// StreamCamera serves the annotated MJPEG stream
// @Summary Live annotated MJPEG stream
// @Description Continuous multipart/x-mixed-replace stream of annotated frames while the session is active
// @Tags camera
// @Produce mpfd
// @Success 200
// @Router /camera/stream [get]
func (h *CameraHandler) StreamCamera(c *gin.Context) {
	c.Header("Content-Type", stream.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "close")
	c.Writer.WriteHeader(http.StatusOK)

	h.streamer.Run(c.Request.Context(), c.Writer)
}

// ListDevices enumerates local capture devices
// @Summary List openable capture devices
// @Description Probe local device indexes and report the ones that open, with their native resolution
// @Tags camera
// @Produce json
// @Success 200 {object} map[string][]models.DeviceInfo
// @Router /camera/devices [get]
func (h *CameraHandler) ListDevices(c *gin.Context) {
	devices := h.probe(h.probeMaxIndex)
	if devices == nil {
		devices = []models.DeviceInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

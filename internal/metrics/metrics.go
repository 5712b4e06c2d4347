// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FramesStreamed counts multipart chunks emitted to stream consumers.
	FramesStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garbage_vision_frames_streamed_total",
		Help: "Total MJPEG frame chunks emitted",
	})

	// FramesDropped counts frames skipped because encoding failed.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garbage_vision_frames_dropped_total",
		Help: "Total frames dropped due to encode failures",
	})

	// InferenceFallbacks counts stream frames emitted raw because
	// inference failed.
	InferenceFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garbage_vision_inference_fallbacks_total",
		Help: "Total stream frames emitted unannotated after an inference failure",
	})

	// DetectionsTotal counts detections by big category.
	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garbage_vision_detections_total",
		Help: "Total detections by big category",
	}, []string{"big_category"})

	// UploadsTotal counts upload requests by outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garbage_vision_uploads_total",
		Help: "Total upload inference requests by outcome",
	}, []string{"status"})
)

// Handler serves the default Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Version      string
	TemplatesDir string

	// natsConnected reports broker connectivity; nil when messaging is
	// disabled.
	natsConnected func() bool
}

func NewHealthHandler(version, templatesDir string, natsConnected func() bool) *HealthHandler {
	return &HealthHandler{
		Version:       version,
		TemplatesDir:  templatesDir,
		natsConnected: natsConnected,
	}
}

type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Version   string `json:"version" example:"1.0.0"`
	Messaging string `json:"messaging" example:"disabled"`
}

// @Summary Health check
// @Description Check if the detection service is healthy and responsive
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	messaging := "disabled"
	if h.natsConnected != nil {
		if h.natsConnected() {
			messaging = "connected"
		} else {
			messaging = "disconnected"
		}
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.Version,
		Messaging: messaging,
	})
}

// @Summary Home page
// @Description Serve the upload and live-stream UI shell
// @Tags ui
// @Produce html
// @Success 200
// @Router / [get]
func (h *HealthHandler) Home(c *gin.Context) {
	page := filepath.Join(h.TemplatesDir, "index.html")
	if _, err := os.Stat(page); err == nil {
		c.File(page)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service": "garbage-vision",
		"version": h.Version,
		"endpoints": gin.H{
			"upload": "/upload",
			"stream": "/camera/stream",
			"status": "/camera/status",
			"docs":   "/docs/index.html",
		},
	})
}

package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"garbage-vision-go/internal/metrics"
	"garbage-vision-go/internal/models"
)

// Inferencer runs one detection pass over an image on disk and returns
// the annotated output path. An empty path means nothing was detected.
type Inferencer interface {
	DetectAndAnnotate(imgPath string, confThreshold float64) (string, []models.DetectionRecord, error)
}

// Publisher fans detection results out to downstream consumers.
type Publisher interface {
	PublishDetections(source, image string, records []models.DetectionRecord) error
}

type UploadHandler struct {
	infer         Inferencer
	publisher     Publisher
	uploadsDir    string
	resultsDir    string
	confThreshold float64
}

func NewUploadHandler(infer Inferencer, publisher Publisher, uploadsDir, resultsDir string, confThreshold float64) *UploadHandler {
	return &UploadHandler{
		infer:         infer,
		publisher:     publisher,
		uploadsDir:    uploadsDir,
		resultsDir:    resultsDir,
		confThreshold: confThreshold,
	}
}

// Upload runs detection on a single uploaded image
// @Summary Detect garbage categories in an uploaded image
// @Description Save the uploaded image, run detection, annotate it and publish the result image
// @Tags detection
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} models.UploadResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "missing file field: "+err.Error())
		return
	}

	// Uploads are keyed by client filename; a repeated name overwrites
	// the previous upload and its result.
	filename := filepath.Base(file.Filename)
	uploadPath := filepath.Join(h.uploadsDir, filename)
	if err := c.SaveUploadedFile(file, uploadPath); err != nil {
		h.fail(c, "save upload: "+err.Error())
		return
	}

	annotatedPath, records, err := h.infer.DetectAndAnnotate(uploadPath, h.confThreshold)
	if err != nil {
		h.fail(c, err.Error())
		return
	}

	resultFilename := "result_" + filename
	resultPath := filepath.Join(h.resultsDir, resultFilename)
	if annotatedPath != "" {
		err = moveFile(annotatedPath, resultPath)
	} else {
		// Nothing detected; publish the original image unchanged.
		err = copyFile(uploadPath, resultPath)
	}
	if err != nil {
		h.fail(c, "publish result image: "+err.Error())
		return
	}

	if h.publisher != nil && len(records) > 0 {
		if err := h.publisher.PublishDetections("upload", filename, records); err != nil {
			log.Warn().Err(err).Msg("Failed to publish detection event")
		}
	}

	if records == nil {
		records = []models.DetectionRecord{}
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, models.UploadResponse{
		Success:     true,
		ResultImage: "/results/" + resultFilename,
		Categories:  models.CountCategories(records),
		Details:     records,
	})
}

// fail reports an upload error in the response body. The status stays
// 200; clients branch on the success flag.
func (h *UploadHandler) fail(c *gin.Context, msg string) {
	log.Error().Str("error", msg).Msg("Upload failed")
	metrics.UploadsTotal.WithLabelValues("error").Inc()
	c.JSON(http.StatusOK, models.UploadResponse{
		Success:    false,
		Error:      msg,
		Categories: map[string]int{},
		Details:    []models.DetectionRecord{},
	})
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

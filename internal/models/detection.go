package models

import "time"

// DetectionRecord is one object instance found in one frame or image,
// after the small to big category remap. Immutable once produced; ordering
// follows the detector's output order.
type DetectionRecord struct {
	BigCategory   string     `json:"big_category"`
	SmallCategory string     `json:"small_category"`
	Confidence    float64    `json:"confidence"`
	Box           [4]float64 `json:"box"` // x1, y1, x2, y2 pixel coords
}

// CategoryKey builds the "{big}_{small}" aggregation key used by the
// upload result counts.
func (r DetectionRecord) CategoryKey() string {
	return r.BigCategory + "_" + r.SmallCategory
}

// UploadResponse is the JSON body of POST /upload. Failures anywhere in
// the upload path are reported here with Success=false, never as an
// unhandled fault. Categories and Details are always present on success,
// as an empty map and empty list when nothing was detected.
type UploadResponse struct {
	Success     bool              `json:"success"`
	ResultImage string            `json:"result_image,omitempty"`
	Categories  map[string]int    `json:"categories"`
	Details     []DetectionRecord `json:"details"`
	Error       string            `json:"error,omitempty"`
}

// CameraControlResponse is the JSON body of /camera/start and /camera/stop.
type CameraControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CameraStatusResponse is a point-in-time read of the camera session.
// Source is an int for local device indexes and a string for stream URIs.
type CameraStatusResponse struct {
	Active bool `json:"active"`
	Source any  `json:"source"`
}

// DeviceInfo describes one openable local capture device.
type DeviceInfo struct {
	Index  int `json:"index"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectionEvent is published to NATS after each inference that produced
// detections.
type DetectionEvent struct {
	Source     string            `json:"source"` // "upload" or "stream"
	Image      string            `json:"image,omitempty"`
	Categories map[string]int    `json:"categories"`
	Details    []DetectionRecord `json:"details"`
	Timestamp  time.Time         `json:"timestamp"`
}

// CountCategories aggregates detection records into per-category counts
// keyed by "{big}_{small}". Insertion order is irrelevant.
func CountCategories(records []DetectionRecord) map[string]int {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.CategoryKey()]++
	}
	return counts
}

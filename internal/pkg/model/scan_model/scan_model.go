// Package scan_model holds request and database models for skin scans.
package scan_model

import "mime/multipart"

// Scan statuses persisted in the scan table.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Scan represents a skin scan with its images and aggregate summary.
type Scan struct {
	Id               int          `db:"id" json:"id"`
	Status           string       `db:"scan_status" json:"scanStatus"`
	Images           []*ScanImage `json:"images"`
	ImagesTotal      int          `db:"images_total" json:"-"`
	FacesTotal       int          `db:"faces_total" json:"-"`
	AvgHealth        float64      `db:"avg_health" json:"-"`
	AvgAge           float64      `db:"avg_age" json:"-"`
	DominantSkinType string       `db:"dominant_skin_type" json:"-"`
	Summary          Summary      `json:"summary"`
}

// Summary is the aggregate view of a completed scan.
type Summary struct {
	ImagesTotal      int     `db:"images_total" json:"imagesTotal"`
	FacesTotal       int     `db:"faces_total" json:"facesTotal"`
	AvgHealth        float64 `db:"avg_health" json:"avgHealth"`
	AvgAge           float64 `db:"avg_age" json:"avgAge"`
	DominantSkinType string  `db:"dominant_skin_type" json:"dominantSkinType"`
}

// ScanImage is one uploaded image belonging to a scan.
type ScanImage struct {
	Id        int         `db:"id" json:"-"`
	ScanId    int         `db:"scan_id" json:"-"`
	ImageName string      `db:"image_name" json:"name"`
	DoneFlag  bool        `db:"done" json:"-"`
	Analyses  []*Analysis `json:"analyses"`
}

// Analysis is the persisted outcome of analyzing one scan image.
type Analysis struct {
	Id              int     `db:"id" json:"-"`
	ImageId         int     `db:"image_id" json:"-"`
	HasFace         bool    `db:"has_face" json:"hasFace"`
	Confidence      float64 `db:"confidence" json:"confidence"`
	OverallHealth   float64 `db:"overall_health" json:"overallHealth"`
	EstimatedAge    float64 `db:"estimated_age" json:"estimatedAge"`
	SkinType        string  `db:"skin_type" json:"skinType"`
	DominantEmotion string  `db:"dominant_emotion" json:"dominantEmotion"`
	FaceShape       string  `db:"face_shape" json:"faceShape"`
}

// FileData wraps an uploaded multipart file with its header.
type FileData struct {
	File       multipart.File
	FileHeader *multipart.FileHeader
}

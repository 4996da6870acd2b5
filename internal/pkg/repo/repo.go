// Package repo provides access to scan-related data in the database. It
// includes methods for creating, updating, deleting and fetching scans,
// their images and persisted analysis results.
package repo

import (
	"face-analysis/internal/pkg/model/scan_model"
	"face-analysis/internal/pkg/repo/scan_repo"
	"image"

	"github.com/jmoiron/sqlx"
)

// Repo embeds the Scan interface and allows interaction with scan-related
// functions.
type Repo struct {
	Scan
}

// NewRepo creates a new instance of Repo backed by the scan repository.
func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{
		Scan: scan_repo.New(db),
	}
}

// Scan defines the interface for interacting with scan-related functions.
type Scan interface {
	GetScanById(scanId int) (scanRow *scan_model.Scan, err error)
	GetScanImages(scanId int) (images []*scan_model.ScanImage, err error)
	GetAnalysesByImageIds(imageIds []int) (scanAnalyses map[int][]*scan_model.Analysis, err error)
	CreateScan() (scanId int, err error)
	DeleteScan(scanId int) (err error)
	SaveImageDisk(scanId int, img image.Image, imageName string) (imageRow *scan_model.ScanImage, err error)
	CreateImage(img *scan_model.ScanImage) (err error)
	DecodeFile(fileData *scan_model.FileData) (img image.Image, err error)
	ReadImageDisk(img *scan_model.ScanImage) (data []byte, err error)
	UpdateScanStatus(scanId int, status string) (err error)
	SaveProcessedData(processedAnalyses []*scan_model.Analysis, processedImages []*scan_model.ScanImage) (err error)
	UpdateScanSummary(scan *scan_model.Scan) (err error)
}

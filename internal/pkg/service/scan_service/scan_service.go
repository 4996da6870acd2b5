// Package scan_service implements the scan lifecycle: scan creation,
// image uploads, batch processing and aggregation of per-image results.
package scan_service

import (
	"context"
	"errors"
	"face-analysis/internal/pkg/model/analysis_model"
	"face-analysis/internal/pkg/model/scan_model"
	"face-analysis/internal/pkg/repo"
	"face-analysis/internal/pkg/repo/scan_repo"
	"face-analysis/tools"
	"image"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Analyzer produces a full per-image analysis for scan processing.
type Analyzer interface {
	Comprehensive(ctx context.Context, imageData []byte) (result *analysis_model.ComprehensiveAnalysis, err error)
}

type ScanService struct {
	repo     *repo.Repo
	analyzer Analyzer
}

func New(repo *repo.Repo, analyzer Analyzer) *ScanService {
	return &ScanService{
		repo:     repo,
		analyzer: analyzer,
	}
}

// GetScanById returns scan data, images, and analyses associated with it by scan ID.
func (s *ScanService) GetScanById(scanId int) (scan *scan_model.Scan, err error) {
	return s.getFullScanData(scanId)
}

// getFullScanData returns scan data as an object.
func (s *ScanService) getFullScanData(scanId int) (scan *scan_model.Scan, err error) {

	scan, err = s.repo.Scan.GetScanById(scanId)
	if err != nil {
		return scan, err
	}

	scan.Images, err = s.repo.Scan.GetScanImages(scanId)
	if err != nil {
		return scan, err
	}

	if len(scan.Images) > 0 {
		imageIds := make([]int, 0, len(scan.Images))
		for _, img := range scan.Images {
			imageIds = append(imageIds, img.Id)
		}

		analyses, err := s.repo.Scan.GetAnalysesByImageIds(imageIds)
		if err != nil {
			return scan, err
		}

		for _, image := range scan.Images {
			image.Analyses = analyses[image.Id]
		}
	}

	return scan, err
}

// CreateScan creates new scan and returns its ID.
func (s *ScanService) CreateScan() (scanId int, err error) {
	return s.repo.Scan.CreateScan()
}

// DeleteScan deletes all scan data from db and disk; returns error.
func (s *ScanService) DeleteScan(scanId int) (err error) {
	var scan *scan_model.Scan

	scan, err = s.repo.Scan.GetScanById(scanId)
	if err != nil {
		return err
	}

	if scan.Status == scan_model.StatusInProgress {
		return errors.New("unable to delete scan: processing is in progress")
	}

	if err = s.repo.Scan.DeleteScan(scanId); err != nil {
		return err
	}

	if err = scan_repo.DeleteScanImagesDisk(scan.Id); err != nil {
		log.Printf("failed to delete scan %d images from disk: %v", scan.Id, err)
	}

	return nil
}

// AddImageToScan validates and adds a new image to scan: to disk and database.
func (s *ScanService) AddImageToScan(scanId int, imageName string, fileData *scan_model.FileData) (err error) {

	if err = s.validateScanImage(scanId, imageName, fileData); err != nil {
		return err
	}

	var image image.Image
	image, err = s.repo.Scan.DecodeFile(fileData)
	if err != nil {
		return err
	}

	imageRow, err := s.repo.Scan.SaveImageDisk(scanId, image, imageName)
	if err != nil {
		return err
	}

	return s.repo.Scan.CreateImage(imageRow)
}

// validateScanImage validates the image and related scan data; returns error.
func (s *ScanService) validateScanImage(scanId int, imageName string, fileData *scan_model.FileData) (err error) {
	var scan *scan_model.Scan

	if fileData.FileHeader.Header.Get("Content-Type") != "image/jpeg" {
		return errors.New("unsupported file extension")
	}

	scan, err = s.getFullScanData(scanId)
	if err != nil {
		return err
	}

	if scan.Status != scan_model.StatusNew {
		return errors.New("failed to add image to scan: scan processing has already started")
	}

	for _, image := range scan.Images {
		if image.ImageName == imageName {
			return errors.New("failed to add image to scan: image with specified name already exists")
		}
	}
	return err
}

// UpdateScanStatus updates the scan status to the specified value.
func (s *ScanService) UpdateScanStatus(scanId int, status string) (err error) {
	return s.repo.Scan.UpdateScanStatus(scanId, status)
}

// ProcessScan analyzes the scan's images concurrently.
func (s *ScanService) ProcessScan(scanId int) {

	scan, err := s.getFullScanData(scanId)
	if err != nil {
		log.Println(err)
		_ = s.repo.Scan.UpdateScanStatus(scanId, scan_model.StatusError)
		return
	}
	if scan.Status == scan_model.StatusCompleted {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(10)

	var mu sync.Mutex
	var analysesToSave []*scan_model.Analysis
	var imagesToSetDone []*scan_model.ScanImage

	ctx := context.Background()

	for _, img := range scan.Images {
		// skip processed images
		if img.DoneFlag {
			continue
		}

		currImage := img
		g.Go(func() error {

			imageData, err := s.repo.Scan.ReadImageDisk(currImage)
			if err != nil {
				log.Println(err)
				return err
			}

			result, err := s.analyzer.Comprehensive(ctx, imageData)
			if err != nil && !errors.Is(err, tools.ErrNoFace) {
				log.Println(err)
				return err
			}

			newAnalysis := buildAnalysisRow(currImage.Id, result)

			mu.Lock()
			analysesToSave = append(analysesToSave, newAnalysis)
			imagesToSetDone = append(imagesToSetDone, currImage)
			mu.Unlock()

			return nil
		})
	}
	err = g.Wait()

	if saveErr := s.repo.Scan.SaveProcessedData(analysesToSave, imagesToSetDone); saveErr != nil {
		log.Println(saveErr)
		_ = s.repo.Scan.UpdateScanStatus(scanId, scan_model.StatusError)
		return
	}

	if err != nil {
		log.Println(err)
		_ = s.repo.Scan.UpdateScanStatus(scanId, scan_model.StatusError)
		return
	}

	// request updated scan data
	scan, err = s.getFullScanData(scanId)
	if err != nil {
		log.Println(err)
		return
	}

	s.concludeScan(scan)
}

// buildAnalysisRow flattens a per-image analysis into its persisted form.
func buildAnalysisRow(imageId int, result *analysis_model.ComprehensiveAnalysis) *scan_model.Analysis {
	row := &scan_model.Analysis{ImageId: imageId}
	if result == nil || result.FaceDetection == nil {
		return row
	}

	row.HasFace = result.FaceDetection.HasFace
	row.Confidence = result.FaceDetection.Confidence

	if result.SkinAnalysis != nil {
		row.OverallHealth = result.SkinAnalysis.OverallHealth
		row.SkinType = string(result.SkinAnalysis.SkinType)
	}
	if result.AgeEstimation != nil {
		row.EstimatedAge = result.AgeEstimation.EstimatedAge
	}
	if result.ExpressionAnalysis != nil {
		row.DominantEmotion = result.ExpressionAnalysis.DominantEmotion
	}
	if result.FacialFeatures != nil {
		row.FaceShape = string(result.FacialFeatures.FaceShape.Type)
	}
	return row
}

// concludeScan calculates the scan summary and saves it to the database.
func (s *ScanService) concludeScan(scan *scan_model.Scan) {

	var facesTotal int
	var totalHealth, totalAge float64
	skinTypeCounts := make(map[string]int)

	for _, image := range scan.Images {
		for _, analysis := range image.Analyses {
			if !analysis.HasFace {
				continue
			}
			facesTotal++
			totalHealth += analysis.OverallHealth
			totalAge += analysis.EstimatedAge
			skinTypeCounts[analysis.SkinType]++
		}
	}

	var avgHealth, avgAge float64
	var dominantSkinType string

	if facesTotal > 0 {
		avgHealth = totalHealth / float64(facesTotal)
		avgAge = totalAge / float64(facesTotal)

		best := 0
		for skinType, count := range skinTypeCounts {
			if count > best || (count == best && skinType < dominantSkinType) {
				best = count
				dominantSkinType = skinType
			}
		}
	}

	scan.ImagesTotal = len(scan.Images)
	scan.FacesTotal = facesTotal
	scan.AvgHealth = avgHealth
	scan.AvgAge = avgAge
	scan.DominantSkinType = dominantSkinType
	scan.Status = scan_model.StatusCompleted

	err := s.repo.Scan.UpdateScanSummary(scan)
	if err != nil {
		_ = s.repo.Scan.UpdateScanStatus(scan.Id, scan_model.StatusError)
		return
	}
}

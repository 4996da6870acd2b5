// Package scan_repo provides methods for managing scan data in the
// database and scan images on disk.
package scan_repo

import (
	"database/sql"
	"errors"
	"face-analysis/internal/pkg/model/scan_model"
	"face-analysis/tools"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	// foldersAmount defines the maximum number of sharded folders for
	// organizing scan images.
	foldersAmount = 30000
)

// ScanRepo is a repository for managing scans, their images and persisted
// analysis results.
type ScanRepo struct {
	db *sqlx.DB
}

// New creates a new ScanRepo instance with the provided database connection.
func New(db *sqlx.DB) (repo *ScanRepo) {
	return &ScanRepo{
		db: db,
	}
}

// GetScanById retrieves a scan by its ID from the database.
func (r *ScanRepo) GetScanById(scanId int) (scan *scan_model.Scan, err error) {
	scan = &scan_model.Scan{}

	query := `SELECT
				id,
				scan_status,
				images_total,
				faces_total,
				avg_health,
				avg_age,
				dominant_skin_type
			FROM scan
			WHERE id=$1`

	if err = r.db.QueryRow(query, scanId).Scan(
		&scan.Id,
		&scan.Status,
		&scan.Summary.ImagesTotal,
		&scan.Summary.FacesTotal,
		&scan.Summary.AvgHealth,
		&scan.Summary.AvgAge,
		&scan.Summary.DominantSkinType,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tools.ErrNotFound
		}
		return nil, err
	}

	return scan, err
}

// GetScanImages retrieves all images associated with a given scan ID.
func (r *ScanRepo) GetScanImages(scanId int) (images []*scan_model.ScanImage, err error) {

	query := `SELECT
				id,
				scan_id,
				image_name,
				done
			FROM scan_image
			WHERE scan_id=$1`

	if err = r.db.Select(&images, query, scanId); err != nil {
		return nil, err
	}

	return images, err
}

// GetAnalysesByImageIds retrieves analysis rows for the given image IDs,
// keyed by image ID.
func (r *ScanRepo) GetAnalysesByImageIds(imageIds []int) (scanAnalyses map[int][]*scan_model.Analysis, err error) {
	var rows *sqlx.Rows
	var inArgs []interface{}
	scanAnalyses = make(map[int][]*scan_model.Analysis)

	query := `SELECT
				id,
				image_id,
				has_face,
				confidence,
				overall_health,
				estimated_age,
				skin_type,
				dominant_emotion,
				face_shape
			FROM analysis
			WHERE image_id IN (?)`

	query, inArgs, err = sqlx.In(query, imageIds)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows, err = r.db.Queryx(query, inArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var analysis scan_model.Analysis
		if err := rows.Scan(
			&analysis.Id,
			&analysis.ImageId,
			&analysis.HasFace,
			&analysis.Confidence,
			&analysis.OverallHealth,
			&analysis.EstimatedAge,
			&analysis.SkinType,
			&analysis.DominantEmotion,
			&analysis.FaceShape,
		); err != nil {
			return nil, err
		}
		scanAnalyses[analysis.ImageId] = append(scanAnalyses[analysis.ImageId], &analysis)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return scanAnalyses, err
}

// CreateScan creates a new scan and returns the scan ID.
func (r *ScanRepo) CreateScan() (scanId int, err error) {

	query := `INSERT INTO scan
				(
				scan_status,
				images_total,
				faces_total,
				avg_health,
				avg_age,
				dominant_skin_type
				)
			VALUES ('new', 0, 0, 0, 0, '')
			RETURNING id`

	row := r.db.QueryRowx(query)
	if err = row.Scan(&scanId); err != nil {
		return 0, err
	}

	return scanId, err
}

// DeleteScan deletes a scan by its ID from the database.
func (r *ScanRepo) DeleteScan(scanId int) (err error) {
	var result sql.Result
	var rowsDeleted int64

	query := `DELETE FROM scan WHERE id=($1)`

	result, err = r.db.Exec(query, scanId)
	if err != nil {
		return err
	}

	rowsDeleted, err = result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsDeleted == 0 {
		return tools.ErrNotFound
	}

	return err
}

// SaveImageDisk saves an image to disk and returns an image record with
// scan ID and a unique image name.
func (r *ScanRepo) SaveImageDisk(scanId int, img image.Image, imageName string) (imageRow *scan_model.ScanImage, err error) {

	uniqueFileName := getUniqueFilename(imageName)

	imageRow = &scan_model.ScanImage{
		ScanId:    scanId,
		ImageName: uniqueFileName,
	}

	path := r.getImagePath(imageRow)

	if err := tools.SaveImg(img, path); err != nil {
		return nil, err
	}

	return imageRow, nil
}

// ReadImageDisk reads the stored image bytes for a scan image.
func (r *ScanRepo) ReadImageDisk(img *scan_model.ScanImage) (data []byte, err error) {
	return os.ReadFile(r.getImagePath(img))
}

// DeleteScanImagesDisk removes the scan image folder from disk.
func DeleteScanImagesDisk(scanId int) (err error) {
	homeDir, _ := os.UserHomeDir()
	subFolderID := scanId % foldersAmount
	path := fmt.Sprintf("%s/face-analysis/images/%d/%d", homeDir, subFolderID, scanId)

	return os.RemoveAll(path)
}

func (r *ScanRepo) getImagePath(imageRow *scan_model.ScanImage) (path string) {

	homeDir, _ := os.UserHomeDir()
	subFolderID := imageRow.ScanId % foldersAmount
	folderToSave := fmt.Sprintf("%s/face-analysis/images/%d/%d", homeDir, subFolderID, imageRow.ScanId)

	tools.CreateFolderIfNotExist(folderToSave)

	return fmt.Sprintf("%s/%s", folderToSave, imageRow.ImageName)
}

func getUniqueFilename(filename string) string {

	ext := filepath.Ext(filename)
	name := filename[:len(filename)-len(ext)]

	return fmt.Sprintf("%s_%s%s", name, uuid.NewString(), ext)
}

// CreateImage inserts a new image record into the scan_image table.
func (r *ScanRepo) CreateImage(img *scan_model.ScanImage) (err error) {
	var result sql.Result
	var rowsAffected int64

	query := `INSERT INTO scan_image
				(
				scan_id,
				image_name
				)
			VALUES ($1, $2)`

	result, err = r.db.Exec(query, img.ScanId, img.ImageName)
	if err != nil {
		return err
	}

	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return errors.New("operation unsuccessful: row not inserted")
	}

	return err
}

// DecodeFile decodes the image file from the provided file data.
func (r *ScanRepo) DecodeFile(fileData *scan_model.FileData) (img image.Image, err error) {

	img, _, err = image.Decode(fileData.File)
	if err != nil {
		return nil, err
	}

	return img, err
}

// UpdateScanStatus updates the status of a scan by its ID.
func (r *ScanRepo) UpdateScanStatus(scanId int, status string) (err error) {
	var result sql.Result
	var rowsAffected int64

	query := `UPDATE scan
				SET scan_status=$1
				WHERE id=$2`

	result, err = r.db.Exec(query, status, scanId)
	if err != nil {
		return err
	}

	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return tools.ErrNotFound
	}

	return err
}

// SaveProcessedData saves analysis rows and marks their images as done.
func (r *ScanRepo) SaveProcessedData(processedAnalyses []*scan_model.Analysis, processedImages []*scan_model.ScanImage) (err error) {

	if len(processedAnalyses) > 0 {
		query := `INSERT INTO analysis
						(
						image_id,
						has_face,
						confidence,
						overall_health,
						estimated_age,
						skin_type,
						dominant_emotion,
						face_shape
						)
					VALUES
						(
						:image_id,
						:has_face,
						:confidence,
						:overall_health,
						:estimated_age,
						:skin_type,
						:dominant_emotion,
						:face_shape
					)`

		if _, err = r.db.NamedExec(query, processedAnalyses); err != nil {
			return err
		}
	}

	for _, img := range processedImages {
		query := `UPDATE scan_image
				SET done=true
				WHERE id=($1)`

		if _, err = r.db.Exec(query, img.Id); err != nil {
			return err
		}
	}

	return err
}

// UpdateScanSummary updates the aggregate summary of a scan.
func (r *ScanRepo) UpdateScanSummary(scan *scan_model.Scan) (err error) {
	var result sql.Result
	var rowsAffected int64

	query := `
		UPDATE scan
		SET scan_status = :scan_status,
		    images_total = :images_total,
		    faces_total = :faces_total,
		    avg_health = :avg_health,
		    avg_age = :avg_age,
		    dominant_skin_type = :dominant_skin_type
		WHERE id = :id`

	result, err = r.db.NamedExec(query, scan)
	if err != nil {
		return err
	}

	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return tools.ErrNotFound
	}

	return err
}

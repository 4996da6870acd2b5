// Package service provides the service layer of the face analysis system:
// on-demand image analysis and the scan lifecycle built on top of it.
package service

import (
	"context"
	"face-analysis/internal/pkg/clients/skin_cloud_client"
	"face-analysis/internal/pkg/database"
	"face-analysis/internal/pkg/detect"
	"face-analysis/internal/pkg/model/analysis_model"
	"face-analysis/internal/pkg/model/scan_model"
	"face-analysis/internal/pkg/repo"
	"face-analysis/internal/pkg/service/analysis_service"
	"face-analysis/internal/pkg/service/scan_service"
	"face-analysis/tools"
	"log"
	"os"
)

const (
	// pgDbEnvName is the env variable key for the PostgreSQL database name.
	pgDbEnvName = "FACE_ANALYSIS__PG_NAME"

	// pgDbUserName is the env variable key for the PostgreSQL database username.
	pgDbUserName = "FACE_ANALYSIS__PG_USER"

	// pgPassEnvName is the env variable key for the PostgreSQL database password.
	pgPassEnvName = "FACE_ANALYSIS__PG_PASS"

	// skinCloudApiUrlEnvName marks the cosmetics cloud as configured.
	skinCloudApiUrlEnvName = "SKIN_CLOUD__API_URL"
)

// Service embeds the Scan and Analysis interfaces and provides methods to
// interact with the system.
type Service struct {
	Scan
	Analysis
}

// NewServiceWithRepo creates a new Service: it connects to the database,
// probes the detection providers and wires the optional cosmetics cloud.
func NewServiceWithRepo() (srvs *Service) {
	tools.CheckEnvs(pgDbEnvName, pgDbUserName, pgPassEnvName)

	db, err := database.GetDatabase(os.Getenv(pgDbEnvName), os.Getenv(pgDbUserName), os.Getenv(pgPassEnvName))
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	repo := repo.NewRepo(db)

	// The on-device provider ranks first; the Face Cloud provider joins the
	// chain only when its probe passes.
	chain := detect.NewChain(context.Background(), detect.NewLocal(), detect.NewRemote())

	var skinCloud *skin_cloud_client.Client
	if os.Getenv(skinCloudApiUrlEnvName) != "" {
		skinCloud = skin_cloud_client.New()
	}

	analysis := analysis_service.New(chain, skinCloud)

	return &Service{
		Scan:     scan_service.New(repo, analysis),
		Analysis: analysis,
	}
}

// Scan defines the interface for the scan lifecycle.
type Scan interface {
	GetScanById(scanId int) (scan *scan_model.Scan, err error)
	CreateScan() (scanId int, err error)
	DeleteScan(scanId int) (err error)
	AddImageToScan(scanId int, imageName string, fileData *scan_model.FileData) (err error)
	UpdateScanStatus(scanId int, status string) (err error)
	ProcessScan(scanId int)
}

// Analysis defines the interface for on-demand image analysis.
type Analysis interface {
	DetectPreview(ctx context.Context, imageData []byte) (preview *analysis_service.Preview, err error)
	AnalyzeSkin(ctx context.Context, imageData []byte) (result *analysis_model.SkinAnalysis, err error)
	AnalyzeFeatures(ctx context.Context, imageData []byte) (result *analysis_model.FacialFeatures, err error)
	AnalyzeAge(ctx context.Context, imageData []byte) (result *analysis_model.AgeEstimation, err error)
	AnalyzeExpression(ctx context.Context, imageData []byte) (result *analysis_model.ExpressionAnalysis, err error)
	Comprehensive(ctx context.Context, imageData []byte) (result *analysis_model.ComprehensiveAnalysis, err error)
	Health(ctx context.Context) (health map[string]string)
}

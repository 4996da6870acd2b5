// Package analysis_service implements on-demand image analysis: face
// detection with preview throttling, skin, feature, age and expression
// analysis, and the comprehensive report combining all of them.
package analysis_service

import (
	"context"
	"face-analysis/internal/pkg/analyze"
	"face-analysis/internal/pkg/clients/skin_cloud_client"
	"face-analysis/internal/pkg/detect"
	"face-analysis/internal/pkg/model/analysis_model"
	"face-analysis/tools"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Preview is the response of the lightweight detection endpoint used by
// live camera overlays.
type Preview struct {
	Detection     *analysis_model.FaceDetection `json:"face_detection"`
	PreviewScores analyze.QuickScores           `json:"preview_scores"`
	Quality       *analysis_model.FaceQuality   `json:"quality"`
}

type analysisService struct {
	chain     *detect.Chain
	preview   *detect.Throttled
	skinCloud *skin_cloud_client.Client
}

// New creates the analysis service. The preview path wraps the provider
// chain in a throttle so camera streams cannot flood the providers;
// skinCloud may be nil when the cosmetics cloud is not configured.
func New(chain *detect.Chain, skinCloud *skin_cloud_client.Client) *analysisService {
	return &analysisService{
		chain:     chain,
		preview:   detect.NewThrottled(chain, detect.DefaultCooldown),
		skinCloud: skinCloud,
	}
}

// DetectPreview runs throttled face detection and returns the detection
// together with landmark-derived preview scores and a quality report.
// Within the cooldown window the cached detection is served.
func (s *analysisService) DetectPreview(ctx context.Context, imageData []byte) (*Preview, error) {
	frame, err := detect.NewFrame(imageData)
	if err != nil {
		return nil, fmt.Errorf("func DetectPreview: %w", err)
	}

	detection, err := s.preview.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("func DetectPreview: %w", err)
	}

	return &Preview{
		Detection:     detection,
		PreviewScores: analyze.QuickSkinScores(detection.Landmarks),
		Quality:       analyze.QualityReport(frame.Image, detection),
	}, nil
}

// AnalyzeSkin runs the local skin analysis and, when the cosmetics cloud
// is configured, overlays its HD parameter scores on top of the local ones.
func (s *analysisService) AnalyzeSkin(ctx context.Context, imageData []byte) (*analysis_model.SkinAnalysis, error) {
	frame, err := detect.NewFrame(imageData)
	if err != nil {
		return nil, fmt.Errorf("func AnalyzeSkin: %w", err)
	}

	detection, err := s.chain.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("func AnalyzeSkin: %w", err)
	}

	result := analyze.AnalyzeSkin(frame.Image, detection.Landmarks)

	if s.skinCloud != nil {
		if err = s.mergeCloudScores(ctx, imageData, result); err != nil {
			log.Printf("skin cloud unavailable, returning local scores: %v", err)
		}
	}

	return result, nil
}

// mergeCloudScores replaces local HD parameter scores with the cosmetics
// cloud ones where the cloud returned a score for the parameter.
func (s *analysisService) mergeCloudScores(ctx context.Context, imageData []byte, result *analysis_model.SkinAnalysis) error {
	resp, err := s.skinCloud.AnalyzeSkin(ctx, imageData)
	if err != nil {
		// The token may have gone stale; the next call re-authenticates.
		s.skinCloud.Invalidate()
		return fmt.Errorf("func mergeCloudScores: %w", err)
	}

	params := map[string]*analysis_model.SkinParameter{
		"redness":     &result.HDRedness,
		"oiliness":    &result.HDOiliness,
		"age_spot":    &result.HDAgeSpot,
		"radiance":    &result.HDRadiance,
		"moisture":    &result.HDMoisture,
		"dark_circle": &result.HDDarkCircle,
		"eye_bag":     &result.HDEyeBag,
		"firmness":    &result.HDFirmness,
		"texture":     &result.HDTexture,
		"acne":        &result.HDAcne,
		"pore":        &result.HDPore,
		"wrinkle":     &result.HDWrinkle,
	}
	for name, score := range resp.Result.Scores {
		param, ok := params[name]
		if !ok {
			continue
		}
		param.UIScore = score.UIScore
		param.RawScore = score.RawScore
		param.Confidence = 0.9
	}
	return nil
}

// AnalyzeFeatures detects the face and classifies its facial features.
func (s *analysisService) AnalyzeFeatures(ctx context.Context, imageData []byte) (*analysis_model.FacialFeatures, error) {
	frame, detection, err := s.detect(ctx, imageData, "AnalyzeFeatures")
	if err != nil {
		return nil, err
	}
	return analyze.AnalyzeFeatures(frame.Image, detection), nil
}

// AnalyzeAge detects the face and estimates the age range.
func (s *analysisService) AnalyzeAge(ctx context.Context, imageData []byte) (*analysis_model.AgeEstimation, error) {
	frame, detection, err := s.detect(ctx, imageData, "AnalyzeAge")
	if err != nil {
		return nil, err
	}
	return analyze.AnalyzeAge(frame.Image, detection), nil
}

// AnalyzeExpression detects the face and scores action units and emotions.
func (s *analysisService) AnalyzeExpression(ctx context.Context, imageData []byte) (*analysis_model.ExpressionAnalysis, error) {
	frame, detection, err := s.detect(ctx, imageData, "AnalyzeExpression")
	if err != nil {
		return nil, err
	}
	return analyze.AnalyzeExpression(frame.Image, detection), nil
}

// Comprehensive runs detection first and, when a face is present, fans
// out the four analyses concurrently. When no face is found the partial
// result carrying the detection is returned together with ErrNoFace.
func (s *analysisService) Comprehensive(ctx context.Context, imageData []byte) (*analysis_model.ComprehensiveAnalysis, error) {
	started := time.Now()

	frame, err := detect.NewFrame(imageData)
	if err != nil {
		return nil, fmt.Errorf("func Comprehensive: %w", err)
	}

	detection, err := s.chain.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("func Comprehensive: %w", err)
	}

	result := &analysis_model.ComprehensiveAnalysis{FaceDetection: detection}
	if !detection.HasFace {
		return result, tools.ErrNoFace
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		result.SkinAnalysis = analyze.AnalyzeSkin(frame.Image, detection.Landmarks)
		return nil
	})
	eg.Go(func() error {
		result.FacialFeatures = analyze.AnalyzeFeatures(frame.Image, detection)
		return nil
	})
	eg.Go(func() error {
		result.AgeEstimation = analyze.AnalyzeAge(frame.Image, detection)
		return nil
	})
	eg.Go(func() error {
		result.ExpressionAnalysis = analyze.AnalyzeExpression(frame.Image, detection)
		return nil
	})
	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("func Comprehensive: %w", err)
	}

	bounds := frame.Image.Bounds()
	result.Metadata = analysis_model.AnalysisMetadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ImageSize: analysis_model.ImageSize{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
		ProcessingTime: time.Since(started).Seconds(),
	}
	return result, nil
}

// Health reports the status of the detection providers and the
// cosmetics cloud wiring.
func (s *analysisService) Health(ctx context.Context) map[string]string {
	health := map[string]string{"service": "ok"}

	if err := s.chain.Probe(ctx); err != nil {
		health["detection"] = "unavailable"
	} else {
		health["detection"] = "ok"
	}
	for _, name := range s.chain.Providers() {
		health["provider:"+name] = "ok"
	}

	if s.skinCloud == nil {
		health["skin_cloud"] = "not configured"
	} else if _, err := s.skinCloud.Token(ctx); err != nil {
		health["skin_cloud"] = "unavailable"
	} else {
		health["skin_cloud"] = "ok"
	}
	return health
}

func (s *analysisService) detect(ctx context.Context, imageData []byte, op string) (*detect.Frame, *analysis_model.FaceDetection, error) {
	frame, err := detect.NewFrame(imageData)
	if err != nil {
		return nil, nil, fmt.Errorf("func %s: %w", op, err)
	}
	detection, err := s.chain.Detect(ctx, frame)
	if err != nil {
		return nil, nil, fmt.Errorf("func %s: %w", op, err)
	}
	return frame, detection, nil
}

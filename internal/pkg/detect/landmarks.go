package detect

import (
	"face-analysis/internal/pkg/model/analysis_model"
	"face-analysis/internal/pkg/model/face_cloud_model"
)

// cloudRegions maps Face Cloud landmark classes to facial regions. The
// mapping is applied once when the cloud response is parsed; downstream
// scoring only ever sees typed regions.
var cloudRegions = map[string]analysis_model.LandmarkRegion{
	"left_eye":      analysis_model.RegionLeftEye,
	"right_eye":     analysis_model.RegionRightEye,
	"nose":          analysis_model.RegionNose,
	"nose_tip":      analysis_model.RegionNose,
	"mouth":         analysis_model.RegionMouth,
	"mouth_left":    analysis_model.RegionMouth,
	"mouth_right":   analysis_model.RegionMouth,
	"jawline":       analysis_model.RegionJawline,
	"chin":          analysis_model.RegionJawline,
	"left_eyebrow":  analysis_model.RegionEyebrows,
	"right_eyebrow": analysis_model.RegionEyebrows,
	"face_outline":  analysis_model.RegionFaceOutline,
}

// parseCloudLandmarks converts tagged cloud landmarks into typed regions,
// dropping classes the mapping does not know.
func parseCloudLandmarks(landmarks []face_cloud_model.Landmark) *analysis_model.FaceLandmarks {
	parsed := &analysis_model.FaceLandmarks{}

	for _, lm := range landmarks {
		region, known := cloudRegions[lm.Class]
		if !known {
			continue
		}

		point := analysis_model.Point{X: float64(lm.X), Y: float64(lm.Y)}

		switch region {
		case analysis_model.RegionLeftEye:
			parsed.LeftEye = append(parsed.LeftEye, point)
		case analysis_model.RegionRightEye:
			parsed.RightEye = append(parsed.RightEye, point)
		case analysis_model.RegionNose:
			parsed.Nose = append(parsed.Nose, point)
		case analysis_model.RegionMouth:
			parsed.Mouth = append(parsed.Mouth, point)
		case analysis_model.RegionJawline:
			parsed.Jawline = append(parsed.Jawline, point)
		case analysis_model.RegionEyebrows:
			parsed.Eyebrows = append(parsed.Eyebrows, point)
		case analysis_model.RegionFaceOutline:
			parsed.FaceOutline = append(parsed.FaceOutline, point)
		}
	}

	return parsed
}

// SynthesizeLandmarks places landmarks at canonical face proportions inside
// a bounding box. Used when a provider reports a box but no landmarks.
func SynthesizeLandmarks(box analysis_model.BoundingBox) *analysis_model.FaceLandmarks {
	x, y, w, h := box.X, box.Y, box.Width, box.Height

	return &analysis_model.FaceLandmarks{
		LeftEye:  []analysis_model.Point{{X: x + w*0.3, Y: y + h*0.4}},
		RightEye: []analysis_model.Point{{X: x + w*0.7, Y: y + h*0.4}},
		Nose: []analysis_model.Point{
			{X: x + w*0.5, Y: y + h*0.55},
			{X: x + w*0.45, Y: y + h*0.6},
			{X: x + w*0.55, Y: y + h*0.6},
		},
		Mouth: []analysis_model.Point{
			{X: x + w*0.35, Y: y + h*0.75},
			{X: x + w*0.5, Y: y + h*0.78},
			{X: x + w*0.65, Y: y + h*0.75},
		},
		Jawline: []analysis_model.Point{
			{X: x + w*0.1, Y: y + h*0.6},
			{X: x + w*0.2, Y: y + h*0.8},
			{X: x + w*0.5, Y: y + h*0.95},
			{X: x + w*0.8, Y: y + h*0.8},
			{X: x + w*0.9, Y: y + h*0.6},
		},
		Eyebrows: []analysis_model.Point{
			{X: x + w*0.25, Y: y + h*0.3},
			{X: x + w*0.35, Y: y + h*0.25},
			{X: x + w*0.65, Y: y + h*0.25},
			{X: x + w*0.75, Y: y + h*0.3},
		},
		FaceOutline: []analysis_model.Point{
			{X: x, Y: y + h*0.2},
			{X: x, Y: y + h*0.8},
			{X: x + w*0.2, Y: y + h},
			{X: x + w*0.8, Y: y + h},
			{X: x + w, Y: y + h*0.8},
			{X: x + w, Y: y + h*0.2},
			{X: x + w*0.8, Y: y},
			{X: x + w*0.2, Y: y},
		},
	}
}

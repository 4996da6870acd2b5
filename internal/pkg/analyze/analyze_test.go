package analyze_test

import (
	"face-analysis/internal/pkg/analyze"
	"face-analysis/internal/pkg/detect"
	"face-analysis/internal/pkg/model/analysis_model"
	"image"
	"image/color"
	"reflect"
	"testing"
)

// faceImage paints a skin-tone oval region onto a dark background.
func faceImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	background := color.RGBA{R: 30, G: 30, B: 35, A: 255}
	skin := color.RGBA{R: 205, G: 160, B: 125, A: 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, background)
		}
	}
	for y := height / 5; y < height*4/5; y++ {
		for x := width / 4; x < width*3/4; x++ {
			img.Set(x, y, skin)
		}
	}
	return img
}

// faceDetection builds a detection whose box covers the painted region.
func faceDetection(width, height int) *analysis_model.FaceDetection {
	box := analysis_model.BoundingBox{
		X:      float64(width / 4),
		Y:      float64(height / 5),
		Width:  float64(width / 2),
		Height: float64(height * 3 / 5),
	}
	return &analysis_model.FaceDetection{
		HasFace:       true,
		FaceCount:     1,
		Confidence:    0.85,
		BoundingBoxes: []analysis_model.BoundingBox{box},
		Landmarks:     detect.SynthesizeLandmarks(box),
	}
}

func Test_AnalyzeSkin_Deterministic(t *testing.T) {

	img := faceImage(320, 240)
	landmarks := faceDetection(320, 240).Landmarks

	first := analyze.AnalyzeSkin(img, landmarks)
	second := analyze.AnalyzeSkin(img, landmarks)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("AnalyzeSkin() is not deterministic: %+v != %+v", first, second)
	}

	if first.OverallHealth < 0 || first.OverallHealth > 1 {
		t.Errorf("OverallHealth = %v, want within [0, 1]", first.OverallHealth)
	}
	if len(first.RecommendedTreatments) == 0 {
		t.Errorf("expected at least one recommended treatment")
	}
}

func Test_AnalyzeSkin_DefaultWithoutSkinPixels(t *testing.T) {

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
		}
	}

	got := analyze.AnalyzeSkin(img, nil)

	if got.SkinType != analysis_model.SkinTypeNormal {
		t.Errorf("SkinType = %v, want %v", got.SkinType, analysis_model.SkinTypeNormal)
	}
	if got.OverallHealth != 0.5 {
		t.Errorf("OverallHealth = %v, want 0.5", got.OverallHealth)
	}
	if got.HDRedness.Confidence != 0 || got.HDRedness.UIScore != 50 {
		t.Errorf("HDRedness = %+v, want the neutral default parameter", got.HDRedness)
	}
	if !reflect.DeepEqual(got.RecommendedTreatments, []string{"Maintain current skincare routine"}) {
		t.Errorf("RecommendedTreatments = %v, want the maintenance default", got.RecommendedTreatments)
	}
}

func Test_AnalyzeAge(t *testing.T) {

	img := faceImage(320, 240)
	detection := faceDetection(320, 240)

	got := analyze.AnalyzeAge(img, detection)

	if got.EstimatedAge < 18 || got.EstimatedAge > 80 {
		t.Errorf("EstimatedAge = %v, want within [18, 80]", got.EstimatedAge)
	}
	if got.AgeRange.MinAge > got.EstimatedAge || got.AgeRange.MaxAge < got.EstimatedAge {
		t.Errorf("AgeRange %+v does not bound the estimate %v", got.AgeRange, got.EstimatedAge)
	}
	if got.Confidence < 0.3 || got.Confidence > 1 {
		t.Errorf("Confidence = %v, want within [0.3, 1]", got.Confidence)
	}
	if got.AgeGroup == "" {
		t.Errorf("AgeGroup is empty")
	}

	again := analyze.AnalyzeAge(img, detection)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("AnalyzeAge() is not deterministic")
	}
}

func Test_AnalyzeAge_DefaultWithoutFace(t *testing.T) {

	img := faceImage(320, 240)
	got := analyze.AnalyzeAge(img, &analysis_model.FaceDetection{HasFace: false})

	if got.EstimatedAge != 30 || got.Confidence != 0 {
		t.Errorf("AnalyzeAge() = %+v, want the default estimate", got)
	}
	if got.AgeGroup != "Adult (25-34)" {
		t.Errorf("AgeGroup = %q, want %q", got.AgeGroup, "Adult (25-34)")
	}
}

func Test_AnalyzeExpression(t *testing.T) {

	img := faceImage(320, 240)
	detection := faceDetection(320, 240)

	got := analyze.AnalyzeExpression(img, detection)

	if got.DominantEmotion == "" {
		t.Fatalf("DominantEmotion is empty")
	}
	if len(got.Emotions) == 0 {
		t.Fatalf("no emotions scored")
	}
	if got.Emotions[0].Name != got.DominantEmotion {
		t.Errorf("dominant emotion %q does not lead the sorted emotions %v", got.DominantEmotion, got.Emotions)
	}
	for i := 1; i < len(got.Emotions); i++ {
		if got.Emotions[i].Confidence > got.Emotions[i-1].Confidence {
			t.Errorf("emotions are not sorted by confidence: %v", got.Emotions)
		}
	}
	if len(got.FacialActionUnits) == 0 {
		t.Errorf("no facial action units scored")
	}

	again := analyze.AnalyzeExpression(img, detection)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("AnalyzeExpression() is not deterministic")
	}
}

func Test_AnalyzeFeatures(t *testing.T) {

	img := faceImage(320, 240)
	detection := faceDetection(320, 240)

	got := analyze.AnalyzeFeatures(img, detection)

	if got.FaceShape.Type == "" {
		t.Errorf("FaceShape.Type is empty")
	}
	if got.FaceShape.Confidence < 0 || got.FaceShape.Confidence > 1 {
		t.Errorf("FaceShape.Confidence = %v, want within [0, 1]", got.FaceShape.Confidence)
	}
	if got.NoseWidth == "" || got.LipShape == "" || got.JawlineDefinition == "" {
		t.Errorf("feature classifications are incomplete: %+v", got)
	}

	again := analyze.AnalyzeFeatures(img, detection)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("AnalyzeFeatures() is not deterministic")
	}
}

func Test_QualityReport(t *testing.T) {

	img := faceImage(640, 480)
	detection := faceDetection(640, 480)

	got := analyze.QualityReport(img, detection)

	if got.QualityScore < 0 || got.QualityScore > 1 {
		t.Errorf("QualityScore = %v, want within [0, 1]", got.QualityScore)
	}
	if len(got.Recommendations) == 0 {
		t.Errorf("expected at least one recommendation")
	}
}

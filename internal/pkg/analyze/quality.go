package analyze

import (
	"face-analysis/internal/pkg/imgstat"
	"face-analysis/internal/pkg/model/analysis_model"
	"image"
	"math"
)

// QualityReport grades how usable the detected face region is for further
// analysis and suggests how to improve the capture.
func QualityReport(img image.Image, detection *analysis_model.FaceDetection) *analysis_model.FaceQuality {
	box, ok := largestBox(detection)
	if !ok {
		// Grade the full image when no face box is available.
		bounds := img.Bounds()
		box = analysis_model.BoundingBox{
			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		}
	}

	gray := imgstat.FromImage(img)
	face := gray.Crop(int(box.X), int(box.Y), int(box.X+box.Width), int(box.Y+box.Height))
	if len(face.Pix) == 0 {
		face = gray
	}

	brightness := face.Mean()
	contrast := face.StdDev()
	sharpness := face.LaplacianVar()
	sizeScore := math.Min(1.0, float64(face.Width*face.Height)/(200*200))

	qualityScore := math.Min(1.0, brightness/128)*0.3 +
		math.Min(1.0, contrast/64)*0.2 +
		math.Min(1.0, sharpness/100)*0.3 +
		sizeScore*0.2

	return &analysis_model.FaceQuality{
		Brightness:      math.Round(brightness*100) / 100,
		Contrast:        math.Round(contrast*100) / 100,
		Sharpness:       math.Round(sharpness*100) / 100,
		SizeScore:       round3(sizeScore),
		QualityScore:    round3(qualityScore),
		Recommendations: qualityRecommendations(brightness, contrast, sharpness, sizeScore),
	}
}

func qualityRecommendations(brightness, contrast, sharpness, sizeScore float64) []string {
	var recs []string

	if brightness < 80 {
		recs = append(recs, "Increase lighting - image appears too dark")
	} else if brightness > 180 {
		recs = append(recs, "Reduce lighting - image appears too bright")
	}

	if contrast < 40 {
		recs = append(recs, "Improve contrast - image appears too flat")
	}

	if sharpness < 50 {
		recs = append(recs, "Improve focus - image appears blurry")
	}

	if sizeScore < 0.5 {
		recs = append(recs, "Move closer to camera - face appears too small")
	}

	if len(recs) == 0 {
		recs = append(recs, "Image quality is good for analysis")
	}

	return recs
}

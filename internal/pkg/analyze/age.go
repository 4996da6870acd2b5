package analyze

import (
	"face-analysis/internal/pkg/imgstat"
	"face-analysis/internal/pkg/model/analysis_model"
	"image"
	"math"
)

// Indicator weights for the age estimate. Wrinkles dominate, hair and skin
// tone contribute least.
const (
	wrinkleWeight  = 0.3
	textureWeight  = 0.2
	eyeAreaWeight  = 0.15
	volumeWeight   = 0.15
	hairWeight     = 0.1
	skinToneWeight = 0.1

	baseAge = 25.0
	minAge  = 18.0
	maxAge  = 80.0

	ageRangeMargin = 5.0
)

// AnalyzeAge estimates age from the detected face region. Detection results
// without a face yield the default estimate with zero confidence.
func AnalyzeAge(img image.Image, detection *analysis_model.FaceDetection) *analysis_model.AgeEstimation {
	box, ok := largestBox(detection)
	if !ok {
		return defaultAgeEstimation()
	}

	gray := imgstat.FromImage(img)

	// Face crop with padding, as aging signs extend past the box.
	const padding = 20
	face := gray.Crop(int(box.X)-padding, int(box.Y)-padding,
		int(box.X+box.Width)+padding, int(box.Y+box.Height)+padding)
	if len(face.Pix) == 0 {
		return defaultAgeEstimation()
	}

	wrinkleScore := clamp01(face.LaplacianVar() / 250)
	textureScore := clamp01(face.SobelMean() / 60)
	eyeAreaScore := eyeAreaAging(face)
	volumeScore := facialVolumeAging(face)
	hairScore := hairAging(gray, box)
	skinToneScore := skinToneAging(img, box)

	estimated := (baseAge+wrinkleScore*40)*wrinkleWeight +
		(baseAge+textureScore*30)*textureWeight +
		(baseAge+eyeAreaScore*35)*eyeAreaWeight +
		(baseAge+volumeScore*25)*volumeWeight +
		(baseAge+hairScore*30)*hairWeight +
		(baseAge+skinToneScore*20)*skinToneWeight

	estimated = math.Max(minAge, math.Min(maxAge, estimated))
	estimated = math.Round(estimated*10) / 10

	confidence := indicatorConsistency(
		wrinkleScore, textureScore, eyeAreaScore, volumeScore, hairScore, skinToneScore)

	return &analysis_model.AgeEstimation{
		EstimatedAge: estimated,
		AgeRange: analysis_model.AgeRange{
			MinAge:     math.Max(minAge, estimated-ageRangeMargin),
			MaxAge:     math.Min(maxAge, estimated+ageRangeMargin),
			MostLikely: estimated,
		},
		Confidence: confidence,
		AgeGroup:   ageGroup(estimated),
	}
}

// eyeAreaAging looks for dark circles and brightness variation in the two
// eye regions of the face crop.
func eyeAreaAging(face *imgstat.Gray) float64 {
	h, w := face.Height, face.Width

	regions := []*imgstat.Gray{
		face.Crop(int(float64(w)*0.2), int(float64(h)*0.25), int(float64(w)*0.45), int(float64(h)*0.45)),
		face.Crop(int(float64(w)*0.55), int(float64(h)*0.25), int(float64(w)*0.8), int(float64(h)*0.45)),
	}

	var sum float64
	var n int
	for _, region := range regions {
		if len(region.Pix) == 0 {
			continue
		}
		darkScore := clamp01((128 - region.Mean()) / 128)
		variationScore := clamp01(region.StdDev() / 64)
		sum += clamp01((darkScore + variationScore) / 2)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// facialVolumeAging measures gradient strength in the cheek regions, where
// volume loss shows as pronounced shading.
func facialVolumeAging(face *imgstat.Gray) float64 {
	h, w := face.Height, face.Width

	cheeks := []*imgstat.Gray{
		face.Crop(int(float64(w)*0.1), int(float64(h)*0.4), int(float64(w)*0.4), int(float64(h)*0.7)),
		face.Crop(int(float64(w)*0.6), int(float64(h)*0.4), int(float64(w)*0.9), int(float64(h)*0.7)),
	}

	var sum float64
	var n int
	for _, cheek := range cheeks {
		if len(cheek.Pix) == 0 {
			continue
		}
		sum += clamp01(cheek.SobelMean() / 50)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// hairAging inspects the region above the face box: lower texture density
// and higher brightness both read as graying hair.
func hairAging(gray *imgstat.Gray, box analysis_model.BoundingBox) float64 {
	x, y := int(box.X), int(box.Y)
	w, h := int(box.Width), int(box.Height)

	hair := gray.Crop(x-w/4, y-h/2, x+w+w/4, y+h/4)
	if len(hair.Pix) == 0 {
		return 0
	}

	densityScore := 1 - clamp01(hair.StdDev()/50)
	brightnessScore := clamp01(hair.Mean() / 150)

	return (densityScore + brightnessScore) / 2
}

// skinToneAging reads yellowness and uneven color in the face region.
func skinToneAging(img image.Image, box analysis_model.BoundingBox) float64 {
	sub, ok := cropImage(img, box)
	if !ok {
		return 0
	}

	r, g, b, n := imgstat.MeanRGB(sub, nil)
	if n == 0 {
		return 0
	}

	// Approximate LAB yellowness from the RGB means.
	yellowness := (r+g)/2 - b
	yellowScore := clamp01(yellowness / 40)

	gray := imgstat.FromImage(sub)
	unevenScore := clamp01(gray.StdDev() / 64)

	return (yellowScore + unevenScore) / 2
}

// indicatorConsistency converts the spread of the indicator scores into a
// confidence value, floored at 0.3.
func indicatorConsistency(scores ...float64) float64 {
	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	var varSum float64
	for _, s := range scores {
		d := s - mean
		varSum += d * d
	}
	std := math.Sqrt(varSum / float64(len(scores)))

	confidence := 1 - clamp01(std)
	if confidence < 0.3 {
		confidence = 0.3
	}
	return math.Round(confidence*1000) / 1000
}

func ageGroup(age float64) string {
	switch {
	case age < 25:
		return "Young Adult (18-24)"
	case age < 35:
		return "Adult (25-34)"
	case age < 45:
		return "Middle-aged (35-44)"
	case age < 55:
		return "Mature (45-54)"
	case age < 65:
		return "Senior (55-64)"
	default:
		return "Elderly (65+)"
	}
}

func defaultAgeEstimation() *analysis_model.AgeEstimation {
	return &analysis_model.AgeEstimation{
		EstimatedAge: 30,
		AgeRange:     analysis_model.AgeRange{MinAge: 25, MaxAge: 35, MostLikely: 30},
		Confidence:   0,
		AgeGroup:     "Adult (25-34)",
	}
}

// largestBox returns the most prominent face box of a detection.
func largestBox(detection *analysis_model.FaceDetection) (analysis_model.BoundingBox, bool) {
	if detection == nil || !detection.HasFace || len(detection.BoundingBoxes) == 0 {
		return analysis_model.BoundingBox{}, false
	}

	best := detection.BoundingBoxes[0]
	for _, box := range detection.BoundingBoxes[1:] {
		if box.Area() > best.Area() {
			best = box
		}
	}
	return best, true
}

// cropImage extracts the box from the image, clamped to its bounds.
func cropImage(img image.Image, box analysis_model.BoundingBox) (image.Image, bool) {
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}

	bounds := img.Bounds()
	rect := image.Rect(
		bounds.Min.X+int(box.X),
		bounds.Min.Y+int(box.Y),
		bounds.Min.X+int(box.X+box.Width),
		bounds.Min.Y+int(box.Y+box.Height),
	).Intersect(bounds)

	if rect.Empty() {
		return nil, false
	}

	if si, ok := img.(subImager); ok {
		return si.SubImage(rect), true
	}

	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.Set(x, y, img.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out, true
}

package analyze

import (
	"face-analysis/internal/pkg/imgstat"
	"face-analysis/internal/pkg/model/analysis_model"
	"fmt"
	"image"
	"math"
)

// faceShapeRanges maps each face shape to its height/width aspect range.
// Square and Heart are resolved by the jaw-to-forehead width ratio before
// the aspect table applies.
var faceShapeRanges = []struct {
	shape    analysis_model.FaceShape
	min, max float64
}{
	{analysis_model.FaceShapeRound, 0.9, 1.05},
	{analysis_model.FaceShapeOval, 1.05, 1.3},
	{analysis_model.FaceShapeDiamond, 1.3, 1.45},
	{analysis_model.FaceShapeOblong, 1.45, 2.0},
}

// AnalyzeFeatures classifies the facial features of the detected face.
func AnalyzeFeatures(img image.Image, detection *analysis_model.FaceDetection) *analysis_model.FacialFeatures {
	box, ok := largestBox(detection)
	if !ok {
		return defaultFacialFeatures()
	}

	gray := imgstat.FromImage(img)
	landmarks := detection.Landmarks

	shape := classifyFaceShape(box, landmarks)

	leftEye := analyzeEye(img, gray, landmarks.Region(analysis_model.RegionLeftEye), box)
	rightEye := analyzeEye(img, gray, landmarks.Region(analysis_model.RegionRightEye), box)

	noseWidth, noseLength := classifyNose(landmarks.Region(analysis_model.RegionNose), box)
	lipShape, lipFullness := classifyLips(landmarks.Region(analysis_model.RegionMouth), box)

	return &analysis_model.FacialFeatures{
		FaceShape:           shape,
		LeftEye:             leftEye,
		RightEye:            rightEye,
		NoseWidth:           noseWidth,
		NoseLength:          noseLength,
		LipShape:            lipShape,
		LipFullness:         lipFullness,
		CheekboneProminence: classifyCheekbones(gray, box),
		JawlineDefinition:   classifyJawline(gray, box),
	}
}

// classifyFaceShape picks a shape from the aspect ratio and the jaw versus
// forehead width measured on the outline landmarks.
func classifyFaceShape(box analysis_model.BoundingBox, landmarks *analysis_model.FaceLandmarks) analysis_model.FaceShapeAnalysis {
	aspect := 1.0
	if box.Width > 0 {
		aspect = box.Height / box.Width
	}

	widthRatio := jawForeheadRatio(landmarks)

	measurements := map[string]float64{
		"aspect_ratio": round3(aspect),
		"width_ratio":  round3(widthRatio),
		"face_width":   box.Width,
		"face_height":  box.Height,
	}

	// Pronounced width ratios override the aspect table.
	if widthRatio > 1.15 {
		return analysis_model.FaceShapeAnalysis{
			Type:         analysis_model.FaceShapeSquare,
			Confidence:   round3(clamp01((widthRatio - 1.15) * 2)),
			Measurements: measurements,
		}
	}
	if widthRatio > 0 && widthRatio < 0.85 {
		return analysis_model.FaceShapeAnalysis{
			Type:         analysis_model.FaceShapeHeart,
			Confidence:   round3(clamp01((0.85 - widthRatio) * 2)),
			Measurements: measurements,
		}
	}

	best := analysis_model.FaceShapeAnalysis{
		Type:         analysis_model.FaceShapeOval,
		Confidence:   0.5,
		Measurements: measurements,
	}

	for _, r := range faceShapeRanges {
		if aspect >= r.min && aspect < r.max {
			center := (r.min + r.max) / 2
			halfWidth := (r.max - r.min) / 2
			confidence := clamp01(1 - math.Abs(aspect-center)/halfWidth)

			best.Type = r.shape
			best.Confidence = round3(math.Max(0.5, confidence))
			break
		}
	}

	return best
}

// jawForeheadRatio compares the widest jawline spread with the widest
// eyebrow spread. Returns 0 when either region is missing.
func jawForeheadRatio(landmarks *analysis_model.FaceLandmarks) float64 {
	jawWidth := horizontalSpread(landmarks.Region(analysis_model.RegionJawline))
	foreheadWidth := horizontalSpread(landmarks.Region(analysis_model.RegionEyebrows))

	if jawWidth == 0 || foreheadWidth == 0 {
		return 0
	}
	return jawWidth / foreheadWidth
}

func horizontalSpread(points []analysis_model.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	minX, maxX := points[0].X, points[0].X
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return maxX - minX
}

// analyzeEye classifies one eye from a crop around its landmarks.
func analyzeEye(img image.Image, gray *imgstat.Gray, eyePoints []analysis_model.Point, box analysis_model.BoundingBox) analysis_model.EyeAnalysis {
	if len(eyePoints) == 0 {
		return defaultEye()
	}

	center := centroid(eyePoints)
	eyeW := int(box.Width * 0.25)
	eyeH := int(box.Height * 0.12)
	if eyeW < 2 || eyeH < 2 {
		return defaultEye()
	}

	x0 := int(center.X) - eyeW/2
	y0 := int(center.Y) - eyeH/2

	region := gray.Crop(x0, y0, x0+eyeW, y0+eyeH)
	if len(region.Pix) == 0 {
		return defaultEye()
	}

	color, hex := classifyEyeColor(img, x0, y0, eyeW, eyeH)

	return analysis_model.EyeAnalysis{
		Shape:           classifyEyeShape(eyePoints, box),
		Size:            classifyEyeSize(eyeW * eyeH),
		Color:           color,
		ColorHex:        hex,
		OpenProbability: round3(clamp01(region.StdDev() / 40)),
	}
}

// classifyEyeShape uses the eye-to-eyebrow distance relative to face
// height: narrow eyes sit close to the brow, round eyes far.
func classifyEyeShape(eyePoints []analysis_model.Point, box analysis_model.BoundingBox) analysis_model.EyeShape {
	if box.Height == 0 || len(eyePoints) == 0 {
		return analysis_model.EyeShapeAlmond
	}

	eyeY := centroid(eyePoints).Y
	relative := (eyeY - box.Y) / box.Height

	switch {
	case relative < 0.35:
		return analysis_model.EyeShapeNarrow
	case relative > 0.45:
		return analysis_model.EyeShapeRound
	default:
		return analysis_model.EyeShapeAlmond
	}
}

func classifyEyeSize(areaPx int) analysis_model.EyeSize {
	switch {
	case areaPx > 1000:
		return analysis_model.EyeSizeBig
	case areaPx < 600:
		return analysis_model.EyeSizeSmall
	default:
		return analysis_model.EyeSizeAverage
	}
}

// classifyEyeColor averages the eye crop color and applies the canonical
// channel-dominance rules.
func classifyEyeColor(img image.Image, x0, y0, w, h int) (string, string) {
	sub, ok := cropImage(img, analysis_model.BoundingBox{
		X: float64(x0), Y: float64(y0), Width: float64(w), Height: float64(h),
	})
	if !ok {
		return "Brown", "#8B4513"
	}

	r, g, b, n := imgstat.MeanRGB(sub, nil)
	if n == 0 {
		return "Brown", "#8B4513"
	}

	hex := fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))

	switch {
	case b > r && b > g && b > 150:
		return "Blue", hex
	case b > r && b > g:
		return "Gray", hex
	case g > r && g > b:
		return "Green", hex
	case r > 100 && g > 80 && b < 60:
		return "Hazel", hex
	default:
		return "Brown", hex
	}
}

// classifyNose derives width and length classes from the nose landmark
// spread relative to the face box.
func classifyNose(nosePoints []analysis_model.Point, box analysis_model.BoundingBox) (width, length string) {
	width, length = "Average", "Average"
	if len(nosePoints) < 2 || box.Width == 0 || box.Height == 0 {
		return width, length
	}

	minX, maxX := nosePoints[0].X, nosePoints[0].X
	minY, maxY := nosePoints[0].Y, nosePoints[0].Y
	for _, p := range nosePoints[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	widthRatio := (maxX - minX) / box.Width
	switch {
	case widthRatio > 0.3:
		width = "Broad"
	case widthRatio < 0.2:
		width = "Narrow"
	}

	lengthRatio := (maxY - minY) / box.Height
	switch {
	case lengthRatio > 0.4:
		length = "Long"
	case lengthRatio < 0.25:
		length = "Short"
	}

	return width, length
}

// classifyLips derives lip shape and fullness from the mouth landmark
// spread.
func classifyLips(mouthPoints []analysis_model.Point, box analysis_model.BoundingBox) (shape, fullness string) {
	shape, fullness = "Average", "Average"
	if len(mouthPoints) < 2 {
		return shape, fullness
	}

	minX, maxX := mouthPoints[0].X, mouthPoints[0].X
	minY, maxY := mouthPoints[0].Y, mouthPoints[0].Y
	for _, p := range mouthPoints[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	lipW := maxX - minX
	lipH := maxY - minY

	// Synthesized mouth landmarks are sparse; pad the measured height to a
	// plausible lip band before classifying.
	if box.Height > 0 {
		lipH = math.Max(lipH, box.Height*0.06)
	}

	if lipH > 0 {
		aspect := lipW / lipH
		switch {
		case aspect > 4.0:
			shape = "Wide"
		case aspect < 2.5:
			shape = "Round"
		}
	}

	switch {
	case lipH > 25:
		fullness = "Full"
	case lipH < 15:
		fullness = "Thin"
	}

	return shape, fullness
}

// classifyCheekbones grades cheek region contrast.
func classifyCheekbones(gray *imgstat.Gray, box analysis_model.BoundingBox) string {
	x, y := int(box.X), int(box.Y)
	w, h := int(box.Width), int(box.Height)

	left := gray.Crop(x+w/10, y+h*2/5, x+w*2/5, y+h*3/5)
	right := gray.Crop(x+w*3/5, y+h*2/5, x+w*9/10, y+h*3/5)

	var contrast float64
	var n int
	for _, region := range []*imgstat.Gray{left, right} {
		if len(region.Pix) > 0 {
			contrast += region.StdDev()
			n++
		}
	}
	if n == 0 {
		return "Average"
	}
	contrast /= float64(n)

	switch {
	case contrast > 25:
		return "High"
	case contrast > 15:
		return "Average"
	default:
		return "Low"
	}
}

// classifyJawline grades jaw edge strength.
func classifyJawline(gray *imgstat.Gray, box analysis_model.BoundingBox) string {
	x, y := int(box.X), int(box.Y)
	w, h := int(box.Width), int(box.Height)

	jaw := gray.Crop(x+w/5, y+h*3/4, x+w*4/5, y+h)
	if len(jaw.Pix) == 0 {
		return "Average"
	}

	edgeStrength := jaw.SobelMean() / 255

	switch {
	case edgeStrength > 0.1:
		return "Sharp"
	case edgeStrength < 0.05:
		return "Soft"
	default:
		return "Average"
	}
}

func defaultEye() analysis_model.EyeAnalysis {
	return analysis_model.EyeAnalysis{
		Shape:           analysis_model.EyeShapeAlmond,
		Size:            analysis_model.EyeSizeAverage,
		Color:           "Brown",
		ColorHex:        "#8B4513",
		OpenProbability: 0.5,
	}
}

func defaultFacialFeatures() *analysis_model.FacialFeatures {
	return &analysis_model.FacialFeatures{
		FaceShape: analysis_model.FaceShapeAnalysis{
			Type:         analysis_model.FaceShapeOval,
			Confidence:   0,
			Measurements: map[string]float64{},
		},
		LeftEye:             defaultEye(),
		RightEye:            defaultEye(),
		NoseWidth:           "Average",
		NoseLength:          "Average",
		LipShape:            "Average",
		LipFullness:         "Average",
		CheekboneProminence: "Average",
		JawlineDefinition:   "Average",
	}
}

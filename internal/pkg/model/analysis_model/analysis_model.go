// Package analysis_model provides the result types shared by the detection
// engine, the analysis heuristics and the HTTP API.
package analysis_model

// LandmarkRegion names a facial region. Regions are assigned when landmarks
// are parsed, so scoring code never matches on free-form strings.
type LandmarkRegion string

const (
	RegionLeftEye     LandmarkRegion = "left_eye"
	RegionRightEye    LandmarkRegion = "right_eye"
	RegionNose        LandmarkRegion = "nose"
	RegionMouth       LandmarkRegion = "mouth"
	RegionJawline     LandmarkRegion = "jawline"
	RegionEyebrows    LandmarkRegion = "eyebrows"
	RegionFaceOutline LandmarkRegion = "face_outline"
)

// Point is a single landmark coordinate in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is the rectangle of a detected face.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box surface in pixels.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// FaceLandmarks groups landmark points by facial region.
type FaceLandmarks struct {
	LeftEye     []Point `json:"left_eye"`
	RightEye    []Point `json:"right_eye"`
	Nose        []Point `json:"nose"`
	Mouth       []Point `json:"mouth"`
	Jawline     []Point `json:"jawline"`
	Eyebrows    []Point `json:"eyebrows"`
	FaceOutline []Point `json:"face_outline"`
}

// Region returns the points of the given facial region. Unknown regions
// return an empty slice, which every scoring function handles.
func (l *FaceLandmarks) Region(r LandmarkRegion) []Point {
	if l == nil {
		return nil
	}
	switch r {
	case RegionLeftEye:
		return l.LeftEye
	case RegionRightEye:
		return l.RightEye
	case RegionNose:
		return l.Nose
	case RegionMouth:
		return l.Mouth
	case RegionJawline:
		return l.Jawline
	case RegionEyebrows:
		return l.Eyebrows
	case RegionFaceOutline:
		return l.FaceOutline
	}
	return nil
}

// Count returns the total number of landmark points across all regions.
func (l *FaceLandmarks) Count() int {
	if l == nil {
		return 0
	}
	return len(l.LeftEye) + len(l.RightEye) + len(l.Nose) + len(l.Mouth) +
		len(l.Jawline) + len(l.Eyebrows) + len(l.FaceOutline)
}

// FaceDetection is the unified detection result returned by every provider.
type FaceDetection struct {
	HasFace       bool           `json:"has_face"`
	FaceCount     int            `json:"face_count"`
	Confidence    float64        `json:"confidence"`
	BoundingBoxes []BoundingBox  `json:"bounding_boxes"`
	Landmarks     *FaceLandmarks `json:"landmarks,omitempty"`
	Provider      string         `json:"provider,omitempty"`
	Message       string         `json:"message"`
}

// NoFace is the default result used when detection fails or finds nothing.
func NoFace(message string) *FaceDetection {
	return &FaceDetection{
		HasFace:       false,
		FaceCount:     0,
		Confidence:    0,
		BoundingBoxes: []BoundingBox{},
		Message:       message,
	}
}

// Severity buckets a 0-100 UI score.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// SkinType is the overall skin classification.
type SkinType string

const (
	SkinTypeOily        SkinType = "Oily"
	SkinTypeDry         SkinType = "Dry"
	SkinTypeCombination SkinType = "Combination"
	SkinTypeNormal      SkinType = "Normal"
	SkinTypeSensitive   SkinType = "Sensitive"
)

// Undertone is the skin undertone classification.
type Undertone string

const (
	UndertoneWarm    Undertone = "Warm"
	UndertoneCool    Undertone = "Cool"
	UndertoneNeutral Undertone = "Neutral"
)

// SkinParameter is a single HD analysis score.
type SkinParameter struct {
	RawScore       float64  `json:"raw_score"`
	UIScore        float64  `json:"ui_score"`
	Severity       Severity `json:"severity"`
	AreaPercentage float64  `json:"area_percentage"`
	Confidence     float64  `json:"confidence"`
}

// RGB holds 8-bit color channel values.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// SkinTone describes the dominant skin color.
type SkinTone struct {
	Category  string    `json:"category"`
	Hex       string    `json:"hex"`
	RGB       RGB       `json:"rgb"`
	Undertone Undertone `json:"undertone"`
}

// SkinAnalysis holds the full set of HD skin parameters and the overall
// classification derived from them.
type SkinAnalysis struct {
	HDRedness    SkinParameter `json:"hd_redness"`
	HDOiliness   SkinParameter `json:"hd_oiliness"`
	HDAgeSpot    SkinParameter `json:"hd_age_spot"`
	HDRadiance   SkinParameter `json:"hd_radiance"`
	HDMoisture   SkinParameter `json:"hd_moisture"`
	HDDarkCircle SkinParameter `json:"hd_dark_circle"`
	HDEyeBag     SkinParameter `json:"hd_eye_bag"`
	HDFirmness   SkinParameter `json:"hd_firmness"`
	HDTexture    SkinParameter `json:"hd_texture"`
	HDAcne       SkinParameter `json:"hd_acne"`
	HDPore       SkinParameter `json:"hd_pore"`
	HDWrinkle    SkinParameter `json:"hd_wrinkle"`

	SkinTone              SkinTone `json:"skin_tone"`
	SkinType              SkinType `json:"skin_type"`
	OverallHealth         float64  `json:"overall_health"`
	RecommendedTreatments []string `json:"recommended_treatments"`
}

// AgeRange bounds an age estimate.
type AgeRange struct {
	MinAge     float64 `json:"min_age"`
	MaxAge     float64 `json:"max_age"`
	MostLikely float64 `json:"most_likely"`
}

// AgeEstimation is the result of the age heuristics.
type AgeEstimation struct {
	EstimatedAge float64  `json:"estimated_age"`
	AgeRange     AgeRange `json:"age_range"`
	Confidence   float64  `json:"confidence"`
	AgeGroup     string   `json:"age_group"`
}

// Emotion is a single scored emotion.
type Emotion struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ExpressionAnalysis is the result of the expression heuristics.
type ExpressionAnalysis struct {
	DominantEmotion     string             `json:"dominant_emotion"`
	Emotions            []Emotion          `json:"emotions"`
	ExpressionIntensity float64            `json:"expression_intensity"`
	FacialActionUnits   map[string]float64 `json:"facial_action_units"`
}

// FaceShape is the face outline classification.
type FaceShape string

const (
	FaceShapeRound   FaceShape = "Round"
	FaceShapeOval    FaceShape = "Oval"
	FaceShapeSquare  FaceShape = "Square"
	FaceShapeOblong  FaceShape = "Oblong"
	FaceShapeHeart   FaceShape = "Heart"
	FaceShapeDiamond FaceShape = "Diamond"
)

// EyeShape classifies eye geometry.
type EyeShape string

const (
	EyeShapeRound  EyeShape = "Round"
	EyeShapeAlmond EyeShape = "Almond"
	EyeShapeNarrow EyeShape = "Narrow"
)

// EyeSize classifies eye size.
type EyeSize string

const (
	EyeSizeBig     EyeSize = "Big"
	EyeSizeSmall   EyeSize = "Small"
	EyeSizeAverage EyeSize = "Average"
)

// EyeAnalysis describes one eye.
type EyeAnalysis struct {
	Shape           EyeShape `json:"shape"`
	Size            EyeSize  `json:"size"`
	Color           string   `json:"color"`
	ColorHex        string   `json:"color_hex"`
	OpenProbability float64  `json:"open_probability"`
}

// FaceShapeAnalysis is the classified face shape with its measurements.
type FaceShapeAnalysis struct {
	Type         FaceShape          `json:"type"`
	Confidence   float64            `json:"confidence"`
	Measurements map[string]float64 `json:"measurements"`
}

// FacialFeatures is the result of the facial feature heuristics.
type FacialFeatures struct {
	FaceShape           FaceShapeAnalysis `json:"face_shape"`
	LeftEye             EyeAnalysis       `json:"left_eye"`
	RightEye            EyeAnalysis       `json:"right_eye"`
	NoseWidth           string            `json:"nose_width"`
	NoseLength          string            `json:"nose_length"`
	LipShape            string            `json:"lip_shape"`
	LipFullness         string            `json:"lip_fullness"`
	CheekboneProminence string            `json:"cheekbone_prominence"`
	JawlineDefinition   string            `json:"jawline_definition"`
}

// FaceQuality grades how usable a face image is for further analysis.
type FaceQuality struct {
	Brightness      float64  `json:"brightness"`
	Contrast        float64  `json:"contrast"`
	Sharpness       float64  `json:"sharpness"`
	SizeScore       float64  `json:"size_score"`
	QualityScore    float64  `json:"quality_score"`
	Recommendations []string `json:"recommendations"`
}

// ImageSize holds source image dimensions.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AnalysisMetadata accompanies a comprehensive analysis result.
type AnalysisMetadata struct {
	Timestamp      string    `json:"timestamp"`
	ImageSize      ImageSize `json:"image_size"`
	ProcessingTime float64   `json:"processing_time"`
}

// ComprehensiveAnalysis combines every analysis for a single image.
type ComprehensiveAnalysis struct {
	FaceDetection      *FaceDetection      `json:"face_detection"`
	SkinAnalysis       *SkinAnalysis       `json:"skin_analysis"`
	FacialFeatures     *FacialFeatures     `json:"facial_features"`
	AgeEstimation      *AgeEstimation      `json:"age_estimation"`
	ExpressionAnalysis *ExpressionAnalysis `json:"expression_analysis"`
	Metadata           AnalysisMetadata    `json:"analysis_metadata"`
}

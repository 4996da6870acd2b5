package analyze

import (
	"face-analysis/internal/pkg/model/analysis_model"
	"math"
)

// Quick preview scores derived from landmark geometry only, used during
// live capture before a full image analysis runs. Each function returns
// its documented floor value when no landmarks of the relevant regions are
// present; more landmark detail lowers the score from its floor by a
// deterministic geometry-derived deduction.
const (
	SpotsScoreFloor      = 75.0
	WrinkleScoreFloor    = 80.0
	TextureScoreFloor    = 78.0
	DarkCircleScoreFloor = 72.0
	PoreScoreFloor       = 76.0
)

// QuickScores is the landmark-only skin preview.
type QuickScores struct {
	Spots       float64 `json:"spots"`
	Wrinkles    float64 `json:"wrinkles"`
	Texture     float64 `json:"texture"`
	DarkCircles float64 `json:"dark_circles"`
	Pores       float64 `json:"pores"`
}

// QuickSkinScores derives the preview scores from landmarks. Safe on nil
// or empty landmarks: every score sits at its floor.
func QuickSkinScores(landmarks *analysis_model.FaceLandmarks) QuickScores {
	return QuickScores{
		Spots:       SpotsScore(landmarks),
		Wrinkles:    WrinkleScore(landmarks),
		Texture:     TextureScore(landmarks),
		DarkCircles: DarkCircleScore(landmarks),
		Pores:       PoreQuickScore(landmarks),
	}
}

// SpotsScore scores spot likelihood from jawline and outline spread.
// Floor: 75 with no landmarks.
func SpotsScore(landmarks *analysis_model.FaceLandmarks) float64 {
	jaw := landmarks.Region(analysis_model.RegionJawline)
	outline := landmarks.Region(analysis_model.RegionFaceOutline)

	deduction := spreadRatio(jaw)*6 + float64(len(outline))*0.25
	return clampScore(SpotsScoreFloor - deduction)
}

// WrinkleScore scores wrinkle likelihood from eyebrow-to-eye distances.
// Floor: 80 with no landmarks.
func WrinkleScore(landmarks *analysis_model.FaceLandmarks) float64 {
	brows := landmarks.Region(analysis_model.RegionEyebrows)
	eyes := append(append([]analysis_model.Point{},
		landmarks.Region(analysis_model.RegionLeftEye)...),
		landmarks.Region(analysis_model.RegionRightEye)...)

	if len(brows) == 0 || len(eyes) == 0 {
		return WrinkleScoreFloor
	}

	gap := math.Abs(centroid(brows).Y - centroid(eyes).Y)
	deduction := clamp01(gap/200) * 10
	return clampScore(WrinkleScoreFloor - deduction)
}

// TextureScore scores texture quality from nose and mouth landmark
// density. Floor: 78 with no landmarks.
func TextureScore(landmarks *analysis_model.FaceLandmarks) float64 {
	nose := landmarks.Region(analysis_model.RegionNose)
	mouth := landmarks.Region(analysis_model.RegionMouth)

	deduction := float64(len(nose)+len(mouth)) * 0.5
	return clampScore(TextureScoreFloor - deduction)
}

// DarkCircleScore scores dark circle likelihood from eye landmark
// symmetry. Floor: 72 with no landmarks.
func DarkCircleScore(landmarks *analysis_model.FaceLandmarks) float64 {
	left := landmarks.Region(analysis_model.RegionLeftEye)
	right := landmarks.Region(analysis_model.RegionRightEye)

	if len(left) == 0 || len(right) == 0 {
		return DarkCircleScoreFloor
	}

	asymmetry := math.Abs(centroid(left).Y - centroid(right).Y)
	deduction := clamp01(asymmetry/50) * 8
	return clampScore(DarkCircleScoreFloor - deduction)
}

// PoreQuickScore scores pore visibility from nose landmark spread.
// Floor: 76 with no landmarks.
func PoreQuickScore(landmarks *analysis_model.FaceLandmarks) float64 {
	nose := landmarks.Region(analysis_model.RegionNose)

	deduction := spreadRatio(nose) * 8
	return clampScore(PoreScoreFloor - deduction)
}

// spreadRatio is the horizontal spread of a point set relative to its
// vertical spread, clamped to [0, 1]. Empty or single-point sets yield 0.
func spreadRatio(points []analysis_model.Point) float64 {
	if len(points) < 2 {
		return 0
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	if maxX == minX {
		return 0
	}
	return clamp01((maxY - minY) / (maxX - minX))
}

func centroid(points []analysis_model.Point) analysis_model.Point {
	if len(points) == 0 {
		return analysis_model.Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return analysis_model.Point{X: sx / n, Y: sy / n}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return math.Round(v*10) / 10
}

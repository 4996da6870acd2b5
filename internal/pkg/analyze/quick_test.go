package analyze_test

import (
	"face-analysis/internal/pkg/analyze"
	"face-analysis/internal/pkg/detect"
	"face-analysis/internal/pkg/model/analysis_model"
	"reflect"
	"testing"
)

func Test_QuickSkinScores_FloorsWithoutLandmarks(t *testing.T) {

	tests := []struct {
		name      string
		landmarks *analysis_model.FaceLandmarks
	}{
		{name: "nil landmarks", landmarks: nil},
		{name: "empty landmarks", landmarks: &analysis_model.FaceLandmarks{}},
	}

	want := analyze.QuickScores{
		Spots:       analyze.SpotsScoreFloor,
		Wrinkles:    analyze.WrinkleScoreFloor,
		Texture:     analyze.TextureScoreFloor,
		DarkCircles: analyze.DarkCircleScoreFloor,
		Pores:       analyze.PoreScoreFloor,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze.QuickSkinScores(tt.landmarks)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("QuickSkinScores() = %+v, want every score at its floor %+v", got, want)
			}
		})
	}
}

func Test_QuickSkinScores_Deterministic(t *testing.T) {

	landmarks := detect.SynthesizeLandmarks(analysis_model.BoundingBox{X: 40, Y: 30, Width: 200, Height: 260})

	first := analyze.QuickSkinScores(landmarks)
	second := analyze.QuickSkinScores(landmarks)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("QuickSkinScores() is not deterministic: %+v != %+v", first, second)
	}
}

func Test_QuickSkinScores_WithinRange(t *testing.T) {

	landmarks := detect.SynthesizeLandmarks(analysis_model.BoundingBox{X: 0, Y: 0, Width: 500, Height: 700})
	got := analyze.QuickSkinScores(landmarks)

	scores := map[string]float64{
		"spots":        got.Spots,
		"wrinkles":     got.Wrinkles,
		"texture":      got.Texture,
		"dark_circles": got.DarkCircles,
		"pores":        got.Pores,
	}
	for name, score := range scores {
		if score < 0 || score > 100 {
			t.Errorf("%s score = %v, want within [0, 100]", name, score)
		}
	}

	// landmark detail lowers scores from their floors
	if got.Texture >= analyze.TextureScoreFloor {
		t.Errorf("texture score = %v, want below the floor with nose and mouth landmarks present", got.Texture)
	}
}

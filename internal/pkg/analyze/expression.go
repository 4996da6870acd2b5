package analyze

import (
	"face-analysis/internal/pkg/imgstat"
	"face-analysis/internal/pkg/model/analysis_model"
	"image"
	"math"
	"sort"
)

// Facial action units scored by the expression heuristics.
var actionUnitNames = []string{
	"AU1",  // Inner Brow Raiser
	"AU2",  // Outer Brow Raiser
	"AU4",  // Brow Lowerer
	"AU6",  // Cheek Raiser
	"AU9",  // Nose Wrinkler
	"AU12", // Lip Corner Puller
	"AU15", // Lip Corner Depressor
	"AU25", // Lips Part
	"AU26", // Jaw Drop
}

// AnalyzeExpression scores facial action units from regional image
// statistics of the face crop and derives emotion confidences from them.
func AnalyzeExpression(img image.Image, detection *analysis_model.FaceDetection) *analysis_model.ExpressionAnalysis {
	box, ok := largestBox(detection)
	if !ok {
		return defaultExpressionAnalysis()
	}

	gray := imgstat.FromImage(img)
	face := gray.Crop(int(box.X), int(box.Y), int(box.X+box.Width), int(box.Y+box.Height))
	if face.Width < 8 || face.Height < 8 {
		return defaultExpressionAnalysis()
	}

	units := scoreActionUnits(face)
	emotions := scoreEmotions(units)

	sort.Slice(emotions, func(i, j int) bool {
		return emotions[i].Confidence > emotions[j].Confidence
	})

	var intensity float64
	for _, name := range actionUnitNames {
		intensity += units[name]
	}
	intensity = math.Round(intensity/float64(len(actionUnitNames))*1000) / 1000

	return &analysis_model.ExpressionAnalysis{
		DominantEmotion:     emotions[0].Name,
		Emotions:            emotions,
		ExpressionIntensity: intensity,
		FacialActionUnits:   units,
	}
}

// scoreActionUnits derives each AU from brightness and gradient statistics
// of its canonical face region.
func scoreActionUnits(face *imgstat.Gray) map[string]float64 {
	w, h := face.Width, face.Height

	crop := func(x0, y0, x1, y1 float64) *imgstat.Gray {
		return face.Crop(int(float64(w)*x0), int(float64(h)*y0), int(float64(w)*x1), int(float64(h)*y1))
	}

	brow := crop(0.2, 0.15, 0.8, 0.3)
	browInner := crop(0.4, 0.15, 0.6, 0.3)
	cheeks := crop(0.15, 0.45, 0.85, 0.65)
	noseTop := crop(0.4, 0.4, 0.6, 0.55)
	mouth := crop(0.3, 0.65, 0.7, 0.85)
	mouthCorners := crop(0.25, 0.68, 0.4, 0.8)
	jaw := crop(0.35, 0.8, 0.65, 1.0)

	faceMean := face.Mean()

	units := map[string]float64{
		// Brow raisers show as brighter, smoother brow regions.
		"AU1": round3(clamp01((browInner.Mean() - faceMean) / 40)),
		"AU2": round3(clamp01((brow.Mean() - faceMean) / 40)),
		// Lowered brows darken and wrinkle the region.
		"AU4": round3(clamp01((faceMean - brow.Mean()) / 40)),
		// Raised cheeks add gradient structure.
		"AU6": round3(clamp01(cheeks.SobelMean() / 60)),
		// Nose wrinkling concentrates edges at the nose bridge.
		"AU9": round3(clamp01(noseTop.SobelMean() / 50)),
		// Smiles brighten the mouth corners relative to the mouth.
		"AU12": round3(clamp01((mouthCorners.Mean() - mouth.Mean() + 10) / 40)),
		// Depressed corners darken them instead.
		"AU15": round3(clamp01((mouth.Mean() - mouthCorners.Mean() + 10) / 40)),
		// Parted lips and dropped jaws darken the mouth and jaw areas.
		"AU25": round3(clamp01((faceMean - mouth.Mean()) / 50)),
		"AU26": round3(clamp01((faceMean - jaw.Mean()) / 50)),
	}

	return units
}

// scoreEmotions maps AU combinations to emotion confidences.
func scoreEmotions(units map[string]float64) []analysis_model.Emotion {
	happy := units["AU6"]*0.5 + units["AU12"]*0.5
	sad := units["AU15"]*0.6 + units["AU4"]*0.4
	angry := units["AU4"]*0.6 + units["AU9"]*0.4
	surprise := units["AU1"]*0.3 + units["AU2"]*0.3 + units["AU26"]*0.4
	fear := units["AU1"]*0.3 + units["AU25"]*0.3 + units["AU26"]*0.4
	disgust := units["AU9"]*0.6 + units["AU15"]*0.4

	strongest := math.Max(happy, math.Max(sad, math.Max(angry,
		math.Max(surprise, math.Max(fear, disgust)))))
	neutral := clamp01(1 - strongest)

	return []analysis_model.Emotion{
		{Name: "happy", Confidence: round3(happy)},
		{Name: "sad", Confidence: round3(sad)},
		{Name: "angry", Confidence: round3(angry)},
		{Name: "surprise", Confidence: round3(surprise)},
		{Name: "fear", Confidence: round3(fear)},
		{Name: "disgust", Confidence: round3(disgust)},
		{Name: "neutral", Confidence: round3(neutral)},
	}
}

func defaultExpressionAnalysis() *analysis_model.ExpressionAnalysis {
	units := make(map[string]float64, len(actionUnitNames))
	for _, name := range actionUnitNames {
		units[name] = 0
	}

	return &analysis_model.ExpressionAnalysis{
		DominantEmotion: "neutral",
		Emotions: []analysis_model.Emotion{
			{Name: "neutral", Confidence: 1},
		},
		ExpressionIntensity: 0,
		FacialActionUnits:   units,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

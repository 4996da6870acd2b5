package detect

import (
	"context"
	"face-analysis/internal/pkg/imgstat"
	"face-analysis/internal/pkg/model/analysis_model"
	"math"
)

// minSkinRatio is the fraction of skin-tone pixels below which the local
// provider reports no face.
const minSkinRatio = 0.02

// Local is the on-device detection provider. It segments skin-tone pixels,
// takes their bounding box as the face region and synthesizes landmarks at
// canonical proportions. Fully deterministic: the same image always yields
// the same result.
type Local struct{}

// NewLocal returns the on-device provider.
func NewLocal() *Local {
	return &Local{}
}

// Name implements Detector.
func (l *Local) Name() string {
	return "local"
}

// Probe implements Detector. The local provider has no external
// requirements and is always available.
func (l *Local) Probe(ctx context.Context) error {
	return nil
}

// Detect implements Detector.
func (l *Local) Detect(ctx context.Context, frame *Frame) (*analysis_model.FaceDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := frame.Image.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return analysis_model.NoFace(detectionMessage(0, 0)), nil
	}

	mask := imgstat.SkinMask(frame.Image)

	skinRatio := float64(mask.Count()) / float64(width*height)
	if skinRatio < minSkinRatio {
		return analysis_model.NoFace(detectionMessage(0, 0)), nil
	}

	rect, ok := mask.Bounds()
	if !ok {
		return analysis_model.NoFace(detectionMessage(0, 0)), nil
	}

	box := analysis_model.BoundingBox{
		X:      float64(rect.Min.X),
		Y:      float64(rect.Min.Y),
		Width:  float64(rect.Dx()),
		Height: float64(rect.Dy()),
	}

	gray := imgstat.FromImage(frame.Image)
	confidence := localConfidence(box, width, height, gray.Mean())

	return &analysis_model.FaceDetection{
		HasFace:       true,
		FaceCount:     1,
		Confidence:    confidence,
		BoundingBoxes: []analysis_model.BoundingBox{box},
		Landmarks:     SynthesizeLandmarks(box),
		Message:       detectionMessage(1, confidence),
	}, nil
}

// localConfidence scores a detection from face size, image resolution and
// brightness. Base 0.5 for any detection, bonuses capped at 1.0.
func localConfidence(box analysis_model.BoundingBox, width, height int, brightness float64) float64 {
	confidence := 0.5

	sizeRatio := box.Area() / float64(width*height)
	switch {
	case sizeRatio > 0.1:
		confidence += 0.3
	case sizeRatio > 0.05:
		confidence += 0.2
	default:
		confidence += 0.1
	}

	switch {
	case width >= 640 && height >= 480:
		confidence += 0.1
	case width >= 320 && height >= 240:
		confidence += 0.05
	}

	if brightness >= 50 && brightness <= 200 {
		confidence += 0.1
	}

	return math.Round(math.Min(1.0, confidence)*1000) / 1000
}

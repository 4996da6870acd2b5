// Package detect implements the face detection engine: interchangeable
// detection providers behind a common interface, a ranked fallback chain
// probed at startup and a cooldown-gated cache for live preview use.
package detect

import (
	"bytes"
	"context"
	"face-analysis/internal/pkg/model/analysis_model"
	"fmt"
	"image"
	"image/jpeg"
)

// Detector locates a face in an image and returns the unified result shape.
type Detector interface {
	// Name identifies the provider in results and logs.
	Name() string

	// Probe reports whether the provider is usable. It is called once at
	// startup; providers failing the probe are excluded from the chain.
	Probe(ctx context.Context) error

	// Detect locates faces in the frame. A successful call with no face
	// returns a result with HasFace false, not an error.
	Detect(ctx context.Context, frame *Frame) (*analysis_model.FaceDetection, error)
}

// Frame is one input image, decoded and optionally with its original
// encoded bytes for providers that upload rather than inspect pixels.
type Frame struct {
	Image image.Image
	Data  []byte
}

// NewFrame decodes encoded image bytes into a Frame.
func NewFrame(data []byte) (*Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Frame{Image: img, Data: data}, nil
}

// JPEG returns the frame encoded as JPEG, reusing the original bytes when
// present.
func (f *Frame) JPEG() ([]byte, error) {
	if len(f.Data) > 0 {
		return f.Data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Image, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectionMessage describes a detection outcome for API consumers.
func detectionMessage(faceCount int, confidence float64) string {
	switch {
	case faceCount == 0:
		return "No face detected. Please ensure the image contains a clear, well-lit face."
	case faceCount > 1:
		return fmt.Sprintf("Multiple faces detected (%d). Using the most prominent face for analysis.", faceCount)
	case confidence >= 0.8:
		return fmt.Sprintf("Face detected with high confidence (%.1f%%). Excellent quality for analysis.", confidence*100)
	case confidence >= 0.6:
		return fmt.Sprintf("Face detected with good confidence (%.1f%%). Suitable for analysis.", confidence*100)
	default:
		return fmt.Sprintf("Face detected with low confidence (%.1f%%). Consider improving lighting or image quality.", confidence*100)
	}
}

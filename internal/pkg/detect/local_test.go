package detect

import (
	"context"
	"face-analysis/internal/pkg/model/face_cloud_model"
	"image"
	"image/color"
	"reflect"
	"testing"
)

// skinToneFrame fills the central region of the image with a skin tone.
func skinToneFrame(width, height int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	skin := color.RGBA{R: 200, G: 150, B: 120, A: 255}

	for y := height / 4; y < height*3/4; y++ {
		for x := width / 4; x < width*3/4; x++ {
			img.Set(x, y, skin)
		}
	}
	return &Frame{Image: img}
}

func blueFrame(width, height int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	blue := color.RGBA{R: 10, G: 20, B: 200, A: 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, blue)
		}
	}
	return &Frame{Image: img}
}

func Test_Local_DetectsSkinRegion(t *testing.T) {

	local := NewLocal()
	frame := skinToneFrame(320, 240)

	got, err := local.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if !got.HasFace || got.FaceCount != 1 {
		t.Fatalf("Detect() = %+v, want one detected face", got)
	}
	if len(got.BoundingBoxes) != 1 || got.BoundingBoxes[0].Width == 0 {
		t.Errorf("Detect() bounding boxes = %v, want one non-empty box", got.BoundingBoxes)
	}
	if got.Landmarks == nil || got.Landmarks.Count() == 0 {
		t.Errorf("Detect() returned no landmarks")
	}
	if got.Confidence <= 0.5 || got.Confidence > 1.0 {
		t.Errorf("Detect() confidence = %v, want within (0.5, 1.0]", got.Confidence)
	}

	// same image, same result
	again, err := local.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("Detect() is not deterministic: %+v != %+v", got, again)
	}
}

func Test_Local_ReportsNoFaceWithoutSkinPixels(t *testing.T) {

	local := NewLocal()

	got, err := local.Detect(context.Background(), blueFrame(320, 240))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if got.HasFace || got.FaceCount != 0 || got.Confidence != 0 {
		t.Errorf("Detect() = %+v, want the no-face result", got)
	}
}

func Test_ParseCloudLandmarks(t *testing.T) {

	landmarks := []face_cloud_model.Landmark{
		{Class: "left_eye", X: 30, Y: 40},
		{Class: "right_eye", X: 70, Y: 40},
		{Class: "nose_tip", X: 50, Y: 55},
		{Class: "mouth_left", X: 35, Y: 75},
		{Class: "mouth_right", X: 65, Y: 75},
		{Class: "chin", X: 50, Y: 95},
		{Class: "unknown_marker", X: 1, Y: 1},
	}

	parsed := parseCloudLandmarks(landmarks)

	if len(parsed.LeftEye) != 1 || len(parsed.RightEye) != 1 {
		t.Errorf("eye landmarks = %d/%d, want 1/1", len(parsed.LeftEye), len(parsed.RightEye))
	}
	if len(parsed.Nose) != 1 {
		t.Errorf("nose landmarks = %d, want 1", len(parsed.Nose))
	}
	if len(parsed.Mouth) != 2 {
		t.Errorf("mouth landmarks = %d, want 2", len(parsed.Mouth))
	}
	if len(parsed.Jawline) != 1 {
		t.Errorf("jawline landmarks = %d, want 1", len(parsed.Jawline))
	}
	if parsed.Count() != 6 {
		t.Errorf("Count() = %d, want 6 with the unknown class dropped", parsed.Count())
	}
}

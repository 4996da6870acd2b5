package detect

import (
	"context"
	"errors"
	"face-analysis/internal/pkg/model/analysis_model"
	"image"
	"reflect"
	"testing"
	"time"
)

// fakeDetector counts Detect invocations and returns a canned outcome.
type fakeDetector struct {
	name        string
	probeErr    error
	detectErr   error
	result      *analysis_model.FaceDetection
	probeCalls  int
	detectCalls int
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Probe(ctx context.Context) error {
	f.probeCalls++
	return f.probeErr
}

func (f *fakeDetector) Detect(ctx context.Context, frame *Frame) (*analysis_model.FaceDetection, error) {
	f.detectCalls++
	if f.detectErr != nil {
		return nil, f.detectErr
	}
	return f.result, nil
}

func testFrame() *Frame {
	return &Frame{Image: image.NewRGBA(image.Rect(0, 0, 8, 8))}
}

func Test_Throttled_CooldownClamp(t *testing.T) {

	tests := []struct {
		name     string
		cooldown time.Duration
		want     time.Duration
	}{
		{name: "zero selects default", cooldown: 0, want: DefaultCooldown},
		{name: "below range clamps up", cooldown: 100 * time.Millisecond, want: 1500 * time.Millisecond},
		{name: "above range clamps down", cooldown: 10 * time.Second, want: 3 * time.Second},
		{name: "in range kept", cooldown: 2500 * time.Millisecond, want: 2500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewThrottled(&fakeDetector{name: "fake"}, tt.cooldown)
			if th.cooldown != tt.want {
				t.Errorf("NewThrottled() cooldown = %v, want %v", th.cooldown, tt.want)
			}
		})
	}
}

func Test_Throttled_ServesCachedResultWithinCooldown(t *testing.T) {

	detected := &analysis_model.FaceDetection{HasFace: true, FaceCount: 1, Confidence: 0.9}
	inner := &fakeDetector{name: "fake", result: detected}

	now := time.Now()
	th := NewThrottled(inner, DefaultCooldown)
	th.now = func() time.Time { return now }

	first, err := th.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	// second call within the cooldown window
	now = now.Add(500 * time.Millisecond)
	second, err := th.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if inner.detectCalls != 1 {
		t.Errorf("inner detector invoked %d times, want 1", inner.detectCalls)
	}
	if first != second {
		t.Errorf("expected the cached result to be served within the cooldown")
	}

	// third call after the cooldown expires
	now = now.Add(DefaultCooldown)
	if _, err = th.Detect(context.Background(), testFrame()); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if inner.detectCalls != 2 {
		t.Errorf("inner detector invoked %d times after cooldown, want 2", inner.detectCalls)
	}
}

func Test_Throttled_DegradesToDefaultResultOnError(t *testing.T) {

	inner := &fakeDetector{name: "fake", detectErr: errors.New("provider exploded")}
	th := NewThrottled(inner, DefaultCooldown)

	got, err := th.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect() error = %v, want nil", err)
	}

	want := analysis_model.NoFace("Face detection failed. Returning default result.")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %+v, want %+v", got, want)
	}
}

func Test_Throttled_ResetClearsCache(t *testing.T) {

	inner := &fakeDetector{name: "fake", result: &analysis_model.FaceDetection{HasFace: true, FaceCount: 1}}
	th := NewThrottled(inner, DefaultCooldown)

	if _, err := th.Detect(context.Background(), testFrame()); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	th.Reset()

	if _, err := th.Detect(context.Background(), testFrame()); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if inner.detectCalls != 2 {
		t.Errorf("inner detector invoked %d times after Reset, want 2", inner.detectCalls)
	}
}

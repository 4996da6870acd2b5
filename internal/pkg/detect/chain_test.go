package detect

import (
	"context"
	"errors"
	"face-analysis/internal/pkg/model/analysis_model"
	"reflect"
	"testing"
)

func Test_NewChain_ExcludesFailedProbes(t *testing.T) {

	primary := &fakeDetector{name: "local"}
	secondary := &fakeDetector{name: "face_cloud", probeErr: errors.New("credentials not configured")}

	chain := NewChain(context.Background(), primary, secondary)

	want := []string{"local"}
	if got := chain.Providers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Providers() = %v, want %v", got, want)
	}
	if err := chain.Probe(context.Background()); err != nil {
		t.Errorf("Probe() error = %v, want nil", err)
	}
}

func Test_Chain_ProbeReportsNoProvider(t *testing.T) {

	failing := &fakeDetector{name: "local", probeErr: errors.New("down")}
	chain := NewChain(context.Background(), failing)

	if err := chain.Probe(context.Background()); !errors.Is(err, ErrNoProvider) {
		t.Errorf("Probe() error = %v, want ErrNoProvider", err)
	}
}

func Test_Chain_FallsBackToSecondaryOnce(t *testing.T) {

	detected := &analysis_model.FaceDetection{HasFace: true, FaceCount: 1, Confidence: 0.8}
	primary := &fakeDetector{name: "local", detectErr: errors.New("segmentation failed")}
	secondary := &fakeDetector{name: "face_cloud", result: detected}

	chain := NewChain(context.Background(), primary, secondary)

	got, err := chain.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if primary.detectCalls != 1 {
		t.Errorf("primary invoked %d times, want 1", primary.detectCalls)
	}
	if secondary.detectCalls != 1 {
		t.Errorf("secondary invoked %d times, want exactly 1", secondary.detectCalls)
	}
	if !got.HasFace || got.Provider != "face_cloud" {
		t.Errorf("Detect() = %+v, want the secondary result attributed to face_cloud", got)
	}
}

func Test_Chain_ReturnsDefaultResultWhenAllProvidersFail(t *testing.T) {

	primary := &fakeDetector{name: "local", detectErr: errors.New("segmentation failed")}
	secondary := &fakeDetector{name: "face_cloud", detectErr: errors.New("http 503")}

	chain := NewChain(context.Background(), primary, secondary)

	got, err := chain.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect() error = %v, want nil", err)
	}

	if got.HasFace || got.FaceCount != 0 || got.Confidence != 0 {
		t.Errorf("Detect() = %+v, want the default no-face result", got)
	}
	if primary.detectCalls != 1 || secondary.detectCalls != 1 {
		t.Errorf("providers invoked %d/%d times, want 1/1", primary.detectCalls, secondary.detectCalls)
	}
}

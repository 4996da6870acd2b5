package detect

import (
	"context"
	"face-analysis/internal/pkg/model/analysis_model"
	"sync"
	"time"
)

const (
	// DefaultCooldown is the minimum interval between two real detection
	// runs during live preview.
	DefaultCooldown = 2 * time.Second

	minCooldown = 1500 * time.Millisecond
	maxCooldown = 3 * time.Second
)

// Throttled wraps a detector with a cooldown gate. Calls arriving inside
// the cooldown window are served the cached result without invoking the
// inner detector. An inner detector error degrades to the default no-face
// result, which is cached like any other result.
type Throttled struct {
	inner    Detector
	cooldown time.Duration
	now      func() time.Time

	mu     sync.Mutex
	last   *analysis_model.FaceDetection
	lastAt time.Time
}

// NewThrottled builds a throttled detector. A zero cooldown selects
// DefaultCooldown; other values are clamped to the supported preview range.
func NewThrottled(inner Detector, cooldown time.Duration) *Throttled {
	switch {
	case cooldown == 0:
		cooldown = DefaultCooldown
	case cooldown < minCooldown:
		cooldown = minCooldown
	case cooldown > maxCooldown:
		cooldown = maxCooldown
	}

	return &Throttled{
		inner:    inner,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Name implements Detector.
func (t *Throttled) Name() string {
	return t.inner.Name()
}

// Probe implements Detector.
func (t *Throttled) Probe(ctx context.Context) error {
	return t.inner.Probe(ctx)
}

// Detect returns the cached result inside the cooldown window, otherwise
// runs the inner detector and refreshes the cache. Detect never returns an
// error: failed detection degrades to the default no-face result.
func (t *Throttled) Detect(ctx context.Context, frame *Frame) (*analysis_model.FaceDetection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.last != nil && t.now().Sub(t.lastAt) < t.cooldown {
		return t.last, nil
	}

	result, err := t.inner.Detect(ctx, frame)
	if err != nil {
		result = analysis_model.NoFace("Face detection failed. Returning default result.")
	}

	t.last = result
	t.lastAt = t.now()

	return result, nil
}

// Reset clears the cache so the next call runs the inner detector.
func (t *Throttled) Reset() {
	t.mu.Lock()
	t.last = nil
	t.lastAt = time.Time{}
	t.mu.Unlock()
}

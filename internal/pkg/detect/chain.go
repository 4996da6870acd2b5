package detect

import (
	"context"
	"errors"
	"face-analysis/internal/pkg/model/analysis_model"
	"log"
)

// ErrNoProvider is returned by Probe when no candidate passed its
// capability probe.
var ErrNoProvider = errors.New("no available face detection provider")

// Chain tries detection providers in a fixed ranked order and returns the
// first successful result. Providers are probed once when the chain is
// built; candidates that fail the probe never take part in detection.
type Chain struct {
	providers []Detector
}

// NewChain probes the candidates in order and keeps the usable ones.
func NewChain(ctx context.Context, candidates ...Detector) *Chain {
	chain := &Chain{}

	for _, candidate := range candidates {
		if err := candidate.Probe(ctx); err != nil {
			log.Printf("detection provider %s unavailable: %v", candidate.Name(), err)
			continue
		}
		chain.providers = append(chain.providers, candidate)
	}

	return chain
}

// Name implements Detector.
func (c *Chain) Name() string {
	return "chain"
}

// Probe reports whether at least one provider is available.
func (c *Chain) Probe(ctx context.Context) error {
	if len(c.providers) == 0 {
		return ErrNoProvider
	}
	return nil
}

// Providers returns the names of the available providers in rank order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Detect runs the providers in order. A provider error moves on to the next
// provider; each provider is invoked at most once per call. When every
// provider fails the default no-face result is returned without an error.
func (c *Chain) Detect(ctx context.Context, frame *Frame) (*analysis_model.FaceDetection, error) {

	for _, provider := range c.providers {
		result, err := provider.Detect(ctx, frame)
		if err != nil {
			log.Printf("detection provider %s failed: %v", provider.Name(), err)
			continue
		}

		result.Provider = provider.Name()
		return result, nil
	}

	return analysis_model.NoFace("Face detection unavailable. No provider produced a result."), nil
}

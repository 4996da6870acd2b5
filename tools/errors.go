package tools

import "errors"

// Sentinel errors shared across the repo and service layers.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("requested resource not found")

	// ErrNoFace is returned when no detection provider found a face in the image.
	ErrNoFace = errors.New("no face detected in image")
)

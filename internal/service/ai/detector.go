package ai

import (
	"image"

	"poachwatch/internal/dto"
)

// Frame is one decoded image handed from a decoder to a detector. The
// scanner closes it once the detector is done with it.
type Frame interface {
	Close() error
}

// ImageFrame carries pixels decoded by Go codecs.
type ImageFrame struct {
	image.Image
}

func (ImageFrame) Close() error { return nil }

// Detector answers one question about an image: is a human present.
// Implementations must be safe for concurrent use.
type Detector interface {
	Score(frame Frame) (bool, error)
	Close() error
}

// Handle is a loaded detector together with where it came from. It is
// created once by the resolver and not modified afterwards.
type Handle struct {
	Detector
	Candidate    dto.ModelCandidate
	ArtifactPath string
	// Shared handles are owned by a cache and must not be closed by a run.
	Shared bool
}

func (h *Handle) Kind() dto.DetectorKind {
	return h.Candidate.Kind
}

// Release closes the underlying detector unless the handle is shared.
func (h *Handle) Release() error {
	if h == nil || h.Shared || h.Detector == nil {
		return nil
	}
	return h.Detector.Close()
}

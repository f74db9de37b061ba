package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
	"poachwatch/internal/service/ai"
)

// ModelsSubdirectory is searched before the installation root.
const ModelsSubdirectory = "models"

var (
	ErrNoCandidates     = errors.New("no model candidates configured")
	ErrArtifactNotFound = errors.New("model artifact not found")
)

// ModelLoadError is returned when every candidate failed. It wraps the last failure.
type ModelLoadError struct {
	Attempts int
	Err      error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("all %d model candidates failed, last error: %v", e.Attempts, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// Loader constructs a detector from located artifacts.
type Loader interface {
	Load(candidate dto.ModelCandidate, artifactPath, configPath string) (ai.Detector, error)
}

// Resolver walks the candidate list in order and returns the first detector
// that can be built. Later candidates are never touched once one succeeds.
type Resolver struct {
	candidates []dto.ModelCandidate
	installDir string
	loader     Loader
	logger     *logger.Logger
}

func NewResolver(candidates []dto.ModelCandidate, installDir string, loader Loader, logger *logger.Logger) *Resolver {
	return &Resolver{
		candidates: append([]dto.ModelCandidate(nil), candidates...),
		installDir: installDir,
		loader:     loader,
		logger:     logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context) (*ai.Handle, error) {
	if len(r.candidates) == 0 {
		return nil, &ModelLoadError{Err: ErrNoCandidates}
	}

	var lastErr error
	for i, candidate := range r.candidates {
		if err := ctx.Err(); err != nil {
			return nil, &ModelLoadError{Attempts: i, Err: err}
		}

		handle, err := r.attempt(candidate)
		if err != nil {
			r.logger.Warning("Model %s (%s) failed: %v", candidate.Name, candidate.Kind, err)
			lastErr = err
			continue
		}

		r.logger.Info("🤖 Model %s loaded as %s", handle.ArtifactPath, candidate.Kind)
		return handle, nil
	}

	return nil, &ModelLoadError{Attempts: len(r.candidates), Err: lastErr}
}

func (r *Resolver) attempt(candidate dto.ModelCandidate) (*ai.Handle, error) {
	artifactPath, err := r.Locate(candidate.Name)
	if err != nil {
		return nil, err
	}

	configPath := ""
	if candidate.Config != "" {
		if configPath, err = r.Locate(candidate.Config); err != nil {
			return nil, err
		}
	}

	detector, err := safeLoad(r.loader, candidate, artifactPath, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to construct %s detector from %s: %w", candidate.Kind, artifactPath, err)
	}
	if detector == nil {
		return nil, fmt.Errorf("loader returned no detector for %s", artifactPath)
	}

	return &ai.Handle{
		Detector:     detector,
		Candidate:    candidate,
		ArtifactPath: artifactPath,
	}, nil
}

// safeLoad turns a loader panic into an error so the next candidate is tried.
func safeLoad(loader Loader, candidate dto.ModelCandidate, artifactPath, configPath string) (detector ai.Detector, err error) {
	defer func() {
		if r := recover(); r != nil {
			detector = nil
			err = fmt.Errorf("loader panicked: %v", r)
		}
	}()
	return loader.Load(candidate, artifactPath, configPath)
}

// Locate finds an artifact by name: absolute paths are used as they are,
// relative names are tried under models/ first and then at the installation root.
func (r *Resolver) Locate(name string) (string, error) {
	for _, path := range r.searchPaths(name) {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
}

func (r *Resolver) searchPaths(name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}
	return []string{
		filepath.Join(r.installDir, ModelsSubdirectory, name),
		filepath.Join(r.installDir, name),
	}
}

package opencv

import (
	"fmt"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
	"poachwatch/internal/service/ai"
)

// Loader builds OpenCV-backed detectors for the model resolver.
type Loader struct {
	logger *logger.Logger
}

func NewLoader(logger *logger.Logger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) Load(candidate dto.ModelCandidate, artifactPath, configPath string) (ai.Detector, error) {
	switch candidate.Kind {
	case dto.KindClassifier:
		classifier, err := NewClassifier(artifactPath)
		if err != nil {
			return nil, err
		}
		return classifier, nil
	case dto.KindObjectDetector:
		detector, err := NewObjectDetector(artifactPath, configPath, candidate.Format, l.logger)
		if err != nil {
			return nil, err
		}
		return detector, nil
	default:
		return nil, fmt.Errorf("unknown detector kind %q", candidate.Kind)
	}
}

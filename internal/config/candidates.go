package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"poachwatch/internal/dto"
)

type candidatesFile struct {
	Models []dto.ModelCandidate `yaml:"models"`
}

// LoadCandidates reads the ordered model candidate list from a YAML file:
//
//	models:
//	  - name: poachingdetectionVER7_original.onnx
//	    kind: classifier
//	  - name: yolov8n.onnx
//	    kind: object_detector
//	    format: yolo
//
// The order of the file is the resolution priority.
func LoadCandidates(path string) ([]dto.ModelCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file candidatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(file.Models) == 0 {
		return nil, fmt.Errorf("no models listed in %s", path)
	}

	for i, c := range file.Models {
		if c.Name == "" {
			return nil, fmt.Errorf("model #%d in %s has no name", i+1, path)
		}
		if !c.Kind.Valid() {
			return nil, fmt.Errorf("model %s has unknown kind %q", c.Name, c.Kind)
		}
		if c.Kind == dto.KindObjectDetector && c.Format == "" {
			file.Models[i].Format = dto.FormatYOLO
		}
		if c.Format != "" && !c.Format.Valid() {
			return nil, fmt.Errorf("model %s has unknown format %q", c.Name, c.Format)
		}
	}

	return file.Models, nil
}

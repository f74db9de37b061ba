package dto

// DetectorKind tags which detector variant a model artifact implements.
type DetectorKind string

const (
	KindClassifier     DetectorKind = "classifier"
	KindObjectDetector DetectorKind = "object_detector"
)

func (k DetectorKind) Valid() bool {
	return k == KindClassifier || k == KindObjectDetector
}

// OutputFormat selects how object detector output tensors are read.
type OutputFormat string

const (
	FormatYOLO OutputFormat = "yolo"
	FormatSSD  OutputFormat = "ssd"
)

func (f OutputFormat) Valid() bool {
	return f == FormatYOLO || f == FormatSSD
}

// ModelCandidate is one entry of the ordered model resolution list.
type ModelCandidate struct {
	Name   string       `yaml:"name" json:"name"`
	Kind   DetectorKind `yaml:"kind" json:"kind"`
	Config string       `yaml:"config,omitempty" json:"config,omitempty"` // Optional second artifact (network description)
	Format OutputFormat `yaml:"format,omitempty" json:"format,omitempty"`
}

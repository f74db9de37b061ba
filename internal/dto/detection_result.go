package dto

// DetectionResult is a single box reported by an object detector.
type DetectionResult struct {
	Label      string
	ClassID    int
	Confidence float64
	X          float64 // Box corners normalized to the input size
	Y          float64
	Width      float64
	Height     float64
}

package ai

import (
	"fmt"

	"poachwatch/internal/dto"
)

const (
	// ClassifierInputSize is the square resolution the classifier was trained on.
	ClassifierInputSize = 256
	// ClassifierThreshold is the probability above which a human is present.
	ClassifierThreshold = 0.5

	// YOLOInputSize is the square input of the exported YOLOv8 network.
	YOLOInputSize = 640
	// YOLOConfidence is the minimum class score for a YOLO box.
	YOLOConfidence = 0.25
	// YOLOPersonClass is the COCO "person" index in YOLO exports.
	YOLOPersonClass = 0

	// SSDInputSize is the square input of the MobileNet-SSD network.
	SSDInputSize = 300
	// SSDConfidence is the minimum confidence for an SSD detection.
	SSDConfidence = 0.5
	// SSDPersonClass is the "person" id in the TF object detection label map.
	SSDPersonClass = 1

	ssdRowSize = 7
)

// ProbabilityDetected applies the classifier decision threshold.
func ProbabilityDetected(probability float32) bool {
	return probability > ClassifierThreshold
}

// FirstPersonYOLO scans a YOLOv8 output tensor laid out as [1, 4+classes, boxes]
// and returns the first box whose best class is person with a score above
// YOLOConfidence.
func FirstPersonYOLO(data []float32, attributes, boxes int) (dto.DetectionResult, bool, error) {
	if attributes <= 4+YOLOPersonClass || boxes <= 0 {
		return dto.DetectionResult{}, false, fmt.Errorf("unexpected yolo output shape [%d, %d]", attributes, boxes)
	}
	if len(data) < attributes*boxes {
		return dto.DetectionResult{}, false, fmt.Errorf("yolo output has %d values, expected %d", len(data), attributes*boxes)
	}

	at := func(attr, box int) float32 { return data[attr*boxes+box] }

	for box := 0; box < boxes; box++ {
		score := at(4+YOLOPersonClass, box)
		if score <= YOLOConfidence {
			continue
		}

		best := true
		for class := 4; class < attributes; class++ {
			if class != 4+YOLOPersonClass && at(class, box) > score {
				best = false
				break
			}
		}
		if !best {
			continue
		}

		// cx, cy, w, h in input pixels
		w, h := at(2, box), at(3, box)
		return dto.DetectionResult{
			Label:      "person",
			ClassID:    YOLOPersonClass,
			Confidence: float64(score),
			X:          float64(at(0, box)-w/2) / YOLOInputSize,
			Y:          float64(at(1, box)-h/2) / YOLOInputSize,
			Width:      float64(w) / YOLOInputSize,
			Height:     float64(h) / YOLOInputSize,
		}, true, nil
	}

	return dto.DetectionResult{}, false, nil
}

// FirstPersonSSD scans SSD detections with rows [batch_id, class_id, confidence, x1, y1, x2, y2].
func FirstPersonSSD(data []float32) (dto.DetectionResult, bool, error) {
	if len(data)%ssdRowSize != 0 {
		return dto.DetectionResult{}, false, fmt.Errorf("ssd output has %d values, not a multiple of %d", len(data), ssdRowSize)
	}

	for i := 0; i < len(data); i += ssdRowSize {
		row := data[i : i+ssdRowSize]
		confidence := row[2]
		if confidence <= SSDConfidence || int(row[1]) != SSDPersonClass {
			continue
		}

		return dto.DetectionResult{
			Label:      "person",
			ClassID:    SSDPersonClass,
			Confidence: float64(confidence),
			X:          float64(row[3]),
			Y:          float64(row[4]),
			Width:      float64(row[5] - row[3]),
			Height:     float64(row[6] - row[4]),
		}, true, nil
	}

	return dto.DetectionResult{}, false, nil
}

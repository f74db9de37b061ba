package opencv

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
	"poachwatch/internal/service/ai"
)

// ObjectDetector runs a box detector and reports whether any box is a person.
type ObjectDetector struct {
	net    gocv.Net
	format dto.OutputFormat
	logger *logger.Logger
	mu     sync.Mutex
}

func NewObjectDetector(modelPath, configPath string, format dto.OutputFormat, logger *logger.Logger) (*ObjectDetector, error) {
	if format == "" {
		format = dto.FormatYOLO
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	net, err := readNet(modelPath, configPath)
	if err != nil {
		return nil, err
	}

	return &ObjectDetector{net: net, format: format, logger: logger}, nil
}

func (d *ObjectDetector) Score(frame ai.Frame) (bool, error) {
	mat, release, err := frameMat(frame)
	if err != nil {
		return false, err
	}
	defer release()

	var blob gocv.Mat
	switch d.format {
	case dto.FormatSSD:
		// Parameters that fit the ssd coco net input
		blob = gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(ai.SSDInputSize, ai.SSDInputSize), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	default:
		blob = gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(ai.YOLOInputSize, ai.YOLOInputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	}
	defer blob.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return false, fmt.Errorf("failed to read detector output: %w", err)
	}

	var (
		detection dto.DetectionResult
		found     bool
	)
	switch d.format {
	case dto.FormatSSD:
		detection, found, err = ai.FirstPersonSSD(data)
	default:
		sizes := output.Size()
		if len(sizes) != 3 {
			return false, fmt.Errorf("unexpected yolo output dimensions %v", sizes)
		}
		detection, found, err = ai.FirstPersonYOLO(data, sizes[1], sizes[2])
	}
	if err != nil {
		return false, err
	}

	if found && d.logger != nil {
		d.logger.Debug("Detected %s (%.2f) at [%.2f,%.2f,%.2f,%.2f]",
			detection.Label, detection.Confidence, detection.X, detection.Y, detection.Width, detection.Height)
	}
	return found, nil
}

func (d *ObjectDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Package opencv implements the detector variants on top of OpenCV's DNN module.
package opencv

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"poachwatch/internal/service/ai"
)

// readNet loads the network and sets backend/target preferences.
func readNet(modelPath, configPath string) (gocv.Net, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return gocv.Net{}, fmt.Errorf("model file not found: %s", modelPath)
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return gocv.Net{}, fmt.Errorf("config file not found: %s", configPath)
		}
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		net.Close()
		return gocv.Net{}, fmt.Errorf("failed to load network from %s", modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return gocv.Net{}, fmt.Errorf("failed to set preferable backend or target")
	}

	return net, nil
}

// frameMat returns the BGR Mat behind a frame. The release func closes
// only what frameMat itself allocated.
func frameMat(frame ai.Frame) (gocv.Mat, func(), error) {
	switch f := frame.(type) {
	case *MatFrame:
		if f.Mat.Empty() {
			return gocv.Mat{}, nil, fmt.Errorf("frame is empty")
		}
		return f.Mat, func() {}, nil
	case ai.ImageFrame:
		mat, err := toMat(f.Image)
		if err != nil {
			return gocv.Mat{}, nil, err
		}
		return mat, func() { mat.Close() }, nil
	default:
		return gocv.Mat{}, nil, fmt.Errorf("unsupported frame type %T", frame)
	}
}

// toMat converts a decoded image into an 8-bit BGR Mat.
func toMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("converted image is empty")
	}
	return mat, nil
}

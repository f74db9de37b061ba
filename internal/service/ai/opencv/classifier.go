package opencv

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"poachwatch/internal/service/ai"
)

// Classifier runs a binary CNN that outputs the probability of a human being present.
type Classifier struct {
	net gocv.Net
	mu  sync.Mutex
}

func NewClassifier(modelPath string) (*Classifier, error) {
	net, err := readNet(modelPath, "")
	if err != nil {
		return nil, err
	}
	return &Classifier{net: net}, nil
}

// Score resizes the image to the training resolution, scales pixels into
// [0,1] and compares the predicted probability with the fixed threshold.
func (c *Classifier) Score(frame ai.Frame) (bool, error) {
	mat, release, err := frameMat(frame)
	if err != nil {
		return false, err
	}
	defer release()

	blob := classifierBlob(mat)
	defer blob.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.net.SetInput(blob, "")
	output := c.net.Forward("")
	defer output.Close()

	if output.Total() < 1 {
		return false, fmt.Errorf("classifier returned an empty output")
	}

	return ai.ProbabilityDetected(output.GetFloatAt(0, 0)), nil
}

// classifierBlob keeps the BGR order the classifier sees at training time.
func classifierBlob(mat gocv.Mat) gocv.Mat {
	size := image.Pt(ai.ClassifierInputSize, ai.ClassifierInputSize)
	return gocv.BlobFromImage(mat, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), false, false)
}

func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.Close()
}

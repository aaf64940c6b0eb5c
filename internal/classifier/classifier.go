package classifier

import (
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Prediction is the outcome of running one image through the model.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

// Classifier wraps an onnxruntime session around the downloaded model
// artifact. It is created once at startup and held for the process lifetime.
type Classifier struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	labels       []string
	imageSize    int

	// The session reuses a single input/output tensor pair, so inference
	// runs are serialized.
	mu sync.Mutex
}

// New loads the model at modelPath into an inference session. The output
// tensor is sized to len(labels); imageSize is the square input edge length.
func New(modelPath string, labels []string, imageSize int) (*Classifier, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("classifier requires at least one label")
	}
	if imageSize <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %d", imageSize)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime environment: %w", err)
	}

	inputShape := ort.NewShape(1, 3, int64(imageSize), int64(imageSize))
	outputShape := ort.NewShape(1, int64(len(labels)))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to load model %s: %w", modelPath, translateLoadError(err))
	}

	return &Classifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		labels:       labels,
		imageSize:    imageSize,
	}, nil
}

// Labels returns the class set the classifier resolves predictions against.
func (c *Classifier) Labels() []string {
	return c.labels
}

// Predict runs a single image through the model and returns the top class.
func (c *Classifier) Predict(img image.Image) (Prediction, error) {
	inputData := preprocess(img, c.imageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), inputData)

	if err := c.session.Run(); err != nil {
		return Prediction{}, fmt.Errorf("inference failed: %w", err)
	}

	outputData := c.outputTensor.GetData()

	maxIdx := 0
	maxVal := outputData[0]
	for i, val := range outputData {
		if i >= len(c.labels) {
			break
		}
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}

	return Prediction{
		Label:      c.labels[maxIdx],
		Confidence: maxVal,
	}, nil
}

// Close releases the session and tensors. The classifier is unusable after.
func (c *Classifier) Close() {
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
	ort.DestroyEnvironment()
}

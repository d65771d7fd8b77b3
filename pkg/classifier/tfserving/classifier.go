package tfserving

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"

	"derma-triage-be/pkg/classifier"
)

const defaultInputSize = 224

// Classifier runs inference against a TensorFlow Serving REST endpoint
// hosting the skin-lesion CNN. Preprocessing happens in-process so the
// serving side only ever sees a fixed-shape tensor.
type Classifier struct {
	baseURL   string
	modelName string
	inputSize int
	client    *http.Client
}

var _ classifier.ImageClassifier = &Classifier{}

func NewClassifier(baseURL, modelName string, inputSize int) *Classifier {
	if inputSize <= 0 {
		inputSize = defaultInputSize
	}
	return &Classifier{
		baseURL:   baseURL,
		modelName: modelName,
		inputSize: inputSize,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float32 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// Ready checks the model status endpoint. Called once at startup; a failure
// here means the orchestrator runs without image analysis.
func (c *Classifier) Ready(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", c.baseURL, c.modelName)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create status request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("model status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model %s not available (status %d): %s", c.modelName, resp.StatusCode, string(body))
	}
	return nil
}

func (c *Classifier) Classify(ctx context.Context, imageBytes []byte) (*classifier.Prediction, error) {
	tensor, err := c.preprocess(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("preprocess image: %w", err)
	}

	reqBody := predictRequest{
		Instances: [][][][]float32{tensor},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, c.modelName)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read predict response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tfserving error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var predictResp predictResponse
	if err := json.Unmarshal(bodyBytes, &predictResp); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if predictResp.Error != "" {
		return nil, fmt.Errorf("tfserving returned error: %s", predictResp.Error)
	}
	if len(predictResp.Predictions) == 0 || len(predictResp.Predictions[0]) == 0 {
		return nil, fmt.Errorf("empty predictions from tfserving")
	}

	probs := predictResp.Predictions[0]
	index := 0
	max := probs[0]
	for i, p := range probs {
		if p > max {
			max = p
			index = i
		}
	}

	return &classifier.Prediction{
		Index:         index,
		Confidence:    float64(max) * 100,
		Probabilities: probs,
	}, nil
}

// preprocess decodes the upload, converts to an RGB raster of the model's
// input size and lays it out as HWC float32. The model was trained on raw
// 0-255 channel values, so no rescaling to [0,1] happens here.
func (c *Classifier) preprocess(imageBytes []byte) ([][][]float32, error) {
	src, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	resized := image.NewRGBA(image.Rect(0, 0, c.inputSize, c.inputSize))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), src, src.Bounds(), draw.Src, nil)

	tensor := make([][][]float32, c.inputSize)
	for y := 0; y < c.inputSize; y++ {
		row := make([][]float32, c.inputSize)
		for x := 0; x < c.inputSize; x++ {
			offset := resized.PixOffset(x, y)
			row[x] = []float32{
				float32(resized.Pix[offset]),
				float32(resized.Pix[offset+1]),
				float32(resized.Pix[offset+2]),
			}
		}
		tensor[y] = row
	}
	return tensor, nil
}

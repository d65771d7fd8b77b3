package classifier

import (
	"context"
)

// Prediction is the raw outcome of a single forward pass. Index is the
// position of the strongest activation in the model's label space;
// Confidence is that activation scaled to 0-100.
type Prediction struct {
	Index         int
	Confidence    float64
	Probabilities []float32
}

// ImageClassifier runs a pre-trained skin-lesion model over uploaded image
// bytes. Implementations must not keep state between calls beyond the loaded
// model itself.
type ImageClassifier interface {
	// Classify decodes and preprocesses the image, runs a single forward
	// pass and returns the top prediction.
	Classify(ctx context.Context, imageBytes []byte) (*Prediction, error)

	// Ready reports whether the model is loaded and reachable.
	Ready(ctx context.Context) error
}

package tfserving

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	var gotReq predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models/skin_lesion:predict" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(predictResponse{
			Predictions: [][]float32{{0.05, 0.1, 0.6, 0.05, 0.1, 0.05, 0.05}},
		})
	}))
	defer srv.Close()

	c := NewClassifier(srv.URL, "skin_lesion", 8)

	pred, err := c.Classify(context.Background(), testImage(t, 32, 16))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if pred.Index != 2 {
		t.Errorf("Index = %d, want 2", pred.Index)
	}
	if pred.Confidence < 59.9 || pred.Confidence > 60.1 {
		t.Errorf("Confidence = %f, want 60", pred.Confidence)
	}
	if len(pred.Probabilities) != 7 {
		t.Errorf("Probabilities length = %d, want 7", len(pred.Probabilities))
	}

	// Tensor shape must match the configured input size, HWC layout
	if len(gotReq.Instances) != 1 {
		t.Fatalf("Instances = %d, want 1", len(gotReq.Instances))
	}
	tensor := gotReq.Instances[0]
	if len(tensor) != 8 || len(tensor[0]) != 8 || len(tensor[0][0]) != 3 {
		t.Errorf("tensor shape = %dx%dx%d, want 8x8x3", len(tensor), len(tensor[0]), len(tensor[0][0]))
	}

	// Channel values stay on the raw 0-255 scale
	px := tensor[4][4]
	if px[0] < 1 || px[0] > 255 {
		t.Errorf("unexpected red channel value %f", px[0])
	}
}

func TestClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model not loaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClassifier(srv.URL, "skin_lesion", 8)

	if _, err := c.Classify(context.Background(), testImage(t, 8, 8)); err == nil {
		t.Fatal("expected error from failing server")
	}
}

func TestClassifyInvalidImage(t *testing.T) {
	c := NewClassifier("http://localhost:0", "skin_lesion", 8)

	if _, err := c.Classify(context.Background(), []byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models/skin_lesion" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClassifier(srv.URL, "skin_lesion", 0)
	if err := c.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}
}

func TestReadyModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClassifier(srv.URL, "skin_lesion", 0)
	if err := c.Ready(context.Background()); err == nil {
		t.Fatal("expected error for missing model")
	}
}

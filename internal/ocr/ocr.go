// Package ocr reads text out of receipt images.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// TextRecognizer extracts the text content of an image. Implementations
// are black boxes to the pipeline: bytes in, text out, or an error.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, imageBytes []byte) (string, error)
}

// GoogleOCR recognizes text with the Google Cloud Vision API.
type GoogleOCR struct {
	svc *vision.Service
}

// NewGoogleOCR creates a recognizer. Credentials come from Application
// Default Credentials unless overridden via opts.
func NewGoogleOCR(ctx context.Context, opts ...option.ClientOption) (*GoogleOCR, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGoogleOCR: create vision service: %w", err)
	}
	return &GoogleOCR{svc: svc}, nil
}

// RecognizeText runs TEXT_DETECTION over the image and returns the full
// detected text. API errors are surfaced verbatim.
func (o *GoogleOCR) RecognizeText(ctx context.Context, imageBytes []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(imageBytes)},
				Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}

	resp, err := o.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("RecognizeText: annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", fmt.Errorf("RecognizeText: empty annotate response")
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("RecognizeText: vision API: %s", r.Error.Message)
	}
	if r.FullTextAnnotation == nil {
		// Nothing readable in the image; the pipeline will decide what
		// to do with empty text.
		return "", nil
	}
	return r.FullTextAnnotation.Text, nil
}

var _ TextRecognizer = (*GoogleOCR)(nil)

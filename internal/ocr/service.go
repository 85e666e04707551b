// Package ocr extracts text from images using the Google Cloud Vision API.
//
// Input images are preprocessed (downscaled and re-encoded as JPEG)
// before submission to bound payload size and normalize what the backend
// sees. Preprocessing failures fail the whole operation before any
// network call is made.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// The TEXT_DETECTION response shape consumed here does not carry a
// calibrated per-call confidence, so successful extractions report a
// fixed nominal confidence instead of a computed statistic.
package ocr

import (
	"context"
	"time"
)

const (
	// MaxImageSizeBytes is the largest image accepted for processing (10MB).
	MaxImageSizeBytes = 10 * 1024 * 1024

	// MaxImageWidth is the width images are downscaled to before
	// submission. Narrower images are submitted at their original size.
	MaxImageWidth = 1000

	// JPEGQuality is the re-encoding quality used by preprocessing.
	JPEGQuality = 80

	// NominalConfidence is reported for successful extractions.
	NominalConfidence = 0.9
)

// Service defines the interface for OCR text extraction.
type Service interface {
	// Recognize extracts text from an image. When targetLanguage is
	// non-empty and text was found, a best-effort translation is chained
	// into the result; the chain never fails the overall call.
	Recognize(ctx context.Context, imageData []byte, targetLanguage string) (*Result, error)
}

// Result contains the outcome of an OCR call.
type Result struct {
	// Text is the extracted text, trimmed. Empty when the backend found
	// no text, which is a valid non-error outcome.
	Text string `json:"text"`

	// Confidence is a normalized score in [0,1]. Zero when no text was
	// found, NominalConfidence otherwise.
	Confidence float64 `json:"confidence"`

	// DetectedLanguage is the source language reported by the chained
	// translation, when one ran.
	DetectedLanguage string `json:"detected_language,omitempty"`

	// TranslatedText is the chained translation's output, when one ran.
	TranslatedText string `json:"translated_text,omitempty"`

	// ProcessedAt is when the OCR call completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR call took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

package models

import "time"

// MethodGoogleVision is the provenance tag for records produced by the
// Google Cloud Vision backend. It is the only method in use.
const MethodGoogleVision = "google-vision"

// Record is a single persisted OCR extraction event together with its
// derived entities and any translations added over its lifetime.
type Record struct {
	// ID uniquely identifies the record within the history collection.
	// Derived from the creation timestamp (milliseconds since epoch).
	ID string `json:"id"`

	// Text is the full extracted text. Immutable after creation.
	Text string `json:"text"`

	// Confidence is a normalized score in [0,1], when available.
	Confidence *float64 `json:"confidence,omitempty"`

	// Timestamp is the creation time. Serialized as RFC 3339.
	Timestamp time.Time `json:"timestamp"`

	// Method identifies the OCR backend that produced the text.
	Method string `json:"method"`

	// DetectedLanguage and OriginalLanguage hold the source-language code
	// reported at creation time, when a chained translation ran.
	DetectedLanguage string `json:"detectedLanguage,omitempty"`
	OriginalLanguage string `json:"originalLanguage,omitempty"`

	// Translations maps language codes to translated text. Grows via
	// explicit add operations and never shrinks.
	Translations map[string]string `json:"translations,omitempty"`

	// Entities derived from Text once, at creation time.
	Links  []string `json:"links,omitempty"`
	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"`
}

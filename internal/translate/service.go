// Package translate provides text translation via the Google Translate
// API (v2 endpoint, API-key auth).
//
// There are two entry points with deliberately different failure
// policies:
//
//   - Translator.Translate is strict: backend failures surface as a
//     *TranslationError so the caller can prompt a retry. This is the
//     path behind user-initiated translation.
//   - BestEffort swallows failures and falls back to the original text
//     with an "unknown" source language. It exists only for the
//     translation chained onto OCR finalization, where a translation
//     hiccup must not discard a successful text extraction.
//
// Keep these as separate entry points; do not fold them into one
// function with a flag.
//
// Translations are never cached here. Repeated identical calls re-hit
// the backend; the history store is the only place translated text is
// retained, per record and language.
package translate

import (
	"context"

	"snaptext/internal/logger"
)

// Result is the outcome of a translation call.
type Result struct {
	// TranslatedText is the text in the target language.
	TranslatedText string `json:"translatedText"`

	// DetectedLanguage is the backend-reported source language code,
	// or "unknown" when the backend omits it.
	DetectedLanguage string `json:"detectedLanguage"`
}

// Translator defines the interface for translation services.
type Translator interface {
	// Translate translates text into the target language code.
	Translate(ctx context.Context, text, targetLanguage string) (*Result, error)
}

// BestEffort translates text, falling back to the original text and an
// "unknown" source language on any failure.
func BestEffort(ctx context.Context, t Translator, text, targetLanguage string) *Result {
	result, err := t.Translate(ctx, text, targetLanguage)
	if err != nil {
		log := logger.WithComponent("translate")
		log.Warn().
			Err(err).
			Str("target", targetLanguage).
			Msg("Translation failed, falling back to original text")
		return &Result{
			TranslatedText:   text,
			DetectedLanguage: "unknown",
		}
	}
	return result
}

// Language pairs a translation target code with a display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedLanguages lists the translation targets offered by the CLI.
var SupportedLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
}

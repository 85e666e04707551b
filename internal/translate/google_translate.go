package translate

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// GoogleTranslator implements Translator using the Google Translate API
// v2 endpoint.
type GoogleTranslator struct {
	service *translatev2.Service
}

// NewGoogleTranslator creates a translator authenticated with the given
// API key. Extra client options (custom endpoint, HTTP client) are
// accepted for testing.
func NewGoogleTranslator(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GoogleTranslator, error) {
	const op = "NewGoogleTranslator"

	if apiKey == "" {
		return nil, WrapTranslationError(op, ErrMissingAPIKey, "")
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := translatev2.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, WrapTranslationError(op, err, "failed to create Translate client")
	}

	return &GoogleTranslator{service: service}, nil
}

// Translate implements Translator. Backend failures surface as a
// *TranslationError wrapping ErrBackend with the HTTP status in the
// details.
func (g *GoogleTranslator) Translate(ctx context.Context, text, targetLanguage string) (*Result, error) {
	const op = "Translate"

	resp, err := g.service.Translations.List([]string{text}, targetLanguage).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, WrapTranslationError(op, ErrBackend,
				fmt.Sprintf("Translate API status %d: %s", apiErr.Code, apiErr.Message))
		}
		return nil, WrapTranslationError(op, ErrBackend, err.Error())
	}

	if len(resp.Translations) == 0 {
		return nil, WrapTranslationError(op, ErrEmptyResponse, "")
	}

	translation := resp.Translations[0]
	detected := translation.DetectedSourceLanguage
	if detected == "" {
		detected = "unknown"
	}

	return &Result{
		TranslatedText:   translation.TranslatedText,
		DetectedLanguage: detected,
	}, nil
}

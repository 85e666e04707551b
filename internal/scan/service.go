// Package scan orchestrates the capture pipeline: OCR, entity
// derivation and history persistence, plus the after-the-fact
// translation flow for stored records.
package scan

import (
	"context"

	"github.com/google/uuid"

	"snaptext/internal/history"
	"snaptext/internal/logger"
	"snaptext/internal/ocr"
	"snaptext/internal/translate"
	"snaptext/pkg/models"
)

// Service wires the OCR client, the translator and the history store.
type Service struct {
	ocr        ocr.Service
	translator translate.Translator
	store      *history.Store
}

// NewService creates a scan service. translator may be nil when no
// translation paths are needed.
func NewService(ocrService ocr.Service, translator translate.Translator, store *history.Store) *Service {
	return &Service{
		ocr:        ocrService,
		translator: translator,
		store:      store,
	}
}

// Scan runs OCR on imageData and, when save is true, appends a history
// record carrying the text, confidence, detected language, derived
// entities and any chained translation. An OCR failure appends nothing.
func (s *Service) Scan(ctx context.Context, imageData []byte, targetLanguage string, save bool) (*ocr.Result, *models.Record, error) {
	opID := uuid.NewString()
	log := logger.WithRequestID(opID)

	log.Debug().
		Int("image_bytes", len(imageData)).
		Str("target", targetLanguage).
		Bool("save", save).
		Msg("Starting scan")

	result, err := s.ocr.Recognize(ctx, imageData, targetLanguage)
	if err != nil {
		log.Error().Err(err).Msg("OCR failed")
		return nil, nil, err
	}

	log.Info().
		Int("text_length", len(result.Text)).
		Float64("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Msg("OCR completed")

	if !save {
		return result, nil, nil
	}

	confidence := result.Confidence
	input := history.AppendInput{
		Text:             result.Text,
		Confidence:       &confidence,
		Method:           models.MethodGoogleVision,
		DetectedLanguage: result.DetectedLanguage,
	}
	if result.TranslatedText != "" && targetLanguage != "" {
		input.TranslatedText = result.TranslatedText
		input.TranslatedLanguage = targetLanguage
	}

	record, err := s.store.Append(ctx, input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save scan to history")
		return result, nil, err
	}

	log.Debug().Str("record_id", record.ID).Msg("Scan saved to history")
	return result, record, nil
}

// Translate is the strict, user-initiated translation path for
// arbitrary text. Backend failures propagate.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (*translate.Result, error) {
	return s.translator.Translate(ctx, text, targetLanguage)
}

// Retranslate translates the text of the stored record with the given
// id and persists the result onto that record's translations map. A
// translation failure propagates and persists nothing; an unknown id
// fails with history.ErrRecordNotFound.
func (s *Service) Retranslate(ctx context.Context, recordID, targetLanguage string) (*translate.Result, error) {
	log := logger.WithRequestID(uuid.NewString())

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var target *models.Record
	for i := range records {
		if records[i].ID == recordID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return nil, history.ErrRecordNotFound
	}

	result, err := s.translator.Translate(ctx, target.Text, targetLanguage)
	if err != nil {
		log.Error().Err(err).Str("record_id", recordID).Msg("Retranslation failed")
		return nil, err
	}

	if err := s.store.AddTranslation(ctx, recordID, targetLanguage, result.TranslatedText); err != nil {
		return nil, err
	}

	log.Info().
		Str("record_id", recordID).
		Str("target", targetLanguage).
		Msg("Translation added to record")
	return result, nil
}

// Package history persists a capped, newest-first collection of OCR
// extraction records in a local key-value store.
//
// The entire collection lives under a single storage key as one JSON
// blob; every operation is a read-modify-write of that blob. The store
// is the sole owner of the key. An in-process mutex serializes mutations
// so that concurrent calls from the same process cannot lose updates;
// there is no cross-process coordination (single local client).
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"snaptext/internal/extract"
	"snaptext/internal/logger"
	"snaptext/pkg/models"
)

// StorageKey is the key the collection is persisted under.
const StorageKey = "ocr_history"

// DefaultLimit is the maximum number of records retained.
const DefaultLimit = 50

// AppendInput carries the caller-supplied fields for a new record.
// ID, Timestamp and the derived entity lists are assigned by the store.
type AppendInput struct {
	Text             string
	Confidence       *float64
	Method           string
	DetectedLanguage string

	// TranslatedText/TranslatedLanguage seed the record's translations
	// map when a chained translation ran at scan time.
	TranslatedText     string
	TranslatedLanguage string
}

// Store persists history records through an injected KV.
type Store struct {
	kv    KV
	limit int

	mu  sync.Mutex
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLimit overrides the retained-record cap.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a history store over the given KV.
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		limit: DefaultLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append derives entities from input.Text, assigns a fresh id and
// timestamp, prepends the record, truncates the collection to the cap
// and persists it. Returns the created record.
//
// Ids are the creation time in milliseconds; two appends within the same
// millisecond would collide, which the single-writer assumption makes
// acceptable.
func (s *Store) Append(ctx context.Context, input AppendInput) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	method := input.Method
	if method == "" {
		method = models.MethodGoogleVision
	}

	createdAt := s.now()
	record := models.Record{
		ID:               strconv.FormatInt(createdAt.UnixMilli(), 10),
		Text:             input.Text,
		Confidence:       input.Confidence,
		Timestamp:        createdAt,
		Method:           method,
		DetectedLanguage: input.DetectedLanguage,
		OriginalLanguage: input.DetectedLanguage,
		Links:            extract.Links(input.Text),
		Emails:           extract.Emails(input.Text),
		Phones:           extract.Phones(input.Text),
	}
	if input.TranslatedText != "" && input.TranslatedLanguage != "" {
		record.Translations = map[string]string{
			input.TranslatedLanguage: input.TranslatedText,
		}
	}

	existing := s.load(ctx)
	updated := make([]models.Record, 0, len(existing)+1)
	updated = append(updated, record)
	updated = append(updated, existing...)
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all records newest-first. An absent key or a corrupt blob
// yields an empty slice, never an error: a broken history file must not
// take the rest of the tool down with it.
func (s *Store) List(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

// Remove deletes the record with the given id. An absent id is a no-op,
// not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	updated := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			updated = append(updated, r)
		}
	}
	return s.persist(ctx, updated)
}

// Clear deletes the entire persisted collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, StorageKey)
}

// AddTranslation sets translations[languageCode] on the record with the
// given id and persists the collection. Only that one key of that one
// record changes. Returns ErrRecordNotFound, leaving the collection
// untouched, when the id is absent.
func (s *Store) AddTranslation(ctx context.Context, id, languageCode, translatedText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	found := false
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if records[i].Translations == nil {
			records[i].Translations = make(map[string]string)
		}
		records[i].Translations[languageCode] = translatedText
		found = true
		break
	}
	if !found {
		return ErrRecordNotFound
	}
	return s.persist(ctx, records)
}

// load reads and deserializes the collection, soft-failing to empty.
// Callers must hold s.mu.
func (s *Store) load(ctx context.Context) []models.Record {
	log := logger.WithComponent("history")

	data, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read history, treating as empty")
		return nil
	}
	if !ok {
		return nil
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn().Err(err).Msg("Failed to decode history, treating as empty")
		return nil
	}
	return records
}

// persist serializes and writes the collection. Callers must hold s.mu.
func (s *Store) persist(ctx context.Context, records []models.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}
	return nil
}

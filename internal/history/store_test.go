package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptext/pkg/models"
)

// stepClock returns a clock that advances 1ms per call so every append
// gets a distinct timestamp-derived id.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))}, opts...)
	return NewStore(NewMemoryKV(), opts...)
}

func TestAppendAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	confidence := 0.9
	created, err := store.Append(ctx, AppendInput{
		Text:       "Email me at alice@example.com or visit example.com, tel 555-867-5309",
		Confidence: &confidence,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.MethodGoogleVision, created.Method)

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Text, got.Text)
	require.NotNil(t, got.Confidence)
	assert.Equal(t, 0.9, *got.Confidence)
	// The email's domain and the bare "example.com" normalize to the same
	// link, so dedup leaves a single entry.
	assert.Equal(t, []string{"https://example.com"}, got.Links)
	assert.Equal(t, []string{"alice@example.com"}, got.Emails)
	assert.Equal(t, []string{"555-867-5309"}, got.Phones)
	assert.True(t, created.Timestamp.Equal(got.Timestamp), "timestamp survives serialization")
}

func TestAppendNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, AppendInput{Text: fmt.Sprintf("scan %d", i)})
		require.NoError(t, err)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "scan 2", records[0].Text)
	assert.Equal(t, "scan 0", records[2].Text)
}

func TestAppendEnforcesCap(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var ids []string
	for i := 0; i < DefaultLimit+1; i++ {
		record, err := store.Append(ctx, AppendInput{Text: fmt.Sprintf("scan %d", i)})
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, DefaultLimit)

	// The oldest append is gone; the 50 most recent remain, newest first.
	assert.Equal(t, ids[len(ids)-1], records[0].ID)
	assert.Equal(t, ids[1], records[len(records)-1].ID)
	for _, r := range records {
		assert.NotEqual(t, ids[0], r.ID)
	}
}

func TestAppendCustomLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, WithLimit(3))

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, AppendInput{Text: fmt.Sprintf("scan %d", i)})
		require.NoError(t, err)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "scan 4", records[0].Text)
}

func TestAppendSeedsTranslations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Append(ctx, AppendInput{
		Text:               "Hola mundo",
		DetectedLanguage:   "es",
		TranslatedText:     "Hello world",
		TranslatedLanguage: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"en": "Hello world"}, created.Translations)
	assert.Equal(t, "es", created.DetectedLanguage)
	assert.Equal(t, "es", created.OriginalLanguage)
}

func TestAddTranslationMerges(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Append(ctx, AppendInput{Text: "Hello"})
	require.NoError(t, err)

	require.NoError(t, store.AddTranslation(ctx, created.ID, "es", "Hola"))
	require.NoError(t, store.AddTranslation(ctx, created.ID, "fr", "Bonjour"))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]string{"es": "Hola", "fr": "Bonjour"}, records[0].Translations)
}

func TestAddTranslationOverwritesSingleKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Append(ctx, AppendInput{Text: "Hello"})
	require.NoError(t, err)

	require.NoError(t, store.AddTranslation(ctx, created.ID, "es", "Hola"))
	require.NoError(t, store.AddTranslation(ctx, created.ID, "es", "Buenas"))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"es": "Buenas"}, records[0].Translations)
}

func TestAddTranslationUnknownID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Append(ctx, AppendInput{Text: "Hello"})
	require.NoError(t, err)

	err = store.AddTranslation(ctx, "does-not-exist", "es", "Hola")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// Collection unchanged.
	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, created.ID, records[0].ID)
	assert.Empty(t, records[0].Translations)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Append(ctx, AppendInput{Text: "keep"})
	require.NoError(t, err)
	second, err := store.Append(ctx, AppendInput{Text: "drop"})
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, second.ID))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first.ID, records[0].ID)
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Append(ctx, AppendInput{Text: "keep"})
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "does-not-exist"))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Append(ctx, AppendInput{Text: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListCorruptBlobSoftFails(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, StorageKey, []byte("{not json")))

	store := NewStore(kv)
	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// The mutex serializes read-modify-write cycles within the process, so
// concurrent appends cannot lose each other's records (up to the cap).
func TestConcurrentAppendsLoseNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Append(ctx, AppendInput{Text: fmt.Sprintf("scan %d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, n)
}

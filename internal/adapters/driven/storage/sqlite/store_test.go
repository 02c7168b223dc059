package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "courtfetch-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// withClock pins the store clock, advancing one second per call.
func withClock(s *Store, start time.Time) {
	var mu sync.Mutex
	next := start.UTC()
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func testIdentifier(number string) domain.CaseIdentifier {
	return domain.CaseIdentifier{CaseNumber: number, CaseType: "WP(C)", FilingYear: 2023}
}

func testCase(number string, orders ...domain.Order) *domain.Case {
	return &domain.Case{
		CaseIdentifier: testIdentifier(number),
		Petitioner:     "Petitioner " + number,
		Respondent:     "Respondent " + number,
		Status:         "Pending",
		NextDate:       "2024-02-15",
		Orders:         orders,
	}
}

// ==================== Store Creation Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, DatabaseFile, filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	require.NoError(t, err)
	require.NoError(t, store.Ping(context.Background()))
}

func TestNewStore_RecordsMigrationVersion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	c := testCase("ABC123")
	require.NoError(t, store.SaveCase(ctx, c))
	require.NoError(t, store.Close())

	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Petitioner ABC123", got.Petitioner)

	version, err := reopened.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
}

// ==================== Search Tests ====================

func TestStore_RecordSearch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.RecordSearch(ctx, testIdentifier("ABC1"))
	require.NoError(t, err)
	second, err := store.RecordSearch(ctx, testIdentifier("ABC2"))
	require.NoError(t, err)

	assert.Positive(t, first)
	assert.Greater(t, second, first)
}

func TestStore_MarkSearchFailed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.RecordSearch(ctx, testIdentifier("ABC1"))
	require.NoError(t, err)
	require.NoError(t, store.MarkSearchFailed(ctx, id, "portal unreachable"))

	records, err := store.RecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "portal unreachable", records[0].ErrorMessage)
	assert.True(t, records[0].Failed())
}

func TestStore_MarkSearchFailed_Unknown(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.MarkSearchFailed(context.Background(), 999, "boom")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RecentSearches_NewestFirstWithLimit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	withClock(store, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, n := range []string{"A11", "B22", "C33"} {
		_, err := store.RecordSearch(ctx, testIdentifier(n))
		require.NoError(t, err)
	}

	records, err := store.RecentSearches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "C33", records[0].CaseNumber)
	assert.Equal(t, "B22", records[1].CaseNumber)
	assert.Equal(t, 2023, records[0].FilingYear)
	assert.False(t, records[0].SearchedAt.IsZero())
}

func TestStore_RecentSearches_JoinsCase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.RecordSearch(ctx, testIdentifier("ABC1"))
	require.NoError(t, err)
	saved := testCase("ABC1")
	require.NoError(t, store.SaveCase(ctx, saved))
	_, err = store.RecordSearch(ctx, testIdentifier("XYZ9"))
	require.NoError(t, err)

	records, err := store.RecentSearches(ctx, 20)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byNumber := map[string]domain.SearchRecord{}
	for _, r := range records {
		byNumber[r.CaseNumber] = r
	}
	assert.Equal(t, "Petitioner ABC1", byNumber["ABC1"].Petitioner)
	assert.Equal(t, "Pending", byNumber["ABC1"].Status)
	assert.Equal(t, saved.ID, byNumber["ABC1"].CaseID)
	assert.Empty(t, byNumber["XYZ9"].Petitioner)
	assert.Zero(t, byNumber["XYZ9"].CaseID)
}

func TestStore_RecentSearches_DefaultLimit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := store.RecordSearch(ctx, testIdentifier("ABC1"))
		require.NoError(t, err)
	}

	records, err := store.RecentSearches(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

// ==================== Case Tests ====================

func TestStore_SaveCase_AssignsIDs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	c := testCase("ABC1",
		domain.Order{OrderDate: "2024-01-15", OrderText: "Order dated 2024-01-15"},
		domain.Order{OrderDate: "2024-01-20", OrderText: "Order dated 2024-01-20"},
	)
	require.NoError(t, store.SaveCase(context.Background(), c))

	assert.Positive(t, c.ID)
	assert.False(t, c.SearchedAt.IsZero())
	for _, o := range c.Orders {
		assert.Positive(t, o.ID)
		assert.Equal(t, c.ID, o.CaseID)
	}
}

func TestStore_SaveCase_Nil(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.ErrorIs(t, store.SaveCase(context.Background(), nil), domain.ErrInvalidInput)
}

func TestStore_GetCase_OrdersNewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	c := testCase("ABC1",
		domain.Order{OrderDate: "2024-01-15", OrderText: "first", PDFURL: "https://delhihighcourt.nic.in/a.pdf"},
		domain.Order{OrderDate: "2024-03-01", OrderText: "latest", PDFFilename: "x.pdf", PDFText: "text"},
	)
	require.NoError(t, store.SaveCase(ctx, c))

	got, err := store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.CaseIdentifier, got.CaseIdentifier)
	assert.Equal(t, "2024-02-15", got.NextDate)
	require.Len(t, got.Orders, 2)
	assert.Equal(t, "latest", got.Orders[0].OrderText)
	assert.Equal(t, "x.pdf", got.Orders[0].PDFFilename)
	assert.Equal(t, "text", got.Orders[0].PDFText)
	assert.Equal(t, "https://delhihighcourt.nic.in/a.pdf", got.Orders[1].PDFURL)
	assert.False(t, got.Orders[1].HasDocument())
}

func TestStore_GetCase_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.GetCase(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestStore_ListCases_NewestFirstWithoutOrders(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	withClock(store, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, store.SaveCase(ctx, testCase("OLD1", domain.Order{OrderText: "x"})))
	require.NoError(t, store.SaveCase(ctx, testCase("NEW2")))

	cases, err := store.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "NEW2", cases[0].CaseNumber)
	assert.Equal(t, "OLD1", cases[1].CaseNumber)
	assert.Empty(t, cases[1].Orders)
}

func TestStore_ListCases_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	cases, err := store.ListCases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestStore_Reset(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.RecordSearch(ctx, testIdentifier("ABC1"))
	require.NoError(t, err)
	require.NoError(t, store.SaveCase(ctx, testCase("ABC1", domain.Order{OrderText: "x"})))

	require.NoError(t, store.Reset(ctx))

	cases, err := store.ListCases(ctx)
	require.NoError(t, err)
	assert.Empty(t, cases)
	records, err := store.RecentSearches(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.SaveCase(ctx, testCase("ABC1", domain.Order{OrderText: "x"})))
		}()
	}
	wg.Wait()

	cases, err := store.ListCases(ctx)
	require.NoError(t, err)
	assert.Len(t, cases, 8)
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

func newTestCaseStore() *CaseStore {
	store := NewCaseStore()
	var mu sync.Mutex
	next := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
	return store
}

func identifier(number string) domain.CaseIdentifier {
	return domain.CaseIdentifier{CaseNumber: number, CaseType: "CRL.A.", FilingYear: 2022}
}

func TestNewCaseStore(t *testing.T) {
	store := NewCaseStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.cases)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestCaseStore_RecordAndFailSearch(t *testing.T) {
	store := newTestCaseStore()
	ctx := context.Background()

	id, err := store.RecordSearch(ctx, identifier("A12"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, store.MarkSearchFailed(ctx, id, "timeout"))
	assert.ErrorIs(t, store.MarkSearchFailed(ctx, 7, "x"), domain.ErrNotFound)

	records, err := store.RecentSearches(ctx, 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "timeout", records[0].ErrorMessage)
}

func TestCaseStore_SaveCase_AssignsIDs(t *testing.T) {
	store := newTestCaseStore()

	c := &domain.Case{
		CaseIdentifier: identifier("A12"),
		Orders:         []domain.Order{{OrderDate: "2024-01-01"}, {OrderDate: "2024-02-01"}},
	}
	require.NoError(t, store.SaveCase(context.Background(), c))

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, int64(1), c.Orders[0].ID)
	assert.Equal(t, int64(2), c.Orders[1].ID)
	assert.Equal(t, c.ID, c.Orders[1].CaseID)
	assert.False(t, c.SearchedAt.IsZero())
}

func TestCaseStore_SaveCase_Nil(t *testing.T) {
	assert.ErrorIs(t, NewCaseStore().SaveCase(context.Background(), nil), domain.ErrInvalidInput)
}

func TestCaseStore_GetCase_ReturnsCopyNewestOrderFirst(t *testing.T) {
	store := newTestCaseStore()
	ctx := context.Background()

	c := &domain.Case{
		CaseIdentifier: identifier("A12"),
		Orders:         []domain.Order{{OrderDate: "2024-01-01", OrderText: "old"}, {OrderDate: "2024-02-01", OrderText: "new"}},
	}
	require.NoError(t, store.SaveCase(ctx, c))

	got, err := store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Orders, 2)
	assert.Equal(t, "new", got.Orders[0].OrderText)

	got.Orders[0].OrderText = "mutated"
	again, err := store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", again.Orders[0].OrderText)
}

func TestCaseStore_GetCase_NotFound(t *testing.T) {
	_, err := NewCaseStore().GetCase(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCaseStore_ListCases(t *testing.T) {
	store := newTestCaseStore()
	ctx := context.Background()

	require.NoError(t, store.SaveCase(ctx, &domain.Case{CaseIdentifier: identifier("OLD1"), Orders: []domain.Order{{}}}))
	require.NoError(t, store.SaveCase(ctx, &domain.Case{CaseIdentifier: identifier("NEW2")}))

	cases, err := store.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "NEW2", cases[0].CaseNumber)
	assert.Nil(t, cases[1].Orders)
}

func TestCaseStore_RecentSearches_JoinsLatestCase(t *testing.T) {
	store := newTestCaseStore()
	ctx := context.Background()

	_, err := store.RecordSearch(ctx, identifier("A12"))
	require.NoError(t, err)
	require.NoError(t, store.SaveCase(ctx, &domain.Case{CaseIdentifier: identifier("A12"), Status: "Pending"}))
	require.NoError(t, store.SaveCase(ctx, &domain.Case{CaseIdentifier: identifier("A12"), Status: "Disposed"}))
	_, err = store.RecordSearch(ctx, identifier("B34"))
	require.NoError(t, err)

	records, err := store.RecentSearches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "B34", records[0].CaseNumber)
	assert.Empty(t, records[0].Status)
	assert.Equal(t, "Disposed", records[1].Status)
}

func TestCaseStore_RecentSearches_Limit(t *testing.T) {
	store := newTestCaseStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := store.RecordSearch(ctx, identifier("A12"))
		require.NoError(t, err)
	}

	records, err := store.RecentSearches(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(5), records[0].ID)
}

func TestCaseStore_Reset(t *testing.T) {
	store := newTestCaseStore()
	ctx := context.Background()
	_, err := store.RecordSearch(ctx, identifier("A12"))
	require.NoError(t, err)
	require.NoError(t, store.SaveCase(ctx, &domain.Case{CaseIdentifier: identifier("A12")}))

	require.NoError(t, store.Reset(ctx))

	cases, _ := store.ListCases(ctx)
	records, _ := store.RecentSearches(ctx, 10)
	assert.Empty(t, cases)
	assert.Empty(t, records)
}

func TestCaseStore_ConcurrentAccess(t *testing.T) {
	store := NewCaseStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SaveCase(ctx, &domain.Case{CaseIdentifier: identifier("A12")})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.RecentSearches(ctx, 5)
		}()
	}
	wg.Wait()

	cases, err := store.ListCases(ctx)
	require.NoError(t, err)
	assert.Len(t, cases, 20)
}

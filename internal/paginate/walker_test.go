package paginate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/backoff"
	"github.com/vkozyrev/teamscout/internal/politeness"
)

func testWalker(t *testing.T, emptyStop int) *Walker {
	t.Helper()
	gov, err := politeness.New(0, 0, []string{"test-agent"})
	require.NoError(t, err)
	return New(backoff.New(time.Millisecond, zap.NewNop()), gov, 3, emptyStop, zap.NewNop())
}

// fakePages serves canned item counts per page number; pages beyond the
// slice are empty.
func fakePages(counts []int, visited *[]int) (Fetch, func([]byte) ([]string, error)) {
	fetch := func(_ context.Context, url string) ([]byte, error) {
		return []byte(url), nil
	}
	extract := func(html []byte) ([]string, error) {
		var page int
		_, err := fmt.Sscanf(string(html), "page-%d", &page)
		if err != nil {
			return nil, err
		}
		if visited != nil {
			*visited = append(*visited, page)
		}
		if page > len(counts) {
			return nil, nil
		}
		items := make([]string, counts[page-1])
		for i := range items {
			items[i] = strconv.Itoa(page) + "-" + strconv.Itoa(i)
		}
		return items, nil
	}
	return fetch, extract
}

func TestWalkStopsAfterThreeEmptyPages(t *testing.T) {
	t.Parallel()
	w := testWalker(t, 3)

	var visited []int
	// Pages: 3 items, 2 items, 0, 0, 0, then a page with 5 items that must
	// never be reached.
	fetch, extract := fakePages([]int{3, 2, 0, 0, 0, 5}, &visited)

	items, err := Walk(context.Background(), w, "page-%d", fetch, extract)
	require.NoError(t, err)
	require.Len(t, items, 5)
	require.Equal(t, []int{1, 2, 3, 4, 5}, visited, "walk must stop at page 5")
}

func TestWalkResetsEmptyStreak(t *testing.T) {
	t.Parallel()
	w := testWalker(t, 3)

	var visited []int
	fetch, extract := fakePages([]int{1, 0, 0, 2, 0, 0, 0}, &visited)

	items, err := Walk(context.Background(), w, "page-%d", fetch, extract)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, visited)
}

func TestWalkRetriesThenAborts(t *testing.T) {
	t.Parallel()
	w := testWalker(t, 3)

	fetches := 0
	boom := errors.New("navigation failed")
	fetch := func(context.Context, string) ([]byte, error) {
		fetches++
		return nil, boom
	}
	extract := func([]byte) ([]string, error) { return nil, nil }

	_, err := Walk(context.Background(), w, "page-%d", fetch, extract)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, fetches, "fetch is retried before the walk aborts")
}

func TestWalkPropagatesExtractionFailure(t *testing.T) {
	t.Parallel()
	w := testWalker(t, 3)

	bad := errors.New("malformed page")
	fetch := func(context.Context, string) ([]byte, error) { return []byte("x"), nil }
	extract := func([]byte) ([]string, error) { return nil, bad }

	_, err := Walk(context.Background(), w, "page-%d", fetch, extract)
	require.ErrorIs(t, err, bad)
}

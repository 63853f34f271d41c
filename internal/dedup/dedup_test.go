package dedup

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAndRecord(t *testing.T) {
	idx := NewIndex()

	assert.Equal(t, Accepted, idx.CheckAndRecord("wa:voters_wa_x", "100001"))
	assert.Equal(t, Duplicate, idx.CheckAndRecord("wa:voters_wa_x", "100001"))
	assert.Equal(t, Accepted, idx.CheckAndRecord("wa:voters_wa_x", "100002"))
	assert.Equal(t, 2, idx.Len("wa:voters_wa_x"))
}

func TestScopesAreIndependent(t *testing.T) {
	idx := NewIndex()

	assert.Equal(t, Accepted, idx.CheckAndRecord("wa:voters_wa_x", "100001"))
	assert.Equal(t, Accepted, idx.CheckAndRecord("or:voters_or_x", "100001"),
		"the same voter id in a different scope is not a duplicate")
}

func TestSeed(t *testing.T) {
	idx := NewIndex()
	idx.Seed("wa:voters_wa_x", map[string]struct{}{
		"100001": {},
		"100002": {},
	})

	assert.Equal(t, Duplicate, idx.CheckAndRecord("wa:voters_wa_x", "100001"))
	assert.Equal(t, Accepted, idx.CheckAndRecord("wa:voters_wa_x", "100003"))
	assert.Equal(t, 3, idx.Len("wa:voters_wa_x"))
}

func TestConcurrentSingleAcceptance(t *testing.T) {
	idx := NewIndex()

	const workers = 16
	results := make([]Status, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = idx.CheckAndRecord("wa:t", "100001")
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, r := range results {
		if r == Accepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted, "exactly one concurrent insert may win")
}

func TestConcurrentDistinctIDs(t *testing.T) {
	idx := NewIndex()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx.CheckAndRecord("wa:t", fmt.Sprintf("id-%03d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, idx.Len("wa:t"))
}

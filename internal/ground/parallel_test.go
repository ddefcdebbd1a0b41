package ground

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/pattern"
)

func TestParallelGroundProcessesEveryDocument(t *testing.T) {
	m := brca1Fixture()

	const n = 8
	items := make(chan WorkItem, n)
	for i := range n {
		items <- WorkItem{
			Seq:   i,
			DocID: fmt.Sprintf("doc%d", i),
			Text:  "The R71G mutation.",
			Genes: []int{672},
		}
	}
	close(items)

	// built outside the worker goroutines; require must not fire in them
	patterns := pattern.Compile(pattern.DefaultRows, nil)
	require.NotEmpty(t, patterns)
	results := ParallelGround(items, 3, func() *Pipeline {
		return &Pipeline{
			Extractor: extract.New(patterns, m),
			Grounder:  New(m, m, m, m),
		}
	})

	var seqs []int
	err := OrderedCollect(results, func(r WorkResult) error {
		seqs = append(seqs, r.Seq)
		assert.Equal(t, fmt.Sprintf("doc%d", r.Seq), r.DocID)
		require.Len(t, r.Out.Grounded, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, seqs, "results come back in input order")
}

func TestOrderedCollectBuffersOutOfOrder(t *testing.T) {
	results := make(chan WorkResult, 3)
	results <- WorkResult{Seq: 2, DocID: "c"}
	results <- WorkResult{Seq: 0, DocID: "a"}
	results <- WorkResult{Seq: 1, DocID: "b"}
	close(results)

	var docs []string
	err := OrderedCollect(results, func(r WorkResult) error {
		docs = append(docs, r.DocID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, docs)
}

func TestOrderedCollectStopsOnError(t *testing.T) {
	results := make(chan WorkResult, 2)
	results <- WorkResult{Seq: 0}
	results <- WorkResult{Seq: 1}
	close(results)

	calls := 0
	boom := errors.New("sink failed")
	err := OrderedCollect(results, func(WorkResult) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

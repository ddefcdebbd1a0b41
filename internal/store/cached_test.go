package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// countingSeqStore counts backend hits so read-through behavior is visible.
type countingSeqStore struct {
	inner *Memory
	calls int
}

func (c *countingSeqStore) GetSeq(accession string) (string, bool) {
	c.calls++
	return c.inner.GetSeq(accession)
}

func (c *countingSeqStore) GetCDSStart(accession string) (int, bool) {
	c.calls++
	return c.inner.GetCDSStart(accession)
}

func (c *countingSeqStore) RefSeqForProtein(protAccession string) (string, bool) {
	c.calls++
	return c.inner.RefSeqForProtein(protAccession)
}

func newCountingStore() *countingSeqStore {
	m := NewMemory()
	m.Seqs["NM_1.1"] = "ACGT"
	m.CDSStarts["NM_1.1"] = 2
	m.ProtToSeq["NP_1.1"] = "NM_1.1"
	return &countingSeqStore{inner: m}
}

func TestCachedSequencesReadThrough(t *testing.T) {
	backend := newCountingStore()
	c := NewCachedSequences(backend, time.Minute)

	for range 3 {
		seq, ok := c.GetSeq("NM_1.1")
		assert.True(t, ok)
		assert.Equal(t, "ACGT", seq)
	}
	assert.Equal(t, 1, backend.calls, "repeat lookups stay in the cache")

	n, ok := c.GetCDSStart("NM_1.1")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	c.GetCDSStart("NM_1.1")
	assert.Equal(t, 2, backend.calls)

	ref, ok := c.RefSeqForProtein("NP_1.1")
	assert.True(t, ok)
	assert.Equal(t, "NM_1.1", ref)
}

func TestCachedSequencesCachesMisses(t *testing.T) {
	backend := newCountingStore()
	c := NewCachedSequences(backend, time.Minute)

	for range 3 {
		_, ok := c.GetSeq("NM_404.1")
		assert.False(t, ok)
	}
	assert.Equal(t, 1, backend.calls, "negative results are cached too")
}

func TestCachedSequencesFlush(t *testing.T) {
	backend := newCountingStore()
	c := NewCachedSequences(backend, time.Minute)

	c.GetSeq("NM_1.1")
	c.Flush()
	c.GetSeq("NM_1.1")
	assert.Equal(t, 2, backend.calls)
}

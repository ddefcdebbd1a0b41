package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varmine/varmine/internal/psl"
)

func TestMemorySequences(t *testing.T) {
	m := NewMemory()
	m.Seqs["NM_1.1"] = "ACGT"
	m.CDSStarts["NM_1.1"] = 2
	m.ProtToSeq["NP_1.1"] = "NM_1.1"

	seq, ok := m.GetSeq("NM_1.1")
	assert.True(t, ok)
	assert.Equal(t, "ACGT", seq)
	_, ok = m.GetSeq("NM_2.1")
	assert.False(t, ok)

	n, ok := m.GetCDSStart("NM_1.1")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	ref, ok := m.RefSeqForProtein("NP_1.1")
	assert.True(t, ok)
	assert.Equal(t, "NM_1.1", ref)
	_, ok = m.RefSeqForProtein("NP_9.9")
	assert.False(t, ok)
}

func TestMemoryAlignmentsStripVersion(t *testing.T) {
	m := NewMemory()
	p := &psl.PSL{QName: "NM_1.1", TName: "chr1"}
	m.AddAlignment("NM_1.1", p)

	got, err := m.GetAlignments("NM_1.3", true)
	require.NoError(t, err)
	require.Len(t, got, 1, "any version finds the stored alignment")

	got, err = m.GetAlignments("NM_1.3", false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySNPBothDirections(t *testing.T) {
	m := NewMemory()
	m.AddSNP("rs42", "chr17", 100, 101)

	rs, ok := m.RsIDAtLocus("chr17", 100, 101)
	assert.True(t, ok)
	assert.Equal(t, "rs42", rs)
	_, ok = m.RsIDAtLocus("chr17", 100, 102)
	assert.False(t, ok)

	chrom, start, end, ok := m.LocusByRsID("rs42")
	assert.True(t, ok)
	assert.Equal(t, "chr17", chrom)
	assert.Equal(t, 100, start)
	assert.Equal(t, 101, end)
	_, _, _, ok = m.LocusByRsID("rs43")
	assert.False(t, ok)
}

func TestMemoryGeneTable(t *testing.T) {
	m := NewMemory()
	m.Symbols[672] = "BRCA1"
	m.Symbols[673] = "BRAF"
	m.ProtAccs[672] = []string{"NP_009225.1"}
	m.CodingAccs[672] = []string{"NM_007294.3"}

	sym, ok := m.SymbolOf(672)
	assert.True(t, ok)
	assert.Equal(t, "BRCA1", sym)
	_, ok = m.SymbolOf(1)
	assert.False(t, ok)

	assert.Equal(t, []int{672}, m.EntrezBySymbol("BRCA1"))
	assert.Empty(t, m.EntrezBySymbol("TP53"))

	assert.Equal(t, []string{"NP_009225.1"}, m.ProteinAccessions(672))
	assert.Equal(t, []string{"NM_007294.3"}, m.CodingAccessions(672))
	assert.Empty(t, m.ProteinAccessions(673))
}

func TestMemoryEntrezBySymbolSharedAcrossWorkers(t *testing.T) {
	m := NewMemory()
	m.Symbols[672] = "BRCA1"
	m.Symbols[100672] = "BRCA1" // ambiguous symbol, ids come back sorted
	m.Symbols[673] = "BRAF"

	var wg sync.WaitGroup
	got := make(chan []int, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- m.EntrezBySymbol("BRCA1")
		}()
	}
	wg.Wait()
	close(got)

	for ids := range got {
		assert.Equal(t, []int{672, 100672}, ids)
	}
}

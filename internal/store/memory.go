package store

import (
	"sort"

	"github.com/varmine/varmine/internal/psl"
)

// Memory is an in-process implementation of every store interface. It backs
// tests and small fixture datasets, and is the target the TSV loaders
// populate.
type Memory struct {
	Seqs       map[string]string
	CDSStarts  map[string]int
	ProtToSeq  map[string]string
	Alignments map[string][]*psl.PSL
	SNPByLocus map[string]string
	Symbols    map[int]string
	ProtAccs   map[int][]string
	CodingAccs map[int][]string

	snpLoci map[string]snpLocus
}

// snpLocus holds the rsID-to-interval direction of the catalog.
type snpLocus struct {
	Chrom string
	Start int
	End   int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		Seqs:       make(map[string]string),
		CDSStarts:  make(map[string]int),
		ProtToSeq:  make(map[string]string),
		Alignments: make(map[string][]*psl.PSL),
		SNPByLocus: make(map[string]string),
		Symbols:    make(map[int]string),
		ProtAccs:   make(map[int][]string),
		CodingAccs: make(map[int][]string),
		snpLoci:    make(map[string]snpLocus),
	}
}

func (m *Memory) GetSeq(accession string) (string, bool) {
	s, ok := m.Seqs[accession]
	return s, ok
}

func (m *Memory) GetCDSStart(accession string) (int, bool) {
	n, ok := m.CDSStarts[accession]
	return n, ok
}

func (m *Memory) RefSeqForProtein(protAccession string) (string, bool) {
	s, ok := m.ProtToSeq[protAccession]
	return s, ok
}

// AddAlignment registers a parsed PSL under its version-stripped accession.
func (m *Memory) AddAlignment(accession string, p *psl.PSL) {
	key := stripVersion(accession)
	m.Alignments[key] = append(m.Alignments[key], p)
}

func (m *Memory) GetAlignments(accession string, stripVersionSuffix bool) ([]*psl.PSL, error) {
	key := accession
	if stripVersionSuffix {
		key = stripVersion(accession)
	}
	return m.Alignments[key], nil
}

// AddSNP registers an rsID at a genomic locus, queryable in both directions.
func (m *Memory) AddSNP(rsID, chrom string, start, end int) {
	m.SNPByLocus[locusKey(chrom, start, end)] = rsID
	m.snpLoci[rsID] = snpLocus{Chrom: chrom, Start: start, End: end}
}

func (m *Memory) RsIDAtLocus(chrom string, start, end int) (string, bool) {
	rs, ok := m.SNPByLocus[locusKey(chrom, start, end)]
	return rs, ok
}

func (m *Memory) LocusByRsID(rsID string) (string, int, int, bool) {
	l, ok := m.snpLoci[rsID]
	if !ok {
		return "", 0, 0, false
	}
	return l.Chrom, l.Start, l.End, true
}

func (m *Memory) SymbolOf(entrezID int) (string, bool) {
	s, ok := m.Symbols[entrezID]
	return s, ok
}

// EntrezBySymbol scans the symbol map on every call: fixtures keep mutating
// Symbols after construction, and the store must stay safe to share across
// pipeline workers, so there is no lazily built reverse index to go stale or
// race.
func (m *Memory) EntrezBySymbol(symbol string) []int {
	var ids []int
	for id, sym := range m.Symbols {
		if sym == symbol {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (m *Memory) ProteinAccessions(entrezID int) []string {
	return m.ProtAccs[entrezID]
}

func (m *Memory) CodingAccessions(entrezID int) []string {
	return m.CodingAccs[entrezID]
}

// Package psl projects sequence-local intervals through gapped alignments
// into absolute genome coordinates. Alignments use the 21-field PSL layout
// (query = transcript, target = genome); projection results are 12-field
// BED-style interval records.
package psl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PSL is one gapped alignment between a query sequence and a target
// sequence. Starts are 0-based. Per the PSL convention, TStarts are always
// forward-target coordinates while QStarts are given on the aligned query
// strand: for '-' strand alignments they count from the reverse-complemented
// query.
type PSL struct {
	Matches    int
	MisMatches int
	RepMatches int
	NCount     int
	QNumInsert int
	QBaseIns   int
	TNumInsert int
	TBaseIns   int
	Strand     string
	QName      string
	QSize      int
	QStart     int
	QEnd       int
	TName      string
	TSize      int
	TStart     int
	TEnd       int
	BlockCount int
	BlockSizes []int
	QStarts    []int
	TStarts    []int
}

// Parse reads one tab-separated 21-field PSL line.
func Parse(line string) (*PSL, error) {
	fields := strings.Split(strings.TrimRight(line, "\n"), "\t")
	if len(fields) != 21 {
		return nil, fmt.Errorf("psl line has %d fields, want 21", len(fields))
	}

	ints := make([]int, 8)
	for i := 0; i < 8; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("psl field %d: %w", i, err)
		}
		ints[i] = n
	}

	p := &PSL{
		Matches:    ints[0],
		MisMatches: ints[1],
		RepMatches: ints[2],
		NCount:     ints[3],
		QNumInsert: ints[4],
		QBaseIns:   ints[5],
		TNumInsert: ints[6],
		TBaseIns:   ints[7],
		Strand:     fields[8],
		QName:      fields[9],
		TName:      fields[13],
	}

	var err error
	if p.QSize, err = strconv.Atoi(fields[10]); err != nil {
		return nil, fmt.Errorf("psl qSize: %w", err)
	}
	if p.QStart, err = strconv.Atoi(fields[11]); err != nil {
		return nil, fmt.Errorf("psl qStart: %w", err)
	}
	if p.QEnd, err = strconv.Atoi(fields[12]); err != nil {
		return nil, fmt.Errorf("psl qEnd: %w", err)
	}
	if p.TSize, err = strconv.Atoi(fields[14]); err != nil {
		return nil, fmt.Errorf("psl tSize: %w", err)
	}
	if p.TStart, err = strconv.Atoi(fields[15]); err != nil {
		return nil, fmt.Errorf("psl tStart: %w", err)
	}
	if p.TEnd, err = strconv.Atoi(fields[16]); err != nil {
		return nil, fmt.Errorf("psl tEnd: %w", err)
	}
	if p.BlockCount, err = strconv.Atoi(fields[17]); err != nil {
		return nil, fmt.Errorf("psl blockCount: %w", err)
	}
	if p.BlockSizes, err = parseIntList(fields[18]); err != nil {
		return nil, fmt.Errorf("psl blockSizes: %w", err)
	}
	if p.QStarts, err = parseIntList(fields[19]); err != nil {
		return nil, fmt.Errorf("psl qStarts: %w", err)
	}
	if p.TStarts, err = parseIntList(fields[20]); err != nil {
		return nil, fmt.Errorf("psl tStarts: %w", err)
	}

	if len(p.BlockSizes) != p.BlockCount || len(p.QStarts) != p.BlockCount || len(p.TStarts) != p.BlockCount {
		return nil, fmt.Errorf("psl block lists disagree with blockCount %d", p.BlockCount)
	}
	return p, nil
}

// IsNegativeStrand reports whether the query aligns to the reverse strand.
func (p *PSL) IsNegativeStrand() bool {
	return strings.HasPrefix(p.Strand, "-")
}

// NormalizeStrand returns an alignment whose QStarts are forward-query
// coordinates regardless of strand, so all projection logic can run in one
// canonical orientation. Within each block of a '-' strand alignment,
// ascending query positions map to descending target positions; MapInterval
// accounts for that using the Strand field, which is preserved. '+' strand
// alignments are returned unchanged.
func (p *PSL) NormalizeStrand() *PSL {
	if !p.IsNegativeStrand() {
		return p
	}
	n := p.BlockCount
	c := *p
	c.BlockSizes = make([]int, n)
	c.QStarts = make([]int, n)
	c.TStarts = make([]int, n)
	for i := 0; i < n; i++ {
		j := n - 1 - i
		size := p.BlockSizes[j]
		c.BlockSizes[i] = size
		c.QStarts[i] = p.QSize - (p.QStarts[j] + size)
		c.TStarts[i] = p.TStarts[j]
	}
	return &c
}

// MapInterval projects a forward-query interval [qStart,qEnd) through the
// alignment blocks into target space. The alignment must be in normalized
// orientation. Each returned piece is one contiguous target run; pieces come
// back sorted by target start. Returns nil when nothing overlaps an aligned
// block (query bases falling into gaps project to nothing).
func (p *PSL) MapInterval(qStart, qEnd int) []Block {
	var pieces []Block
	for i := 0; i < p.BlockCount; i++ {
		bq := p.QStarts[i]
		bt := p.TStarts[i]
		size := p.BlockSizes[i]

		os := max(qStart, bq)
		oe := min(qEnd, bq+size)
		if os >= oe {
			continue
		}
		if p.IsNegativeStrand() {
			ds := os - bq
			de := oe - bq
			pieces = append(pieces, Block{TStart: bt + size - de, TEnd: bt + size - ds})
		} else {
			pieces = append(pieces, Block{TStart: bt + (os - bq), TEnd: bt + (oe - bq)})
		}
	}
	sort.Slice(pieces, func(i, j int) bool { return pieces[i].TStart < pieces[j].TStart })
	return pieces
}

// Block is one contiguous target-space run of a projected interval.
type Block struct {
	TStart int
	TEnd   int
}

func parseIntList(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

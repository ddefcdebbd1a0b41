package psl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePSL = "36\t1\t0\t0\t0\t0\t1\t990\t+\tNM_000001.1\t100\t0\t37\tchr17\t81195210\t1000\t2027\t2\t10,27,\t0,10,\t1000,2000,"

func TestParse(t *testing.T) {
	p, err := Parse(samplePSL)
	require.NoError(t, err)

	assert.Equal(t, 36, p.Matches)
	assert.Equal(t, "+", p.Strand)
	assert.Equal(t, "NM_000001.1", p.QName)
	assert.Equal(t, 100, p.QSize)
	assert.Equal(t, "chr17", p.TName)
	assert.Equal(t, 2, p.BlockCount)
	assert.Equal(t, []int{10, 27}, p.BlockSizes)
	assert.Equal(t, []int{0, 10}, p.QStarts)
	assert.Equal(t, []int{1000, 2000}, p.TStarts)
	assert.False(t, p.IsNegativeStrand())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("1\t2\t3")
	assert.Error(t, err, "too few fields")

	_, err = Parse("x\t1\t0\t0\t0\t0\t1\t990\t+\tq\t100\t0\t37\tt\t200\t0\t37\t1\t37,\t0,\t0,")
	assert.Error(t, err, "non-numeric field")

	_, err = Parse("36\t1\t0\t0\t0\t0\t1\t990\t+\tq\t100\t0\t37\tt\t200\t0\t37\t2\t37,\t0,\t0,")
	assert.Error(t, err, "block lists disagree with blockCount")
}

func newPlusAlignment(t *testing.T) *PSL {
	t.Helper()
	p, err := Parse(samplePSL)
	require.NoError(t, err)
	return p.NormalizeStrand()
}

func TestMapIntervalPlusStrand(t *testing.T) {
	p := newPlusAlignment(t)

	// inside the first block
	pieces := p.MapInterval(5, 8)
	require.Len(t, pieces, 1)
	assert.Equal(t, Block{TStart: 1005, TEnd: 1008}, pieces[0])

	// spanning the gap between blocks
	pieces = p.MapInterval(8, 12)
	require.Len(t, pieces, 2)
	assert.Equal(t, Block{TStart: 1008, TEnd: 1010}, pieces[0])
	assert.Equal(t, Block{TStart: 2000, TEnd: 2002}, pieces[1])

	// entirely outside the aligned query range
	assert.Empty(t, p.MapInterval(50, 60))
}

func TestNormalizeStrandMinus(t *testing.T) {
	// Two blocks on the minus strand. QStarts are reverse-query
	// coordinates in the raw record.
	raw := &PSL{
		Strand:     "-",
		QName:      "NM_000002.1",
		QSize:      100,
		TName:      "chr7",
		BlockCount: 2,
		BlockSizes: []int{10, 20},
		QStarts:    []int{0, 15},
		TStarts:    []int{3000, 5000},
	}

	p := raw.NormalizeStrand()
	assert.Equal(t, "-", p.Strand, "strand is preserved")
	assert.Equal(t, []int{20, 10}, p.BlockSizes)
	assert.Equal(t, []int{65, 90}, p.QStarts, "forward-query coordinates, ascending")
	assert.Equal(t, []int{5000, 3000}, p.TStarts, "target descends as query ascends")

	// raw record untouched
	assert.Equal(t, []int{0, 15}, raw.QStarts)

	// plus strand alignments come back unchanged
	plus := newPlusAlignment(t)
	assert.Same(t, plus, plus.NormalizeStrand())
}

func TestMapIntervalMinusStrand(t *testing.T) {
	raw := &PSL{
		Strand:     "-",
		QSize:      100,
		TName:      "chr7",
		BlockCount: 2,
		BlockSizes: []int{10, 20},
		QStarts:    []int{0, 15},
		TStarts:    []int{3000, 5000},
	}
	p := raw.NormalizeStrand()

	// within one block, ascending query maps to descending target
	pieces := p.MapInterval(70, 72)
	require.Len(t, pieces, 1)
	assert.Equal(t, Block{TStart: 5013, TEnd: 5015}, pieces[0])

	// the very last forward-query base of the second block
	pieces = p.MapInterval(99, 100)
	require.Len(t, pieces, 1)
	assert.Equal(t, Block{TStart: 3000, TEnd: 3001}, pieces[0])

	// spanning both blocks; pieces come back sorted by target start
	pieces = p.MapInterval(84, 92)
	require.Len(t, pieces, 2)
	assert.Equal(t, Block{TStart: 3008, TEnd: 3010}, pieces[0])
	assert.Equal(t, Block{TStart: 5000, TEnd: 5001}, pieces[1])
}

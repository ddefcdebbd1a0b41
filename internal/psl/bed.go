package psl

import (
	"strconv"
	"strings"
)

// Bed is a 12-field BED-style genome interval: the terminal coordinate form
// of a projected variant. ThickStart and ThickEnd mirror Start and End;
// Score is a placeholder kept for column compatibility.
type Bed struct {
	Chrom       string
	Start       int
	End         int
	Name        string
	Score       int
	Strand      string
	ThickStart  int
	ThickEnd    int
	ItemRGB     string
	BlockCount  int
	BlockSizes  []int
	BlockStarts []int
}

// Shift moves the interval by a signed offset. Intron-relative corrections
// from splice-site notations are applied this way after projection.
func (b *Bed) Shift(offset int) {
	b.Start += offset
	b.End += offset
	b.ThickStart += offset
	b.ThickEnd += offset
}

// Row serializes the record to its 12 tabular columns.
func (b *Bed) Row() []string {
	return []string{
		b.Chrom,
		strconv.Itoa(b.Start),
		strconv.Itoa(b.End),
		b.Name,
		strconv.Itoa(b.Score),
		b.Strand,
		strconv.Itoa(b.ThickStart),
		strconv.Itoa(b.ThickEnd),
		b.ItemRGB,
		strconv.Itoa(b.BlockCount),
		joinInts(b.BlockSizes),
		joinInts(b.BlockStarts),
	}
}

func (b *Bed) String() string {
	return strings.Join(b.Row(), "\t")
}

// MakeBed projects a forward-query interval through an alignment and
// assembles the BED record. Returns nil when no aligned base overlaps the
// interval.
func MakeBed(p *PSL, qStart, qEnd int, name string) *Bed {
	pieces := p.MapInterval(qStart, qEnd)
	if len(pieces) == 0 {
		return nil
	}

	start := pieces[0].TStart
	end := pieces[len(pieces)-1].TEnd

	strand := "+"
	if p.IsNegativeStrand() {
		strand = "-"
	}

	b := &Bed{
		Chrom:      p.TName,
		Start:      start,
		End:        end,
		Name:       name,
		Strand:     strand,
		ThickStart: start,
		ThickEnd:   end,
		ItemRGB:    "0",
		BlockCount: len(pieces),
	}
	for _, piece := range pieces {
		b.BlockSizes = append(b.BlockSizes, piece.TEnd-piece.TStart)
		b.BlockStarts = append(b.BlockStarts, piece.TStart-start)
	}
	return b
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

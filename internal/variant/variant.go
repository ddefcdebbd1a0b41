// Package variant defines the data model for sequence variants extracted
// from text: the mention spans, the canonical variant description, and the
// blacklist used to reject false-positive substitution matches.
package variant

import (
	"fmt"

	"github.com/varmine/varmine/internal/codon"
)

// MutType tags the kind of mutation event a description represents.
type MutType string

const (
	Sub      MutType = "sub"
	Del      MutType = "del"
	Ins      MutType = "ins"
	Dup      MutType = "dup"
	Splicing MutType = "splicing"
	DbSNP    MutType = "dbSnp"
)

// SeqType names the coordinate space a description's positions refer to.
type SeqType string

const (
	SeqProt   SeqType = "prot"
	SeqDNA    SeqType = "dna"
	SeqCDS    SeqType = "cds"
	SeqRNA    SeqType = "rna"
	SeqIntron SeqType = "intron"
	SeqDbSNP  SeqType = "dbSnp"
)

// Mention is one regex match in the source text. Offsets are 0-based into
// the document. Mentions are never mutated after creation.
type Mention struct {
	PatName string
	Start   int
	End     int
}

// Description is the canonical form of a mutation event, independent of the
// text it came from. Start and End are a 0-based half-open interval on the
// coordinate space of SeqID (SeqID is empty until the variant is grounded).
//
// OrigSeq and MutSeq hold the wild-type and mutant subsequences; deletions
// have no MutSeq and insertions no OrigSeq. Offset carries the signed
// intron-relative distance for splice-site notations like "c.1184-3A>T".
// For dbSNP references OrigSeq holds the chromosome and MutSeq the rsID.
//
// Descriptions are value-copied as they are re-projected between coordinate
// systems; derived variants never share mutable state with their source.
type Description struct {
	MutType MutType
	SeqType SeqType
	SeqID   string
	Start   int
	End     int
	OrigSeq string
	MutSeq  string
	Offset  int
	OrigStr string
}

// Clone returns an independent copy of the description.
func (d *Description) Clone() *Description {
	c := *d
	return &c
}

// WithSeqID returns a copy of the description placed on the given accession.
func (d *Description) WithSeqID(seqID string) *Description {
	c := *d
	c.SeqID = seqID
	return &c
}

// WithInterval returns a copy of the description moved to a new interval.
func (d *Description) WithInterval(start, end int) *Description {
	c := *d
	c.Start = start
	c.End = end
	return &c
}

// Valid reports whether the description satisfies the interval invariants:
// non-negative start, start < end, and for substitutions equal-length
// wild-type and mutant sequences spanning the interval.
func (d *Description) Valid() bool {
	if d.Start < 0 || d.Start >= d.End {
		return false
	}
	if d.MutType == Sub && d.SeqType != SeqDbSNP {
		n := d.End - d.Start
		if len(d.OrigSeq) != n || len(d.MutSeq) != n {
			return false
		}
	}
	return true
}

// Name returns the canonical HGVS-style identifier for the variant. It is
// the deduplication key during extraction: two matches describing the same
// mutation produce the same name.
func (d *Description) Name() string {
	if d.MutType == DbSNP {
		return d.MutSeq
	}
	if d.SeqID == "" {
		return fmt.Sprintf("p.%s%d%s", d.OrigSeq, d.Start+1, d.MutSeq)
	}
	return HGVS(d.SeqType, d.SeqID, d.OrigSeq, d.Start, d.MutSeq, d.Offset)
}

// HGVS renders an HGVS-style descriptor for a variant at a 0-based position
// on the given accession. Protein descriptors use three-letter residue codes;
// coding and DNA descriptors print 1-based positions.
//
// RNA descriptors print the stored 0-based position unchanged. That matches
// the historical output of this pipeline; downstream consumers parse it, so
// it is kept as-is.
func HGVS(seqType SeqType, seqID, origSeq string, start int, mutSeq string, offset int) string {
	switch seqType {
	case SeqProt:
		return fmt.Sprintf("%s:p.%s%d%s", seqID, threeLetter(origSeq), start+1, threeLetter(mutSeq))
	case SeqCDS, SeqDNA:
		return fmt.Sprintf("%s:c.%d%s>%s", seqID, start+1, origSeq, mutSeq)
	case SeqRNA:
		return fmt.Sprintf("%s:r.%d%s>%s", seqID, start, origSeq, mutSeq)
	case SeqIntron:
		return fmt.Sprintf("%s:c.%d%+d%s>%s", seqID, start+1, offset, origSeq, mutSeq)
	}
	return fmt.Sprintf("%s:%d%s>%s", seqID, start+1, origSeq, mutSeq)
}

func threeLetter(seq string) string {
	out := ""
	for i := 0; i < len(seq); i++ {
		three, ok := codon.OneToThree[seq[i]]
		if !ok {
			three = "Xaa"
		}
		out += three
	}
	return out
}

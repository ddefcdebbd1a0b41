// Package coord maps protein-level variant descriptions onto transcript
// coordinates: first the coding sequence (CDS), then the cDNA/RNA of the
// refseq transcript the protein belongs to.
package coord

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/varmine/varmine/internal/codon"
	"github.com/varmine/varmine/internal/store"
	"github.com/varmine/varmine/internal/variant"
)

// Mapper projects protein variants onto CDS and RNA coordinates using
// reference sequences.
type Mapper struct {
	seqs   store.SequenceStore
	logger *zap.Logger

	// AllowTwoBp also accepts codon changes that need two adjacent
	// substituted nucleotides, not just one.
	AllowTwoBp bool

	// Shuffle disables the translation consistency check. Only used by
	// permutation runs that deliberately randomize gene assignments.
	Shuffle bool
}

// NewMapper creates a Mapper over a sequence store.
func NewMapper(seqs store.SequenceStore) *Mapper {
	return &Mapper{seqs: seqs, logger: zap.NewNop()}
}

// SetLogger sets the logger used for mapping diagnostics.
func (m *Mapper) SetLogger(l *zap.Logger) {
	m.logger = l
}

// DNAAtCodingPos returns the transcript nucleotides spanning codons
// [start, end) of a transcript, plus their transcript coordinates. The
// translation of the window must match expectAa; a mismatch means the
// protein and transcript versions have drifted apart.
func (m *Mapper) DNAAtCodingPos(transcript string, start, end int, expectAa string) (string, int, int, error) {
	cdsStart, ok := m.seqs.GetCDSStart(transcript)
	if !ok {
		return "", 0, 0, fmt.Errorf("no cds start for %s", transcript)
	}
	cdnaSeq, ok := m.seqs.GetSeq(transcript)
	if !ok {
		return "", 0, 0, fmt.Errorf("no sequence for %s (update diff between UCSC/NCBI maps?)", transcript)
	}
	nuclStart := cdsStart + 3*start
	nuclEnd := nuclStart + 3*(end-start)
	if nuclEnd > len(cdnaSeq) {
		return "", 0, 0, fmt.Errorf("codons %d-%d of %s beyond sequence end", start, end, transcript)
	}
	nuclSeq := cdnaSeq[nuclStart:nuclEnd]
	foundAa := codon.Translate(nuclSeq)
	m.logger.Debug("coding window",
		zap.String("transcript", transcript),
		zap.Int("cdsStart", cdsStart),
		zap.Int("nuclStart", nuclStart),
		zap.String("codons", nuclSeq))
	if !m.Shuffle && foundAa != expectAa {
		return "", 0, 0, fmt.Errorf("codons %d-%d of %s translate to %s, expected %s",
			start, end, transcript, foundAa, expectAa)
	}
	return nuclSeq, nuclStart, nuclEnd, nil
}

// MapToCodingAndRNA resolves protein variants to their transcripts and
// derives the CDS and RNA level descriptions of the same change. Proteins
// without a known transcript are skipped; a sequence fetch failure aborts
// the whole batch and returns (nil, nil).
func (m *Mapper) MapToCodingAndRNA(protVars []*variant.Description) (codVars, rnaVars []*variant.Description) {
	for _, protVar := range protVars {
		transcript, ok := m.seqs.RefSeqForProtein(protVar.SeqID)
		if !ok {
			m.logger.Error("could not resolve refprot to refseq, likely a difference "+
				"between UniProt and Refseq updates, skipping this protein",
				zap.String("protein", protVar.SeqID))
			continue
		}

		origDnaSeq, nuclStart, _, err := m.DNAAtCodingPos(
			transcript, protVar.Start, protVar.Start+len(protVar.OrigSeq), protVar.OrigSeq)
		if err != nil {
			m.logger.Warn("cannot map protein variant to transcript",
				zap.String("protein", protVar.SeqID),
				zap.String("transcript", transcript),
				zap.Error(err))
			return nil, nil
		}

		if protVar.MutType == variant.Del && protVar.MutSeq == "" {
			// Papers rarely say where an unqualified deletion starts and
			// ends, so anchor it at the codon after the stated position.
			cdStart := 3*protVar.Start + 2
			cod := protVar.Clone()
			cod.SeqType = variant.SeqCDS
			cod.SeqID = transcript
			cod.Start = cdStart
			cod.End = cdStart + 3*len(protVar.OrigSeq)
			cod.OrigSeq = origDnaSeq
			cod.MutSeq = ""
			codVars = append(codVars, cod)

			rna := protVar.Clone()
			rna.SeqType = variant.SeqRNA
			rna.SeqID = transcript
			rna.Start = nuclStart
			rna.End = nuclStart + 3*len(protVar.OrigSeq)
			rna.OrigSeq = origDnaSeq
			rna.MutSeq = ""
			rnaVars = append(rnaVars, rna)
			continue
		}

		changes := codon.PossibleDNAChanges(protVar.OrigSeq, protVar.MutSeq, origDnaSeq, m.AllowTwoBp)
		for _, ch := range changes {
			cod := protVar.Clone()
			cod.SeqType = variant.SeqCDS
			cod.SeqID = transcript
			cod.Start = 3*protVar.Start + ch.Pos
			cod.End = cod.Start + len(ch.Old)
			cod.OrigSeq = ch.Old
			cod.MutSeq = ch.New
			codVars = append(codVars, cod)

			rna := protVar.Clone()
			rna.SeqType = variant.SeqRNA
			rna.SeqID = transcript
			rna.Start = nuclStart + ch.Pos
			rna.End = rna.Start + len(ch.New)
			rna.OrigSeq = ch.Old
			rna.MutSeq = ch.New
			rnaVars = append(rnaVars, rna)
		}
	}
	return codVars, rnaVars
}

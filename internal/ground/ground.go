// Package ground anchors extracted variant descriptions onto genes: it
// verifies the claimed wild-type sequence against reference transcripts and
// proteins, derives the CDS/RNA/genome coordinate forms of each verified
// variant, and cross-references the projected loci against dbSNP.
package ground

import (
	"math/rand"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/varmine/varmine/internal/coord"
	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/psl"
	"github.com/varmine/varmine/internal/store"
	"github.com/varmine/varmine/internal/variant"
)

// Grounder resolves variants against one set of reference stores. It keeps
// a per-instance alignment cache, so each pipeline worker gets its own.
type Grounder struct {
	seqs      store.SequenceStore
	genes     store.GeneTable
	snps      store.SNPStore
	mapper    *coord.Mapper
	projector *psl.Projector
	logger    *zap.Logger

	// InsertionRV decides the fate of variants whose wild-type sequence
	// cannot be checked, such as insertions with no reference residues.
	// True maps them onto every candidate gene; false drops them.
	InsertionRV bool

	// Shuffle randomizes reference sequences before verification, for
	// permutation runs that estimate the false-positive background.
	Shuffle bool
}

// New creates a Grounder over the reference stores.
func New(seqs store.SequenceStore, genes store.GeneTable, snps store.SNPStore, aligns psl.AlignmentStore) *Grounder {
	return &Grounder{
		seqs:      seqs,
		genes:     genes,
		snps:      snps,
		mapper:    coord.NewMapper(seqs),
		projector: psl.NewProjector(aligns),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger on the grounder and its helpers.
func (g *Grounder) SetLogger(l *zap.Logger) {
	g.logger = l
	g.mapper.SetLogger(l)
	g.projector.SetLogger(l)
}

// SetShuffle switches permutation mode on the grounder and the coordinate
// mapper together, since the mapper's consistency check cannot hold on
// shuffled sequences.
func (g *Grounder) SetShuffle(on bool) {
	g.Shuffle = on
	g.mapper.Shuffle = on
}

// AllowTwoBp also accepts protein changes that need two adjacent
// substituted nucleotides.
func (g *Grounder) AllowTwoBp(on bool) {
	g.mapper.AllowTwoBp = on
}

// VerifySequence reports whether the reference sequence carries the
// variant's claimed wild-type residues at the claimed position. Insertions
// with no reference residues are not checkable; they pass or fail per the
// InsertionRV policy. Non-coding NR_ transcripts are always rejected.
func (g *Grounder) VerifySequence(seqID string, v *variant.Description) bool {
	if strings.HasPrefix(seqID, "NR_") {
		g.logger.Info("skipping noncoding sequence", zap.String("seqId", seqID))
		return false
	}
	if v.MutType == variant.Ins && v.OrigSeq == "" {
		return g.InsertionRV
	}

	seq, ok := g.seqs.GetSeq(seqID)
	if !ok {
		g.logger.Debug("sequence not available", zap.String("seqId", seqID))
		return false
	}

	cdsStart := 0
	if v.SeqType == variant.SeqDNA {
		cdsStart, ok = g.seqs.GetCDSStart(seqID)
		if !ok {
			g.logger.Debug("no cds start", zap.String("seqId", seqID))
			return false
		}
	}

	start := v.Start + cdsStart
	end := v.End + cdsStart
	if start < 0 || end > len(seq) {
		g.logger.Debug("sequence too short",
			zap.String("seqId", seqID), zap.Int("end", end), zap.Int("len", len(seq)))
		return false
	}

	if g.Shuffle {
		b := []byte(seq)
		rand.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
		seq = string(b)
	}

	found := strings.ToUpper(seq[start:end])
	if found == strings.ToUpper(v.OrigSeq) {
		g.logger.Debug("sequence match",
			zap.String("seqId", seqID), zap.String("found", found), zap.Int("start", start))
		return true
	}
	g.logger.Debug("no sequence match",
		zap.String("seqId", seqID),
		zap.String("want", v.OrigSeq),
		zap.String("found", found),
		zap.Int("start", start),
		zap.Int("cdsStart", cdsStart))
	return false
}

// seqIDsWithWildType filters accessions down to those whose sequence
// carries the variant's wild type.
func (g *Grounder) seqIDsWithWildType(seqIDs []string, v *variant.Description) []string {
	var found []string
	for _, seqID := range seqIDs {
		if g.VerifySequence(seqID, v) {
			found = append(found, seqID)
		}
	}
	return found
}

// CheckVariantAgainstSequence resolves a gene to its candidate accessions,
// protein or coding depending on the variant's coordinate space, and
// returns the ones that verify.
func (g *Grounder) CheckVariantAgainstSequence(v *variant.Description, entrezID int) []string {
	var seqIDs []string
	switch v.SeqType {
	case variant.SeqProt:
		seqIDs = g.genes.ProteinAccessions(entrezID)
	case variant.SeqDNA, variant.SeqIntron:
		seqIDs = g.genes.CodingAccessions(entrezID)
	default:
		g.logger.Debug("variant is neither dna nor protein",
			zap.String("seqType", string(v.SeqType)))
		return nil
	}
	if len(seqIDs) == 0 {
		return nil
	}
	return g.seqIDsWithWildType(seqIDs, v)
}

// rewriteToAccessions places the variant on each verified accession.
func rewriteToAccessions(v *variant.Description, seqIDs []string) []*variant.Description {
	out := make([]*variant.Description, len(seqIDs))
	for i, seqID := range seqIDs {
		out[i] = v.WithSeqID(seqID)
	}
	return out
}

// bedToRsIDs looks up the dbSNP id at each projected genome interval,
// "na" where none is catalogued. The result aligns index-wise with beds.
func (g *Grounder) bedToRsIDs(beds []*psl.Bed) []string {
	out := make([]string, 0, len(beds))
	for _, bed := range beds {
		rsID, ok := g.snps.RsIDAtLocus(bed.Chrom, bed.Start, bed.End)
		if !ok {
			g.logger.Debug("genome locus has no dbSNP entry",
				zap.String("chrom", bed.Chrom), zap.Int("start", bed.Start))
			out = append(out, "na")
			continue
		}
		g.logger.Debug("genome locus matches dbSNP",
			zap.String("chrom", bed.Chrom), zap.Int("start", bed.Start), zap.String("rsId", rsID))
		out = append(out, rsID)
	}
	return out
}

// snpMentionsFor collects the dbSNP mentions from the document whose rsID
// is among the projected ids, keyed by rsID.
func snpMentionsFor(mappedRsIDs []string, snpVars []extract.VariantMentions) map[string][]variant.Mention {
	if len(snpVars) == 0 {
		return map[string][]variant.Mention{}
	}
	wanted := make(map[string]bool, len(mappedRsIDs))
	for _, rsID := range mappedRsIDs {
		if rsID != "na" {
			wanted[rsID] = true
		}
	}
	res := make(map[string][]variant.Mention)
	if len(wanted) == 0 {
		return res
	}
	for _, vm := range snpVars {
		rsID := vm.Variant.MutSeq
		if wanted[rsID] {
			res[rsID] = append(res[rsID], vm.Mentions...)
		}
	}
	return res
}

// Result is the outcome of grounding one variant against a document's
// candidate genes.
type Result struct {
	// Grounded holds one record per gene the variant verified against.
	Grounded []*Record
	// Ungrounded is the evidence-only record produced when no gene
	// anchored the variant; nil otherwise.
	Ungrounded *Record
	// Beds are all projected genome intervals, across genes.
	Beds []*psl.Bed
	// MappedRsIDs are the dbSNP ids any projected locus hit. The caller
	// aggregates these across a document to find purely-textual rsIDs.
	MappedRsIDs []string
}

// GroundVariant tries to anchor one extracted variant on each candidate
// gene of the document. For every gene whose reference sequence carries the
// claimed wild type, it derives the protein, CDS, RNA, and genome forms of
// the change and emits a record. Intron-offset variants verify but cannot
// be projected, so they always come back ungrounded.
func (g *Grounder) GroundVariant(varID, text string, v *variant.Description, mentions []variant.Mention,
	snpVars []extract.VariantMentions, entrezGenes []int) *Result {

	res := &Result{}
	g.logger.Debug("grounding variant",
		zap.String("name", v.Name()), zap.Ints("genes", entrezGenes))
	grounded := false

geneLoop:
	for _, entrezID := range entrezGenes {
		geneSym, ok := g.genes.SymbolOf(entrezID)
		if !ok {
			g.logger.Warn("no symbol for entrez gene, skipping",
				zap.Int("entrezId", entrezID))
			continue
		}
		seqIDs := g.CheckVariantAgainstSequence(v, entrezID)
		if len(seqIDs) == 0 {
			continue
		}

		var protVars, codVars, rnaVars []*variant.Description
		var beds []*psl.Bed
		switch v.SeqType {
		case variant.SeqProt:
			protVars = rewriteToAccessions(v, seqIDs)
			codVars, rnaVars = g.mapper.MapToCodingAndRNA(protVars)
			if codVars == nil {
				continue
			}
			beds = g.projector.MapToGenome(rnaVars, varID)
		case variant.SeqDNA:
			for _, seqID := range seqIDs {
				cdsStart, ok := g.seqs.GetCDSStart(seqID)
				if !ok {
					g.logger.Warn("no cds start for verified transcript",
						zap.String("seqId", seqID))
					continue
				}
				codVars = append(codVars, v.WithSeqID(seqID))
				rna := v.WithSeqID(seqID)
				rna.SeqType = variant.SeqRNA
				rna.Start = v.Start + cdsStart
				rna.End = v.End + cdsStart
				rnaVars = append(rnaVars, rna)
			}
			beds = g.projector.MapToGenome(rnaVars, varID)
		case variant.SeqIntron:
			// Intron-relative positions have no transcript coordinate to
			// project from.
			grounded = false
			break geneLoop
		default:
			g.logger.Error("can only ground prot and dna variants",
				zap.String("seqType", string(v.SeqType)))
			continue
		}

		varRsIDs := g.bedToRsIDs(beds)
		mentioned := snpMentionsFor(varRsIDs, snpVars)
		for rsID := range mentioned {
			res.MappedRsIDs = append(res.MappedRsIDs, rsID)
		}

		var coords *psl.Bed
		if len(beds) > 0 {
			coords = beds[0]
		}
		rec := NewRecord(recordParams{
			VarID:        varID,
			ProtVars:     protVars,
			CodVars:      codVars,
			RnaVars:      rnaVars,
			EntrezID:     strconv.Itoa(entrezID),
			GeneSymbol:   geneSym,
			RsIDs:        varRsIDs,
			DbSnpByRsID:  mentioned,
			Mentions:     mentions,
			Text:         text,
			SeqType:      v.SeqType,
			PatType:      v.MutType,
			GenomeCoords: coords,
		})
		res.Grounded = append(res.Grounded, rec)
		res.Beds = append(res.Beds, beds...)
		grounded = true
	}

	if !grounded {
		res.Ungrounded = newUngroundedRecord(v.SeqType, mentions, text)
	}
	return res
}

// UnmappedSNPRecords builds evidence-only records for the dbSNP mentions
// whose rsID no grounded variant projected onto. They are reported so a
// mentioned SNP is never silently lost.
func UnmappedSNPRecords(snpVars []extract.VariantMentions, mappedRsIDs []string, text string) []*Record {
	mapped := make(map[string]bool, len(mappedRsIDs))
	for _, rsID := range mappedRsIDs {
		mapped[rsID] = true
	}
	var out []*Record
	for _, vm := range snpVars {
		if mapped[vm.Variant.MutSeq] {
			continue
		}
		out = append(out, NewRecord(recordParams{
			SeqType:  variant.SeqDbSNP,
			PatType:  variant.DbSNP,
			Mentions: vm.Mentions,
			Text:     text,
		}))
	}
	return out
}

// FindClosestGeneMention returns the entrez id whose text mention lies
// nearest to any of the variant's mentions, or 0 when there are no gene
// mentions at all.
func FindClosestGeneMention(mentions []variant.Mention, geneMentions map[int][]variant.Mention) int {
	closest := 0
	closestDist := -1
	for _, m := range mentions {
		for entrezID, gms := range geneMentions {
			for _, gm := range gms {
				d := abs(gm.Start - m.Start)
				if e := abs(gm.End - m.End); e < d {
					d = e
				}
				if closestDist < 0 || d < closestDist {
					closestDist = d
					closest = entrezID
				}
			}
		}
	}
	return closest
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package ground

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/psl"
	"github.com/varmine/varmine/internal/store"
	"github.com/varmine/varmine/internal/variant"
)

// shortFixture is a minimal reference set: entrez gene 672 ("BRCA1") with
// one protein MRV and its transcript, CDS behind a 10-base UTR.
func shortFixture() *store.Memory {
	m := store.NewMemory()
	m.Symbols[672] = "BRCA1"
	m.ProtAccs[672] = []string{"NP_000100.1"}
	m.CodingAccs[672] = []string{"NM_000100.1"}
	m.Seqs["NP_000100.1"] = "MRV"
	m.Seqs["NM_000100.1"] = strings.Repeat("G", 10) + "ATGCGTGTA"
	m.CDSStarts["NM_000100.1"] = 10
	m.ProtToSeq["NP_000100.1"] = "NM_000100.1"
	return m
}

func newShortGrounder() (*Grounder, *store.Memory) {
	m := shortFixture()
	// one contiguous alignment of the whole transcript onto chr17
	m.AddAlignment("NM_000100.1", &psl.PSL{
		Strand: "+", QName: "NM_000100.1", QSize: 19,
		TName: "chr17", BlockCount: 1,
		BlockSizes: []int{19}, QStarts: []int{0}, TStarts: []int{41196311},
	})
	return New(m, m, m, m), m
}

func protVarRS() *variant.Description {
	return &variant.Description{
		MutType: variant.Sub, SeqType: variant.SeqProt,
		Start: 1, End: 2, OrigSeq: "R", MutSeq: "S",
	}
}

func TestVerifySequence(t *testing.T) {
	g, m := newShortGrounder()

	assert.True(t, g.VerifySequence("NP_000100.1", protVarRS()))

	wrong := protVarRS()
	wrong.OrigSeq = "K"
	assert.False(t, g.VerifySequence("NP_000100.1", wrong))

	assert.False(t, g.VerifySequence("NP_404404.1", protVarRS()), "unknown accession")

	past := protVarRS().WithInterval(500, 501)
	assert.False(t, g.VerifySequence("NP_000100.1", past), "interval beyond the sequence")

	// matching is case-insensitive on both sides
	m.Seqs["NP_000101.1"] = "mrv"
	assert.True(t, g.VerifySequence("NP_000101.1", protVarRS()))
}

func TestVerifySequenceNoncodingRejected(t *testing.T) {
	g, m := newShortGrounder()
	m.Seqs["NR_046018.2"] = "MRV"
	assert.False(t, g.VerifySequence("NR_046018.2", protVarRS()))
}

func TestVerifySequenceInsertionPolicy(t *testing.T) {
	g, _ := newShortGrounder()
	ins := &variant.Description{
		MutType: variant.Ins, SeqType: variant.SeqProt,
		Start: 1, End: 2, MutSeq: "Q",
	}
	assert.False(t, g.VerifySequence("NP_000100.1", ins), "unverifiable insertions drop by default")

	g.InsertionRV = true
	assert.True(t, g.VerifySequence("NP_000100.1", ins))
}

func TestVerifySequenceDnaUsesCdsOffset(t *testing.T) {
	g, m := newShortGrounder()

	// c.1A: position 0 of the CDS is the A of ATG, ten bases into the transcript
	v := &variant.Description{
		MutType: variant.Sub, SeqType: variant.SeqDNA,
		Start: 0, End: 1, OrigSeq: "A", MutSeq: "G",
	}
	assert.True(t, g.VerifySequence("NM_000100.1", v))

	v.OrigSeq = "G"
	assert.False(t, g.VerifySequence("NM_000100.1", v), "UTR base must not verify a CDS position")

	delete(m.CDSStarts, "NM_000100.1")
	v.OrigSeq = "A"
	assert.False(t, g.VerifySequence("NM_000100.1", v), "no cds start, no verification")
}

func TestCheckVariantAgainstSequence(t *testing.T) {
	g, _ := newShortGrounder()

	assert.Equal(t, []string{"NP_000100.1"}, g.CheckVariantAgainstSequence(protVarRS(), 672))
	assert.Nil(t, g.CheckVariantAgainstSequence(protVarRS(), 999), "unknown gene")

	dna := &variant.Description{
		MutType: variant.Sub, SeqType: variant.SeqDNA,
		Start: 0, End: 1, OrigSeq: "A", MutSeq: "G",
	}
	assert.Equal(t, []string{"NM_000100.1"}, g.CheckVariantAgainstSequence(dna, 672))
}

func TestGroundVariantProtein(t *testing.T) {
	g, m := newShortGrounder()
	// the R->S change projects to chr17:41196324; catalog an rsID there
	m.AddSNP("rs80357382", "chr17", 41196324, 41196325)

	text := "We observed R2S in the proband, previously reported as rs80357382."
	mentions := []variant.Mention{{PatName: "sub prot", Start: 12, End: 15}}
	snpVars := []extract.VariantMentions{{
		Variant: &variant.Description{
			MutType: variant.DbSNP, SeqType: variant.SeqDbSNP,
			OrigSeq: "chr17", MutSeq: "rs80357382",
			Start: 41196324, End: 41196325,
		},
		Mentions: []variant.Mention{{PatName: "rsId", Start: 55, End: 65}},
	}}

	res := g.GroundVariant("var-1", text, protVarRS(), mentions, snpVars, []int{672})

	require.Len(t, res.Grounded, 1)
	require.Nil(t, res.Ungrounded)
	rec := res.Grounded[0]
	assert.Equal(t, "var-1", rec.VarID)
	assert.Equal(t, "BRCA1", rec.GeneSymbol)
	assert.Equal(t, "672", rec.EntrezID)
	assert.Equal(t, "entrez", rec.GeneType)
	assert.Equal(t, "sub", rec.PatType)
	assert.Equal(t, "prot", rec.SeqType)
	assert.Equal(t, "NP_000100.1:p.Arg2Ser", rec.HgvsProt)
	assert.Equal(t, "NM_000100.1:c.4C>A", rec.HgvsCoding)
	assert.Equal(t, "NM_000100.1:r.13C>A", rec.HgvsRna)
	assert.Equal(t, "rs80357382", rec.RsIDs)
	assert.Equal(t, "rs80357382", rec.RsIDsMentioned)
	assert.Equal(t, "R2S", rec.Texts)
	assert.Equal(t, "sub prot", rec.MutPatNames)

	require.Len(t, res.Beds, 1)
	assert.Equal(t, "chr17", res.Beds[0].Chrom)
	assert.Equal(t, 41196324, res.Beds[0].Start)
	assert.Equal(t, 41196325, res.Beds[0].End)
	assert.Equal(t, "var-1", res.Beds[0].Name)

	// the record carries the projected locus
	assert.Equal(t, "chr17", rec.Chrom)
	assert.Equal(t, "41196324", rec.Start)
	assert.Equal(t, "41196325", rec.End)

	assert.Equal(t, []string{"rs80357382"}, res.MappedRsIDs)
}

func TestGroundVariantDna(t *testing.T) {
	g, _ := newShortGrounder()

	v := &variant.Description{
		MutType: variant.Sub, SeqType: variant.SeqDNA,
		Start: 0, End: 1, OrigSeq: "A", MutSeq: "G",
	}
	res := g.GroundVariant("var-2", "c.1A>G", v, nil, nil, []int{672})

	require.Len(t, res.Grounded, 1)
	rec := res.Grounded[0]
	assert.Equal(t, "", rec.HgvsProt)
	assert.Equal(t, "NM_000100.1:c.1A>G", rec.HgvsCoding)
	assert.Equal(t, "NM_000100.1:r.10A>G", rec.HgvsRna)

	require.Len(t, res.Beds, 1)
	assert.Equal(t, 41196321, res.Beds[0].Start)
	assert.Equal(t, "na", rec.RsIDs, "no dbSNP entry at the locus")
}

func TestGroundVariantIntronNeverGrounds(t *testing.T) {
	g, _ := newShortGrounder()

	// verifies against the transcript but has no projectable coordinate
	v := &variant.Description{
		MutType: variant.Splicing, SeqType: variant.SeqIntron,
		Start: 1, End: 2, OrigSeq: "G", MutSeq: "T", Offset: -3,
	}
	mentions := []variant.Mention{{PatName: "splicing", Start: 0, End: 8}}
	res := g.GroundVariant("var-3", "c.2-3G>T!", v, mentions, nil, []int{672})

	assert.Empty(t, res.Grounded)
	require.NotNil(t, res.Ungrounded)
	assert.Equal(t, "intron", res.Ungrounded.SeqType)
	assert.Equal(t, "c.2-3G>T", res.Ungrounded.Texts)
}

func TestGroundVariantNoGeneMatches(t *testing.T) {
	g, _ := newShortGrounder()

	wrong := protVarRS()
	wrong.OrigSeq = "K"
	mentions := []variant.Mention{{PatName: "sub prot", Start: 4, End: 7}}
	res := g.GroundVariant("var-4", "the K2S change", wrong, mentions, nil, []int{672, 999})

	assert.Empty(t, res.Grounded)
	require.NotNil(t, res.Ungrounded)
	assert.Equal(t, "prot", res.Ungrounded.SeqType)
	assert.Equal(t, "K2S", res.Ungrounded.Texts)
}

func TestUnmappedSNPRecords(t *testing.T) {
	text := "linked to rs100 and rs200"
	snpVars := []extract.VariantMentions{
		{
			Variant:  &variant.Description{MutType: variant.DbSNP, SeqType: variant.SeqDbSNP, MutSeq: "rs100"},
			Mentions: []variant.Mention{{PatName: "rsId", Start: 10, End: 15}},
		},
		{
			Variant:  &variant.Description{MutType: variant.DbSNP, SeqType: variant.SeqDbSNP, MutSeq: "rs200"},
			Mentions: []variant.Mention{{PatName: "rsId", Start: 20, End: 25}},
		},
	}

	out := UnmappedSNPRecords(snpVars, []string{"rs100"}, text)
	require.Len(t, out, 1, "mapped rsIDs are already reported on their variant")
	assert.Equal(t, "dbSnp", out[0].SeqType)
	assert.Equal(t, "rs200", out[0].Texts)
}

func TestFindClosestGeneMention(t *testing.T) {
	mentions := []variant.Mention{{Start: 100, End: 105}}
	geneMentions := map[int][]variant.Mention{
		672:  {{Start: 90, End: 95}},
		7157: {{Start: 500, End: 505}},
	}
	assert.Equal(t, 672, FindClosestGeneMention(mentions, geneMentions))
	assert.Equal(t, 0, FindClosestGeneMention(mentions, nil))
}

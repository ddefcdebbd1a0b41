package ground

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/pattern"
	"github.com/varmine/varmine/internal/psl"
	"github.com/varmine/varmine/internal/store"
)

// brca1Fixture models BRCA1 with arginine at residue 71, so the classic
// R71G mention grounds end to end: protein, transcript, and a contiguous
// alignment onto chr17.
func brca1Fixture() *store.Memory {
	m := store.NewMemory()
	m.Symbols[672] = "BRCA1"
	m.ProtAccs[672] = []string{"NP_009225.1"}
	m.CodingAccs[672] = []string{"NM_007294.3"}

	prot := "M" + strings.Repeat("A", 69) + "RV"
	cds := "ATG" + strings.Repeat("GCT", 69) + "CGT" + "GTA"
	m.Seqs["NP_009225.1"] = prot
	m.Seqs["NM_007294.3"] = strings.Repeat("G", 10) + cds
	m.CDSStarts["NM_007294.3"] = 10
	m.ProtToSeq["NP_009225.1"] = "NM_007294.3"

	m.AddAlignment("NM_007294.3", &psl.PSL{
		Strand: "+", QName: "NM_007294.3", QSize: 226,
		TName: "chr17", BlockCount: 1,
		BlockSizes: []int{226}, QStarts: []int{0}, TStarts: []int{41190000},
	})
	return m
}

func newTestPipeline(t *testing.T, m *store.Memory) *Pipeline {
	t.Helper()
	patterns := pattern.Compile(pattern.DefaultRows, nil)
	require.NotEmpty(t, patterns)
	return &Pipeline{
		Extractor: extract.New(patterns, m),
		Grounder:  New(m, m, m, m),
	}
}

func TestGroundDocument(t *testing.T) {
	m := brca1Fixture()
	// R71G projects to chr17:41190220; rs80357382 sits there, rs12345 elsewhere
	m.AddSNP("rs80357382", "chr17", 41190220, 41190221)
	m.AddSNP("rs12345", "chr17", 5000, 5001)
	p := newTestPipeline(t, m)

	text := "The BRCA1 R71G mutation was linked to rs80357382 but not rs12345."
	out := p.GroundDocument(text, []int{672}, nil)

	require.Len(t, out.Grounded, 1)
	rec := out.Grounded[0]
	assert.Equal(t, "BRCA1", rec.GeneSymbol)
	assert.Equal(t, "672", rec.EntrezID)
	assert.Equal(t, "NP_009225.1:p.Arg71Gly", rec.HgvsProt)
	assert.Equal(t, "NM_007294.3:c.211C>G", rec.HgvsCoding)
	assert.Equal(t, "NM_007294.3:r.220C>G", rec.HgvsRna)
	assert.Equal(t, "rs80357382", rec.RsIDs)
	assert.Equal(t, "rs80357382", rec.RsIDsMentioned)
	assert.Len(t, rec.VarID, 36, "uuid per variant")

	require.Len(t, out.Beds, 1)
	assert.Equal(t, "chr17", out.Beds[0].Chrom)
	assert.Equal(t, 41190220, out.Beds[0].Start)
	assert.Equal(t, rec.VarID, out.Beds[0].Name)

	// rs12345 was mentioned but no grounded variant landed on it
	require.Len(t, out.Ungrounded, 1)
	assert.Equal(t, "dbSnp", out.Ungrounded[0].SeqType)
	assert.Equal(t, "rs12345", out.Ungrounded[0].Texts)
}

func TestGroundDocumentUngroundedVariantKeepsItsID(t *testing.T) {
	p := newTestPipeline(t, brca1Fixture())

	// K71G contradicts the reference residue, so it stays text-only
	out := p.GroundDocument("We report the novel K71G change.", []int{672}, nil)

	assert.Empty(t, out.Grounded)
	require.Len(t, out.Ungrounded, 1)
	assert.Equal(t, "prot", out.Ungrounded[0].SeqType)
	assert.Len(t, out.Ungrounded[0].VarID, 36)
	assert.Empty(t, out.Beds)
}

func TestGroundDocumentNoGenes(t *testing.T) {
	p := newTestPipeline(t, brca1Fixture())

	out := p.GroundDocument("The R71G mutation.", nil, nil)
	assert.Empty(t, out.Grounded)
	require.Len(t, out.Ungrounded, 1, "no candidate genes means nothing can ground")
}

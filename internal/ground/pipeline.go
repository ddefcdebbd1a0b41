package ground

import (
	"github.com/google/uuid"
	"github.com/willf/bitset"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/psl"
	"github.com/varmine/varmine/internal/variant"
)

// Pipeline runs the full per-document flow: extract variant descriptions
// from the text, ground each one against the document's candidate genes,
// and sweep up dbSNP mentions no grounded variant accounted for.
type Pipeline struct {
	Extractor *extract.Extractor
	Grounder  *Grounder
}

// DocOutput is everything one document produced.
type DocOutput struct {
	Grounded   []*Record
	Ungrounded []*Record
	Beds       []*psl.Bed
}

// groundedCategories are the buckets GroundDocument walks, in output order.
var groundedCategories = []variant.SeqType{
	variant.SeqProt, variant.SeqDNA, variant.SeqIntron,
}

// GroundDocument extracts and grounds every variant in one document.
// entrezGenes are the candidate genes found in the document by an upstream
// gene tagger; excl marks character spans (such as the gene names
// themselves) that variant matches must not touch. Each variant gets a
// fresh unique id, so records from different documents never collide; the
// caller keeps track of which document produced which output.
func (p *Pipeline) GroundDocument(text string, entrezGenes []int, excl *bitset.BitSet) *DocOutput {
	found := p.Extractor.FindDescriptions(text, excl)
	snpVars := found[variant.SeqDbSNP]

	out := &DocOutput{}
	var mappedRsIDs []string
	for _, cat := range groundedCategories {
		for _, vm := range found[cat] {
			varID := uuid.NewString()
			res := p.Grounder.GroundVariant(varID, text, vm.Variant, vm.Mentions, snpVars, entrezGenes)
			out.Grounded = append(out.Grounded, res.Grounded...)
			if res.Ungrounded != nil {
				res.Ungrounded.VarID = varID
				out.Ungrounded = append(out.Ungrounded, res.Ungrounded)
			}
			out.Beds = append(out.Beds, res.Beds...)
			mappedRsIDs = append(mappedRsIDs, res.MappedRsIDs...)
		}
	}

	out.Ungrounded = append(out.Ungrounded, UnmappedSNPRecords(snpVars, mappedRsIDs, text)...)
	return out
}

package ground

import (
	"fmt"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/psl"
	"github.com/varmine/varmine/internal/variant"
)

// GroundSymbolVariant is the one-shot convenience entry point: given a gene
// symbol and a short protein-level description like "V600E", it returns the
// projected genome intervals plus the CDS and RNA forms of the change.
func (g *Grounder) GroundSymbolVariant(ex *extract.Extractor, geneSym, protDesc string) ([]*psl.Bed, []*variant.Description, []*variant.Description, error) {
	found := ex.FindDescriptions(protDesc, nil)
	protHits := found[variant.SeqProt]
	if len(protHits) == 0 {
		return nil, nil, nil, fmt.Errorf("no protein variant recognized in %q", protDesc)
	}
	v := protHits[0].Variant

	entrezGenes := g.genes.EntrezBySymbol(geneSym)
	if len(entrezGenes) == 0 {
		return nil, nil, nil, fmt.Errorf("unknown gene symbol %q", geneSym)
	}

	var protIDs []string
	for _, entrezID := range entrezGenes {
		protIDs = g.CheckVariantAgainstSequence(v, entrezID)
		if len(protIDs) != 0 {
			break
		}
	}
	if len(protIDs) == 0 {
		return nil, nil, nil, fmt.Errorf("%s %s: wild type not found on any protein of the gene", geneSym, protDesc)
	}

	protVars := rewriteToAccessions(v, protIDs)
	codVars, rnaVars := g.mapper.MapToCodingAndRNA(protVars)
	name := fmt.Sprintf("%s:%s", geneSym, protDesc)
	beds := g.projector.MapToGenome(rnaVars, name)
	return beds, codVars, rnaVars, nil
}

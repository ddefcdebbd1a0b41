package extract

import (
	"github.com/willf/bitset"
	"go.uber.org/zap"

	"github.com/varmine/varmine/internal/pattern"
	"github.com/varmine/varmine/internal/variant"
)

// Categories are the sequence-type buckets the extractor reports. Every
// bucket is present in the result map even when empty.
var Categories = []variant.SeqType{
	variant.SeqProt, variant.SeqDNA, variant.SeqDbSNP, variant.SeqIntron,
}

// VariantMentions pairs one canonical variant with every text mention that
// supports it in the document.
type VariantMentions struct {
	Variant  *variant.Description
	Mentions []variant.Mention
}

// Extractor runs a compiled pattern registry over documents. It holds no
// per-document state and may be reused for any number of documents.
type Extractor struct {
	patterns []*pattern.Pattern
	snps     SNPLocator
	logger   *zap.Logger
}

// New creates an extractor over the given registry. snps resolves literal
// dbSNP identifiers to genome coordinates.
func New(patterns []*pattern.Pattern, snps SNPLocator) *Extractor {
	return &Extractor{
		patterns: patterns,
		snps:     snps,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and warning messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Exclusions builds the set of character positions matches must not touch,
// from half-open [start,end) spans (typically gene-name mentions claimed by
// an upstream tagger).
func Exclusions(spans [][2]int) *bitset.BitSet {
	b := bitset.New(0)
	for _, span := range spans {
		for i := span[0]; i < span[1]; i++ {
			b.Set(uint(i))
		}
	}
	return b
}

// overlapsExclusion reports whether any matched character is excluded.
func overlapsExclusion(m *pattern.Match, excl *bitset.BitSet) bool {
	if excl == nil {
		return false
	}
	for i := m.Start; i < m.End; i++ {
		if excl.Test(uint(i)) {
			return true
		}
	}
	return false
}

// FindDescriptions extracts every variant described in text, grouped by
// sequence-type category. Matches overlapping the exclusion set are
// discarded. Variants with identical canonical names within one category
// merge; all their mentions accumulate under one description. Names never
// merge across categories. Output order within a category follows first
// mention order, so repeated runs over the same text are identical.
func (e *Extractor) FindDescriptions(text string, excl *bitset.BitSet) map[variant.SeqType][]VariantMentions {
	type key struct {
		category variant.SeqType
		name     string
	}
	index := make(map[key]int)
	var found []VariantMentions

	for _, p := range e.patterns {
		for _, m := range p.FindAll(text) {
			if overlapsExclusion(m, excl) {
				e.logger.Debug("match overlaps an excluded position",
					zap.String("pattern", p.Name),
					zap.Int("start", m.Start))
				continue
			}
			v := e.interpret(m)
			if v == nil {
				continue
			}
			mention := variant.Mention{PatName: p.Name, Start: m.Start, End: m.End}

			k := key{category: category(v.SeqType), name: v.Name()}
			if i, ok := index[k]; ok {
				found[i].Mentions = append(found[i].Mentions, mention)
				continue
			}
			index[k] = len(found)
			found = append(found, VariantMentions{Variant: v, Mentions: []variant.Mention{mention}})
			e.logger.Debug("found variant",
				zap.String("name", v.Name()),
				zap.String("pattern", p.Name),
				zap.String("snippet", Snippet(text, m.Start, m.End, 60)))
		}
	}

	out := make(map[variant.SeqType][]VariantMentions, len(Categories))
	for _, c := range Categories {
		out[c] = []VariantMentions{}
	}
	for _, vm := range found {
		c := category(vm.Variant.SeqType)
		out[c] = append(out[c], vm)
	}
	return out
}

// category folds a variant's sequence type into its reporting bucket.
func category(s variant.SeqType) variant.SeqType {
	switch s {
	case variant.SeqProt, variant.SeqDbSNP, variant.SeqIntron:
		return s
	default:
		return variant.SeqDNA
	}
}

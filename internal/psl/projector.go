package psl

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/varmine/varmine/internal/variant"
)

// AlignmentStore fetches transcript-to-genome alignments by accession.
// A missing accession is a normal negative result: empty list, nil error.
type AlignmentStore interface {
	GetAlignments(accession string, stripVersion bool) ([]*PSL, error)
}

// DefaultCacheSize bounds the per-projector alignment cache.
const DefaultCacheSize = 4096

// Projector maps variants placed on transcript sequences to absolute genome
// intervals. Fetched alignments are strand-normalized once and cached per
// version-stripped accession. A projector belongs to one pipeline worker;
// share nothing across workers.
type Projector struct {
	store  AlignmentStore
	cache  *lru.Cache[string, []*PSL]
	logger *zap.Logger
}

// NewProjector creates a projector over the given alignment store.
func NewProjector(store AlignmentStore) *Projector {
	cache, _ := lru.New[string, []*PSL](DefaultCacheSize)
	return &Projector{
		store:  store,
		cache:  cache,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning messages.
func (p *Projector) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Alignments returns the normalized alignments for an accession. The genome
// alignment track is unversioned, so version suffixes are stripped before
// lookup. Results are cached; a miss caches the empty result too.
func (p *Projector) Alignments(accession string) []*PSL {
	key := accession
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[:i]
	}
	if psls, ok := p.cache.Get(key); ok {
		return psls
	}

	psls, err := p.store.GetAlignments(accession, true)
	if err != nil {
		p.logger.Warn("alignment fetch failed",
			zap.String("accession", accession),
			zap.Error(err))
		return nil
	}
	normalized := make([]*PSL, len(psls))
	for i, raw := range psls {
		normalized[i] = raw.NormalizeStrand()
	}
	p.cache.Add(key, normalized)
	return normalized
}

// MapVariant projects one variant interval through a single alignment,
// producing a copy of the variant re-placed on the alignment target.
// Returns nil when the interval falls entirely into alignment gaps.
func MapVariant(v *variant.Description, alignment *PSL) *variant.Description {
	bed := MakeBed(alignment, v.Start, v.End, "")
	if bed == nil {
		return nil
	}
	mapped := v.WithSeqID(bed.Chrom)
	mapped.Start = bed.Start
	mapped.End = bed.End
	return mapped
}

// MapToGenome projects RNA-space variants to genome intervals. Each
// variant's intron offset is applied to the projected interval afterwards.
// A transcript with several alignments uses only the first (warned, not
// fatal); one with none drops out of the projection.
func (p *Projector) MapToGenome(rnaVars []*variant.Description, name string) []*Bed {
	var beds []*Bed
	for _, v := range rnaVars {
		alignments := p.Alignments(v.SeqID)
		if len(alignments) == 0 {
			p.logger.Warn("no genome alignment for transcript, skipping variant",
				zap.String("accession", v.SeqID))
			continue
		}
		if len(alignments) > 1 {
			p.logger.Warn("transcript maps to multiple places, using only first",
				zap.String("accession", v.SeqID),
				zap.Int("alignments", len(alignments)))
		}

		bed := MakeBed(alignments[0], v.Start, v.End, name)
		if bed == nil {
			p.logger.Debug("alignment found but interval did not project",
				zap.String("accession", v.SeqID))
			continue
		}
		bed.Shift(v.Offset)
		beds = append(beds, bed)
	}
	return beds
}

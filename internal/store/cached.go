package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedSequences is a read-through TTL cache in front of a SequenceStore.
// Negative lookups are cached too, so repeated misses on the same accession
// do not hit the backend again within the TTL.
type CachedSequences struct {
	backend SequenceStore
	cache   *gocache.Cache
}

// DefaultSequenceTTL is how long cached sequence lookups stay valid.
const DefaultSequenceTTL = 30 * time.Minute

type seqEntry struct {
	seq string
	ok  bool
}

type cdsEntry struct {
	cdsStart int
	ok       bool
}

type refEntry struct {
	refseq string
	ok     bool
}

// NewCachedSequences wraps a SequenceStore with a TTL cache. A zero ttl
// uses DefaultSequenceTTL.
func NewCachedSequences(backend SequenceStore, ttl time.Duration) *CachedSequences {
	if ttl <= 0 {
		ttl = DefaultSequenceTTL
	}
	return &CachedSequences{
		backend: backend,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedSequences) GetSeq(accession string) (string, bool) {
	key := "seq:" + accession
	if v, found := c.cache.Get(key); found {
		e := v.(seqEntry)
		return e.seq, e.ok
	}
	seq, ok := c.backend.GetSeq(accession)
	c.cache.SetDefault(key, seqEntry{seq: seq, ok: ok})
	return seq, ok
}

func (c *CachedSequences) GetCDSStart(accession string) (int, bool) {
	key := "cds:" + accession
	if v, found := c.cache.Get(key); found {
		e := v.(cdsEntry)
		return e.cdsStart, e.ok
	}
	n, ok := c.backend.GetCDSStart(accession)
	c.cache.SetDefault(key, cdsEntry{cdsStart: n, ok: ok})
	return n, ok
}

func (c *CachedSequences) RefSeqForProtein(protAccession string) (string, bool) {
	key := "ref:" + protAccession
	if v, found := c.cache.Get(key); found {
		e := v.(refEntry)
		return e.refseq, e.ok
	}
	refseq, ok := c.backend.RefSeqForProtein(protAccession)
	c.cache.SetDefault(key, refEntry{refseq: refseq, ok: ok})
	return refseq, ok
}

// Flush empties the cache.
func (c *CachedSequences) Flush() {
	c.cache.Flush()
}

// Package store provides the reference-data backends the grounding pipeline
// consumes: transcript/protein sequences with CDS offsets, transcript-genome
// alignments, the dbSNP locus catalog, and the entrez gene table. Lookup
// misses are normal negative results everywhere; implementations report
// them as false/empty, never as errors.
package store

// SequenceStore serves reference sequences and per-transcript metadata.
type SequenceStore interface {
	// GetSeq returns the sequence for an accession.
	GetSeq(accession string) (string, bool)
	// GetCDSStart returns the 0-based CDS start offset of a transcript.
	GetCDSStart(accession string) (int, bool)
	// RefSeqForProtein resolves a protein accession to its transcript.
	RefSeqForProtein(protAccession string) (string, bool)
}

// SNPStore is the dbSNP catalog, queryable in both directions.
type SNPStore interface {
	// RsIDAtLocus returns the rsID at an exact genomic interval.
	RsIDAtLocus(chrom string, start, end int) (string, bool)
	// LocusByRsID returns the genomic interval of an rsID.
	LocusByRsID(rsID string) (chrom string, start, end int, ok bool)
}

// GeneTable maps entrez gene ids to symbols and candidate accessions.
type GeneTable interface {
	SymbolOf(entrezID int) (string, bool)
	EntrezBySymbol(symbol string) []int
	// ProteinAccessions returns the refseq protein accessions of a gene;
	// empty for non-coding genes.
	ProteinAccessions(entrezID int) []string
	// CodingAccessions returns the refseq transcript accessions of a gene.
	CodingAccessions(entrezID int) []string
}

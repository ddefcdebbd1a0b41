package store

import (
	"fmt"
	"strings"
)

// stripVersion drops a ".N" version suffix from a refseq accession; the
// genome alignment track is unversioned.
func stripVersion(accession string) string {
	if i := strings.IndexByte(accession, '.'); i >= 0 {
		return accession[:i]
	}
	return accession
}

func locusKey(chrom string, start, end int) string {
	return fmt.Sprintf("%s:%d-%d", chrom, start, end)
}

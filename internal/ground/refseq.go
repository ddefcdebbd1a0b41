package ground

import (
	"fmt"
	"strconv"
	"strings"
)

// NewToOldRefseqs expands versioned refseq accessions to every earlier
// version, so sequences reported against stale releases can still be
// looked up. "NM_000325.5" yields versions .1 through .4; a ".1"
// accession has no priors and contributes nothing.
func NewToOldRefseqs(accessions []string) []string {
	var old []string
	for _, acc := range accessions {
		prefix, suffix, found := strings.Cut(acc, ".")
		if !found {
			continue
		}
		version, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		for v := 1; v < version; v++ {
			old = append(old, fmt.Sprintf("%s.%d", prefix, v))
		}
	}
	return old
}

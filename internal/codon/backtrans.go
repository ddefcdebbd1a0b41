package codon

import (
	"sort"
	"strings"
)

// NucChange is a candidate nucleotide edit inside a reference codon window.
// Pos is relative to the start of the window. Old and New hold one base, or
// two bases when the edit spans two adjacent positions.
type NucChange struct {
	Pos int
	Old string
	New string
}

// BackTranslate returns every nucleotide string that translates to the given
// residue sequence. The result size is the product of the synonymous codon
// set sizes, e.g. len(BackTranslate("FVC")) == 2*4*2 == 16.
func BackTranslate(aa string) []string {
	if len(aa) == 0 {
		return nil
	}
	sequences := append([]string(nil), aaToCodons[aa[0]]...)
	for i := 1; i < len(aa); i++ {
		extended := make([]string, 0, len(sequences)*6)
		for _, c := range aaToCodons[aa[i]] {
			for _, seq := range sequences {
				extended = append(extended, seq+c)
			}
		}
		sequences = extended
	}
	return sequences
}

// FirstDiff returns the leading difference between two equal-length
// nucleotide strings. A difference of one base, or of two adjacent bases when
// maxDiff is 2, is reported; anything else returns false. Identical strings
// also return false.
func FirstDiff(a, b string, maxDiff int) (NucChange, bool) {
	if len(a) != len(b) || a == b {
		return NucChange{}, false
	}
	var positions []int
	var oldCh, newCh []byte
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			positions = append(positions, i)
			oldCh = append(oldCh, a[i])
			newCh = append(newCh, b[i])
		}
	}
	switch {
	case len(positions) > maxDiff:
		return NucChange{}, false
	case len(positions) == 1:
		return NucChange{Pos: positions[0], Old: string(oldCh), New: string(newCh)}, true
	case len(positions) == 2 && positions[0]+1 == positions[1]:
		return NucChange{Pos: positions[0], Old: string(oldCh), New: string(newCh)}, true
	}
	return NucChange{}, false
}

// PossibleDNAChanges enumerates the nucleotide edits consistent with an
// observed amino-acid change on a concrete reference codon window. Every
// back-translation of mutAa is compared against origDna; candidates that
// differ by at most one base (or two adjacent bases when allowTwoBp is set)
// are kept. The result is deduplicated and sorted for deterministic output.
func PossibleDNAChanges(origAa, mutAa, origDna string, allowTwoBp bool) []NucChange {
	maxDiff := 1
	if allowTwoBp {
		maxDiff = 2
	}
	origDna = strings.ToUpper(origDna)

	seen := make(map[NucChange]struct{})
	for _, mutDna := range BackTranslate(mutAa) {
		if change, ok := FirstDiff(origDna, mutDna, maxDiff); ok {
			seen[change] = struct{}{}
		}
	}

	changes := make([]NucChange, 0, len(seen))
	for c := range seen {
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Pos != changes[j].Pos {
			return changes[i].Pos < changes[j].Pos
		}
		if changes[i].Old != changes[j].Old {
			return changes[i].Old < changes[j].Old
		}
		return changes[i].New < changes[j].New
	})
	return changes
}

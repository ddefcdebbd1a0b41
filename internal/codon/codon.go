// Package codon implements the standard genetic code: translation,
// back-translation, and the amino-acid naming tables used when parsing
// variant descriptions from text.
package codon

import (
	"sort"
	"strings"
)

// Standard genetic code: DNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// aaToCodons is the inverse of the codon table: every codon set per residue,
// in a fixed order so back-translation output is deterministic.
var aaToCodons = map[byte][]string{}

func init() {
	codons := make([]string, 0, len(codonTable))
	for c := range codonTable {
		codons = append(codons, c)
	}
	// Lexicographic order keeps BackTranslate deterministic across runs.
	sort.Strings(codons)
	for _, c := range codons {
		aaToCodons[codonTable[c]] = append(aaToCodons[codonTable[c]], c)
	}
}

// TranslateCodon translates a DNA codon to its amino acid.
// Returns 'X' for unknown codons and '*' for stop codons.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[strings.ToUpper(codon)]; ok {
		return aa
	}
	return 'X'
}

// Translate translates a DNA sequence to amino acids. A trailing partial
// codon is ignored.
func Translate(dna string) string {
	n := (len(dna) / 3) * 3
	var b strings.Builder
	b.Grow(n / 3)
	for i := 0; i < n; i += 3 {
		b.WriteByte(TranslateCodon(dna[i : i+3]))
	}
	return b.String()
}

// Codons returns all codons encoding the given residue, or nil if the
// residue is unknown.
func Codons(aa byte) []string {
	return aaToCodons[aa]
}

// OneToThree converts single-letter amino acid codes to three-letter codes.
var OneToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'*': "Ter", 'X': "Xaa",
}

// threeToOne maps lower-cased three-letter codes and spelled-out residue
// names to single-letter codes. Source text uses both registers and the
// occasional full name ("glutamic acid"), so keys are lower case.
var threeToOne = map[string]byte{
	"ala": 'A', "cys": 'C', "asp": 'D', "glu": 'E',
	"phe": 'F', "gly": 'G', "his": 'H', "ile": 'I',
	"lys": 'K', "leu": 'L', "met": 'M', "asn": 'N',
	"pro": 'P', "gln": 'Q', "arg": 'R', "ser": 'S',
	"thr": 'T', "val": 'V', "trp": 'W', "tyr": 'Y',
	"ter": '*', "stop": '*', "x": 'X',

	"alanine": 'A', "cysteine": 'C', "aspartate": 'D', "aspartic acid": 'D',
	"glutamate": 'E', "glutamic acid": 'E', "phenylalanine": 'F',
	"glycine": 'G', "histidine": 'H', "isoleucine": 'I', "lysine": 'K',
	"leucine": 'L', "methionine": 'M', "asparagine": 'N', "proline": 'P',
	"glutamine": 'Q', "arginine": 'R', "serine": 'S', "threonine": 'T',
	"valine": 'V', "tryptophan": 'W', "tyrosine": 'Y',

	// frameshift marker seen in informal notation like "Arg71fs"
	"fs": 'X',
}

// ThreeToOne resolves a three-letter or spelled-out residue name to its
// single-letter code. The second return value is false for unknown names.
func ThreeToOne(name string) (byte, bool) {
	aa, ok := threeToOne[strings.ToLower(name)]
	return aa, ok
}

// Complement returns the complement of a single base.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	case 'a':
		return 't'
	case 't':
		return 'a'
	case 'g':
		return 'c'
	case 'c':
		return 'g'
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(seq string) string {
	n := len(seq)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i])
	}
	return string(result)
}

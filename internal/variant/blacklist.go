package variant

import "strings"

// blacklistKey identifies a residue-position-residue triple that looks like
// a protein substitution but is known to be something else.
type blacklistKey struct {
	orig string
	pos  int
	mut  string
}

// blacklist holds triples that collide with gene names, satellite markers,
// cell-line names, and yeast strain names. The cell-line entries follow the
// Cellosaurus short list.
var blacklist = map[blacklistKey]struct{}{}

func init() {
	triples := []blacklistKey{
		{"E", 2, "F"}, // genes
		{"D", 11, "S"}, // satellites
		{"D", 12, "S"}, {"D", 13, "S"}, {"D", 14, "S"},
		{"D", 15, "S"}, {"D", 16, "S"},
		{"A", 84, "M"}, // cell lines
		{"A", 84, "P"}, {"A", 94, "P"},
		{"C", 127, "I"}, {"C", 86, "M"}, {"C", 86, "P"},
		{"L", 283, "R"}, {"H", 96, "V"}, {"L", 5178, "Y"},
		{"L", 89, "M"}, {"L", 89, "P"}, {"L", 929, "S"},
		{"T", 89, "G"}, {"T", 47, "D"}, {"T", 84, "M"}, {"T", 98, "G"},
		{"S", 288, "C"}, // yeast strains
		{"T", 229, "C"},

		// cellosaurus
		{"F", 442, "A"}, {"A", 101, "D"}, {"A", 2, "H"}, {"A", 375, "M"},
		{"A", 375, "P"}, {"A", 529, "L"}, {"A", 6, "L"}, {"B", 10, "R"},
		{"B", 10, "S"}, {"B", 1203, "L"}, {"C", 2, "M"}, {"C", 2, "W"},
		{"B", 16, "V"}, {"B", 35, "M"}, {"B", 3, "D"}, {"B", 46, "M"},
		{"C", 33, "A"}, {"C", 4, "I"}, {"C", 463, "A"}, {"C", 611, "B"},
		{"C", 831, "L"}, {"D", 18, "T"}, {"D", 1, "B"}, {"D", 2, "N"},
		{"D", 422, "T"}, {"D", 8, "G"}, {"F", 36, "E"}, {"F", 36, "P"},
		{"F", 11, "G"}, {"F", 1, "B"}, {"F", 4, "N"}, {"G", 14, "D"},
		{"G", 1, "B"}, {"G", 1, "E"}, {"H", 2, "M"}, {"H", 2, "P"},
		{"H", 48, "N"}, {"H", 4, "M"}, {"H", 4, "S"}, {"H", 69, "V"},
		{"C", 3, "A"}, {"C", 1, "R"}, {"H", 766, "T"}, {"I", 51, "T"},
		{"K", 562, "R"}, {"L", 2, "C"}, {"M", 59, "K"}, {"M", 10, "K"},
		{"M", 10, "T"}, {"M", 14, "K"}, {"M", 22, "K"}, {"M", 24, "K"},
		{"M", 25, "K"}, {"M", 28, "K"}, {"M", 33, "K"}, {"M", 38, "K"},
		{"M", 9, "A"}, {"M", 9, "K"}, {"H", 1755, "A"}, {"H", 295, "A"},
		{"H", 295, "R"}, {"H", 322, "M"}, {"H", 460, "M"}, {"H", 510, "A"},
		{"H", 676, "B"}, {"P", 3, "D"}, {"R", 201, "C"}, {"R", 2, "C"},
		{"S", 16, "Y"}, {"S", 594, "S"}, {"N", 303, "L"}, {"N", 1003, "L"},
		{"N", 2307, "L"}, {"N", 1108, "L"}, {"T", 27, "A"}, {"T", 88, "M"},
		{"H", 5, "D"}, {"C", 1, "A"}, {"C", 1, "D"}, {"C", 2, "D"},
		{"C", 2, "G"}, {"C", 2, "H"}, {"C", 2, "N"}, {"V", 79, "B"},
		{"V", 9, "P"}, {"V", 10, "M"}, {"V", 9, "M"}, {"X", 16, "C"},
	}
	for _, t := range triples {
		blacklist[t] = struct{}{}
	}
}

// Blacklisted reports whether a candidate substitution like "T47D" is a known
// false positive. pos is the 1-based position as written in the text.
// Beyond the fixed triple set, low-position H/C substitutions that read like
// chemical formulas (H2A, C5H) are rejected.
func Blacklisted(orig string, pos int, mut string) bool {
	if _, ok := blacklist[blacklistKey{orig, pos, mut}]; ok {
		return true
	}
	if orig == "H" && pos < 80 && strings.Contains("ACDE", mut) && mut != "" {
		return true
	}
	if orig == "C" && pos < 80 && mut == "H" {
		return true
	}
	return false
}

// BlacklistSize returns the number of fixed blacklist triples.
func BlacklistSize() int {
	return len(blacklist)
}

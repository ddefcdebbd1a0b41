package pattern

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultRows is the built-in pattern table. It covers the notations this
// pipeline is expected to recognize: one-letter and spelled-out protein
// substitutions, HGVS p./c./g. forms, deletions, insertions, duplications,
// splice-site substitutions, and literal dbSNP identifiers. An external
// table loaded with ReadTable replaces it entirely.
var DefaultRows = []Row{
	// protein substitutions
	{"prot", "sub", "True", "protSubShort", `{sep}{origAaShort}{pos}{mutAaShort}`},
	{"prot", "sub", "True", "protSubHgvs", `{sep}p\.\(?{origAaShort}{pos}{mutAaShort}{fs}`},
	{"prot", "sub", "True", "protSubLong", `{sep}{origAaLong}{sp}{pos}{sp}{rightArrow}{sp}{mutAaLong}`},
	{"prot", "sub", "True", "protSubLongTo", `{sep}{origAaLong}{pos}{mutAaLong}`},

	// protein deletions and insertions
	{"prot", "del", "True", "protDelHgvs", `{sep}p\.\(?{origAaShort}{pos}del`},
	{"prot", "del", "True", "protDelRange", `{sep}{origAasShort}{fromPos}-{toPos}del`},
	{"prot", "ins", "True", "protInsHgvs", `{sep}p\.\(?{fromPos}_{toPos}ins{mutAasShort}`},

	// coding DNA
	{"dna", "sub", "True", "dnaSubCoding", `{sep}c\.{pos}{origDna}{rightArrow}{mutDna}`},
	{"dna", "sub", "True", "dnaSubGenomic", `{sep}g\.{pos}{origDna}{rightArrow}{mutDna}`},
	{"dna", "del", "True", "dnaDel", `{sep}c\.{pos}del{origDna}`},
	{"dna", "del", "True", "dnaDelRange", `{sep}c\.{fromPos}_{toPos}del{origDnas}`},
	{"dna", "ins", "True", "dnaIns", `{sep}c\.{fromPos}_{toPos}ins{dnas}`},
	{"dna", "dup", "True", "dnaDup", `{sep}c\.{pos}dup{origDna}`},
	{"dna", "dup", "True", "dnaDupRange", `{sep}c\.{fromPos}_{toPos}dup{origDnas}`},

	// splice-site substitutions, intron-relative
	{"intron", "splicing", "False", "dnaSplicing", `{sep}c\.{pos}{plusMinus}{offset}{origDna}{rightArrow}{mutDna}`},

	// dbSNP identifiers
	{"dbSnp", "dbSnp", "True", "rsId", `{sep}rs{rsId}`},
}

// ReadTable parses a tab-separated pattern table with a header of
// seqType, mutType, isCoding, patName, pat. Lines starting with '#' are
// comments.
func ReadTable(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []Row
	header := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if header {
			header = false
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, fmt.Errorf("line %d: expected 5 tab-separated fields, got %d", lineNo, len(fields))
		}
		rows = append(rows, Row{
			SeqType:  fields[0],
			MutType:  fields[1],
			IsCoding: fields[2],
			PatName:  fields[3],
			Template: fields[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pattern table: %w", err)
	}
	return rows, nil
}

// ReadTableFile reads a pattern table from disk.
func ReadTableFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pattern table: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

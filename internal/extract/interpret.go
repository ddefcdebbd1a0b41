// Package extract turns pattern matches into canonical variant
// descriptions, deduplicates repeated observations of the same mutation,
// and groups the results by sequence-type category.
package extract

import (
	"strconv"
	"strings"

	"github.com/varmine/varmine/internal/codon"
	"github.com/varmine/varmine/internal/pattern"
	"github.com/varmine/varmine/internal/variant"
)

// SNPLocator resolves a literal dbSNP identifier to its genomic locus.
// A lookup miss is a normal negative result, not an error.
type SNPLocator interface {
	LocusByRsID(rsID string) (chrom string, start, end int, ok bool)
}

// interpret dispatches a match to the parser for its mutation kind. The
// result is nil when the match is unusable: blacklisted substitutions,
// unresolvable rsIDs, and malformed intervals are all silently discarded.
func (e *Extractor) interpret(m *pattern.Match) *variant.Description {
	var d *variant.Description
	switch m.Pattern.MutType {
	case variant.Sub:
		d = interpretSub(m)
	case variant.Del:
		d = interpretDel(m)
	case variant.Ins:
		d = interpretIns(m)
	case variant.Dup:
		d = interpretDup(m)
	case variant.Splicing:
		d = interpretSplicing(m)
	case variant.DbSNP:
		d = e.interpretRsID(m)
	default:
		return nil
	}
	if d != nil && !d.Valid() {
		return nil
	}
	return d
}

// intronOffset reads the signed intron-relative offset for patterns whose
// coordinates are not coding. Coding patterns always report offset 0.
func intronOffset(m *pattern.Match) int {
	if m.Pattern.IsCoding {
		return 0
	}
	off := atoi(m.Group("offset"))
	switch m.Group("plusMinus") {
	case "+":
		return off
	case "-":
		return -off
	}
	return 0
}

// origFromGroups resolves the wild-type sequence from whichever named groups
// the pattern supplies, normalized to upper case. Spelled-out residue names
// go through the three-to-one table.
func origFromGroups(m *pattern.Match) string {
	if s := m.Group("origDnas"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("origDna"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("origAasShort"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("origAaShort"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("origAaLong"); s != "" {
		if aa, ok := codon.ThreeToOne(s); ok {
			return string(aa)
		}
	}
	if s := m.Group("origAasLong"); s != "" {
		if aa, ok := codon.ThreeToOne(s); ok {
			return string(aa)
		}
	}
	return ""
}

// mutFromGroups resolves the mutant sequence, normalized to upper case.
func mutFromGroups(m *pattern.Match) string {
	if s := m.Group("mutDna"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("dnas"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("mutAasShort"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("mutAaShort"); s != "" {
		return strings.ToUpper(s)
	}
	if s := m.Group("mutAaLong"); s != "" {
		if aa, ok := codon.ThreeToOne(s); ok {
			return string(aa)
		}
	}
	if s := m.Group("mutAasLong"); s != "" {
		if aa, ok := codon.ThreeToOne(s); ok {
			return string(aa)
		}
	}
	return ""
}

// interpretSub builds a substitution variant. Positions in text are 1-based;
// the stored interval is 0-based half-open. Single-position candidates run
// the blacklist gate before a description is created.
func interpretSub(m *pattern.Match) *variant.Description {
	origSeq := origFromGroups(m)
	mutSeq := mutFromGroups(m)

	var start, end int
	if from := m.Group("fromPos"); from != "" {
		start = atoi(from)
		if to := m.Group("toPos"); to != "" {
			end = atoi(to)
		} else {
			end = start + 1
		}
	} else {
		pos := atoi(m.Group("pos"))
		if variant.Blacklisted(origSeq, pos, mutSeq) {
			return nil
		}
		start = pos
		end = pos + 1
	}

	return &variant.Description{
		MutType: variant.Sub,
		SeqType: m.Pattern.SeqType,
		Start:   start - 1,
		End:     end - 1,
		OrigSeq: origSeq,
		MutSeq:  mutSeq,
		Offset:  intronOffset(m),
		OrigStr: trimMatch(m.Text),
	}
}

// interpretDel builds a deletion. An explicit to-position is inclusive in
// the source notation and is widened by one to the half-open form.
func interpretDel(m *pattern.Match) *variant.Description {
	var start, end int
	if from := m.Group("fromPos"); from != "" {
		start = atoi(from)
		end = start + 1
		if to := m.Group("toPos"); to != "" {
			end = atoi(to) + 1
		}
	} else {
		start = atoi(m.Group("pos"))
		end = start + 1
	}

	return &variant.Description{
		MutType: variant.Del,
		SeqType: m.Pattern.SeqType,
		Start:   start - 1,
		End:     end - 1,
		OrigSeq: origFromGroups(m),
		Offset:  intronOffset(m),
		OrigStr: trimMatch(m.Text),
	}
}

// interpretIns builds an insertion; there is no wild-type sequence to carry.
func interpretIns(m *pattern.Match) *variant.Description {
	var start, end int
	if from := m.Group("fromPos"); from != "" {
		start = atoi(from)
		end = start + 1
		if to := m.Group("toPos"); to != "" {
			end = atoi(to)
		}
	} else {
		start = atoi(m.Group("pos"))
		end = start + 1
	}

	return &variant.Description{
		MutType: variant.Ins,
		SeqType: m.Pattern.SeqType,
		Start:   start - 1,
		End:     end - 1,
		MutSeq:  mutFromGroups(m),
		Offset:  intronOffset(m),
		OrigStr: trimMatch(m.Text),
	}
}

// interpretDup builds a duplication: the mutant sequence is the wild type
// concatenated with itself. From/to ranges that come up one short of the
// duplicated length are a common informal notation and are auto-extended.
func interpretDup(m *pattern.Match) *variant.Description {
	origSeq := origFromGroups(m)
	if origSeq == "" {
		return nil
	}

	var start, end int
	if pos := m.Group("pos"); pos != "" {
		start = atoi(pos)
		end = start + 1
	} else {
		start = atoi(m.Group("fromPos"))
		end = atoi(m.Group("toPos"))
		if end-start != len(origSeq) && end-start == len(origSeq)-1 {
			end++
		}
	}

	return &variant.Description{
		MutType: variant.Dup,
		SeqType: m.Pattern.SeqType,
		Start:   start - 1,
		End:     end - 1,
		OrigSeq: origSeq,
		MutSeq:  origSeq + origSeq,
		Offset:  intronOffset(m),
		OrigStr: trimMatch(m.Text),
	}
}

// interpretSplicing builds a single-nucleotide substitution whose position
// is intron-relative: the signed offset carries the distance from the coding
// position named in the text.
func interpretSplicing(m *pattern.Match) *variant.Description {
	start := atoi(m.Group("pos"))
	offset := atoi(m.Group("offset"))
	if m.Group("plusMinus") == "-" {
		offset = -offset
	}

	return &variant.Description{
		MutType: variant.Splicing,
		SeqType: m.Pattern.SeqType,
		Start:   start - 1,
		End:     start,
		OrigSeq: strings.ToUpper(m.Group("origDna")),
		MutSeq:  strings.ToUpper(m.Group("mutDna")),
		Offset:  offset,
		OrigStr: trimMatch(m.Text),
	}
}

// interpretRsID resolves a literal dbSNP identifier to chromosome
// coordinates. An unknown rsID is not an error, just unusable.
func (e *Extractor) interpretRsID(m *pattern.Match) *variant.Description {
	rsID := "rs" + m.Group("rsId")
	chrom, start, end, ok := e.snps.LocusByRsID(rsID)
	if !ok {
		return nil
	}
	return &variant.Description{
		MutType: variant.DbSNP,
		SeqType: variant.SeqDbSNP,
		Start:   start,
		End:     end,
		OrigSeq: chrom,
		MutSeq:  rsID,
		OrigStr: trimMatch(m.Text),
	}
}

// trimMatch strips the separator punctuation a match span includes.
func trimMatch(s string) string {
	return strings.Trim(s, " \t\n\r()[]-;,.:'\"/")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

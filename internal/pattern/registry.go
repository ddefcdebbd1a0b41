// Package pattern compiles the parametrized mutation-pattern table into
// executable matchers. Each table row names a sequence type, a mutation
// kind, and a template whose placeholders ({pos}, {origAaShort}, ...) expand
// to named capture groups. The compiled registry is immutable and safe to
// reuse across any number of documents.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/varmine/varmine/internal/variant"
)

// placeholders is the catalog of template tokens. Amino-acid classes cover
// the one-letter and spelled-out alphabets; the mutant classes tolerate the
// informal "fs" frameshift marker and the "*" stop marker. The arrow token
// accepts the Unicode arrow, ASCII renderings, an HTML entity, and the OCR
// confusions seen in full-text sources.
var placeholders = map[string]string{
	"sep":       `(?:^|[:;\s\(\[\'\"/,\-])`,
	"fromPos":   `(?P<fromPos>[1-9][0-9]*)`,
	"toPos":     `(?P<toPos>[1-9][0-9]*)`,
	"pos":       `(?P<pos>[1-9][0-9]*)`,
	"offset":    `(?P<offset>[1-9][0-9]*)`,
	"plusMinus": `(?P<plusMinus>[+-])`,
	"rsId":      `(?P<rsId>[1-9][0-9]*)`,

	"origAaShort":  `(?P<origAaShort>[CISQMNPKDTFAGHLRWVEYX])`,
	"origAasShort": `(?P<origAasShort>[CISQMNPKDTFAGHLRWVEYX]+)`,
	"origAaLong":   `(?P<origAaLong>` + longAa + `)`,
	"origAasLong":  `(?P<origAasLong>(?:` + longAa + `)+)`,
	"mutAaShort":   `(?P<mutAaShort>[fCISQMNPKDTFAGHLRWVEYX*])`,
	"mutAasShort":  `(?P<mutAasShort>[fCISQMNPKDTFAGHLRWVEYX*]+)`,
	"mutAaLong":    `(?P<mutAaLong>` + longAa + `|FS)`,
	"mutAasLong":   `(?P<mutAasLong>(?:` + longAa + `|FS)+)`,

	"dna":      `(?P<dna>[actgACTG])`,
	"dnas":     `(?P<dnas>[actgACTG]+)`,
	"origDna":  `(?P<origDna>[actgACTG])`,
	"origDnas": `(?P<origDnas>[actgACTG]+)`,
	"mutDna":   `(?P<mutDna>[actgACTGfs])`,

	"fs":         `(?P<fs>(?:fs\*?[0-9]*)|fs\*|fs|)?`,
	"intron":     `(?P<intron>[1-9][0-9]*)`,
	"rightArrow": `(?:-*>|\x{2192}|-?&gt;|r|R|4|\x{FB02})`,
	"sp":         `(?:\x{00a0}| |)`,
}

const longAa = `CYS|ILE|SER|GLN|MET|ASN|PRO|LYS|ASP|THR|PHE|ALA|GLY|HIS|LEU|ARG|TRP|VAL|GLU|TYR|TER|` +
	`GLUTAMINE|GLUTAMIC ACID|LEUCINE|VALINE|ISOLEUCINE|LYSINE|ALANINE|GLYCINE|ASPARTATE|` +
	`METHIONINE|THREONINE|HISTIDINE|ASPARTIC ACID|ARGININE|ASPARAGINE|TRYPTOPHAN|PROLINE|` +
	`PHENYLALANINE|CYSTEINE|SERINE|GLUTAMATE|TYROSINE|STOP|X`

// groupSchema declares, per mutation kind, which named groups a compiled
// pattern must supply. Each inner slice is a set of alternatives; at least
// one member of every slice must appear in the pattern. Validating here
// keeps the match interpreter free of presence checks at match time.
var groupSchema = map[variant.MutType][][]string{
	variant.Sub: {
		{"pos", "fromPos"},
		{"origAaShort", "origAaLong", "origDna"},
		{"mutAaShort", "mutAaLong", "mutDna"},
	},
	variant.Del: {
		{"pos", "fromPos"},
		{"origAasShort", "origAasLong", "origDnas", "origDna", "origAaShort", "origAaLong"},
	},
	variant.Ins: {
		{"pos", "fromPos"},
		{"mutAasShort", "mutAasLong", "dnas"},
	},
	variant.Dup: {
		{"pos", "fromPos"},
		{"origDna", "origDnas"},
	},
	variant.Splicing: {
		{"pos"}, {"plusMinus"}, {"offset"}, {"origDna"}, {"mutDna"},
	},
	variant.DbSNP: {
		{"rsId"},
	},
}

// Row is one entry of the pattern table before compilation.
type Row struct {
	SeqType  string
	MutType  string
	IsCoding string
	PatName  string
	Template string
}

// Pattern is a compiled matcher with its semantic tags.
type Pattern struct {
	SeqType  variant.SeqType
	MutType  variant.MutType
	IsCoding bool
	Name     string
	Re       *regexp.Regexp

	groups map[string]int // named group -> submatch index
}

// HasGroup reports whether the pattern declares the named capture group.
func (p *Pattern) HasGroup(name string) bool {
	_, ok := p.groups[name]
	return ok
}

// Match is one occurrence of a pattern in a document. Start and End are
// 0-based offsets into the document text; the full match (including the
// leading separator) is spanned.
type Match struct {
	Pattern *Pattern
	Start   int
	End     int
	Text    string

	groups map[string]string
}

// Group returns the captured text for a named group, or "" if the group did
// not participate in the match.
func (m *Match) Group(name string) string {
	return m.groups[name]
}

// FindAll returns every match of the pattern in text, in document order.
func (p *Pattern) FindAll(text string) []*Match {
	idxs := p.Re.FindAllStringSubmatchIndex(text, -1)
	if idxs == nil {
		return nil
	}
	matches := make([]*Match, 0, len(idxs))
	for _, loc := range idxs {
		m := &Match{
			Pattern: p,
			Start:   loc[0],
			End:     loc[1],
			Text:    text[loc[0]:loc[1]],
			groups:  make(map[string]string, len(p.groups)),
		}
		for name, gi := range p.groups {
			s, e := loc[2*gi], loc[2*gi+1]
			if s >= 0 && e > s {
				m.groups[name] = text[s:e]
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// Compile expands and compiles a pattern table. Rows with an unrecognized
// isCoding value, an unresolvable placeholder, or a group set that does not
// satisfy the mutation kind's schema are skipped with a warning; bad
// configuration never aborts the registry.
func Compile(rows []Row, logger *zap.Logger) []*Pattern {
	if logger == nil {
		logger = zap.NewNop()
	}
	var patterns []*Pattern
	for _, row := range rows {
		p, err := compileRow(row)
		if err != nil {
			logger.Warn("skipping pattern row",
				zap.String("patName", row.PatName),
				zap.Error(err))
			continue
		}
		patterns = append(patterns, p)
	}
	logger.Info("compiled pattern registry", zap.Int("patterns", len(patterns)))
	return patterns
}

func compileRow(row Row) (*Pattern, error) {
	var isCoding bool
	switch row.IsCoding {
	case "True", "true":
		isCoding = true
	case "False", "false":
		isCoding = false
	default:
		return nil, fmt.Errorf("invalid isCoding value %q", row.IsCoding)
	}

	expanded, err := expand(row.Template)
	if err != nil {
		return nil, err
	}
	// Spelled-out residue names appear in both cases in source text.
	if strings.Contains(row.Template, "Long}") {
		expanded = "(?i)" + expanded
	}
	re, err := regexp.Compile(expanded)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expanded, err)
	}

	name := row.PatName
	if name == "" {
		name = row.Template
	}
	p := &Pattern{
		SeqType:  variant.SeqType(row.SeqType),
		MutType:  variant.MutType(row.MutType),
		IsCoding: isCoding,
		Name:     name,
		Re:       re,
		groups:   make(map[string]int),
	}
	for i, g := range re.SubexpNames() {
		if g != "" {
			p.groups[g] = i
		}
	}

	schema, ok := groupSchema[p.MutType]
	if !ok {
		return nil, fmt.Errorf("unknown mutType %q", row.MutType)
	}
	for _, alternatives := range schema {
		if !anyGroup(p, alternatives) {
			return nil, fmt.Errorf("pattern %s lacks a group from %v", name, alternatives)
		}
	}
	return p, nil
}

func anyGroup(p *Pattern, names []string) bool {
	for _, n := range names {
		if p.HasGroup(n) {
			return true
		}
	}
	return false
}

// expand substitutes every {placeholder} in a template. Unknown placeholders
// are configuration errors.
func expand(template string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(template); {
		c := template[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", template)
		}
		name := template[i+1 : i+end]
		repl, ok := placeholders[name]
		if !ok {
			return "", fmt.Errorf("unknown placeholder {%s}", name)
		}
		b.WriteString(repl)
		i += end + 1
	}
	return b.String(), nil
}

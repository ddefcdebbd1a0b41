package ground

import (
	"sort"
	"strconv"
	"strings"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/psl"
	"github.com/varmine/varmine/internal/variant"
)

// snippetContext is how much surrounding text an output snippet keeps on
// each side of a mention.
const snippetContext = 150

// Fields are the output columns of a resolved variant, in file order.
var Fields = []string{
	"chrom",
	"start",
	"end",
	"offset",
	"varId",
	"inDb",
	"patType",
	"hgvsProt",
	"hgvsCoding",
	"hgvsRna",
	"comment",
	"rsIds",
	"protId",
	"texts",
	"rsIdsMentioned",
	"dbSnpStarts",
	"dbSnpEnds",
	"geneSymbol",
	"geneType",
	"entrezId",
	"geneStarts",
	"geneEnds",
	"seqType",
	"mutPatNames",
	"mutStarts",
	"mutEnds",
	"mutSnippets",
	"geneSnippets",
	"dbSnpSnippets",
}

// Record is one fully resolved variant with the text evidence that supports
// it: the final output of the pipeline. Every field is already serialized;
// multi-valued fields join their parts with "|" or ",".
type Record struct {
	Chrom          string
	Start          string
	End            string
	Offset         string
	VarID          string
	InDb           string
	PatType        string
	HgvsProt       string
	HgvsCoding     string
	HgvsRna        string
	Comment        string
	RsIDs          string
	ProtID         string
	Texts          string
	RsIDsMentioned string
	DbSnpStarts    string
	DbSnpEnds      string
	GeneSymbol     string
	GeneType       string
	EntrezID       string
	GeneStarts     string
	GeneEnds       string
	SeqType        string
	MutPatNames    string
	MutStarts      string
	MutEnds        string
	MutSnippets    string
	GeneSnippets   string
	DbSnpSnippets  string
}

// Row serializes the record in Fields order.
func (r *Record) Row() []string {
	return []string{
		r.Chrom,
		r.Start,
		r.End,
		r.Offset,
		r.VarID,
		r.InDb,
		r.PatType,
		r.HgvsProt,
		r.HgvsCoding,
		r.HgvsRna,
		r.Comment,
		r.RsIDs,
		r.ProtID,
		r.Texts,
		r.RsIDsMentioned,
		r.DbSnpStarts,
		r.DbSnpEnds,
		r.GeneSymbol,
		r.GeneType,
		r.EntrezID,
		r.GeneStarts,
		r.GeneEnds,
		r.SeqType,
		r.MutPatNames,
		r.MutStarts,
		r.MutEnds,
		r.MutSnippets,
		r.GeneSnippets,
		r.DbSnpSnippets,
	}
}

// mentionEvidence is the tabular form of a mention list: parallel slices of
// positions, pattern names, snippets, and the matched texts.
type mentionEvidence struct {
	starts   []string
	ends     []string
	patNames []string
	snippets []string
	texts    []string
}

func mentionsFields(mentions []variant.Mention, text string) mentionEvidence {
	var ev mentionEvidence
	for _, m := range mentions {
		ev.starts = append(ev.starts, strconv.Itoa(m.Start))
		ev.ends = append(ev.ends, strconv.Itoa(m.End))
		ev.patNames = append(ev.patNames, m.PatName)
		snip := extract.Snippet(text, m.Start, m.End, snippetContext)
		ev.snippets = append(ev.snippets, strings.ReplaceAll(snip, "|", " "))
		ev.texts = append(ev.texts, strings.Trim(text[m.Start:m.End], "() -;,."))
	}
	return ev
}

// uniq keeps the first occurrence of each value, preserving order.
func uniq(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func joinNames(vars []*variant.Description) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name()
	}
	return strings.Join(names, "|")
}

// recordParams carries everything NewRecord assembles into one output row.
type recordParams struct {
	VarID        string
	ProtVars     []*variant.Description
	CodVars      []*variant.Description
	RnaVars      []*variant.Description
	Comment      string
	EntrezID     string
	GeneSymbol   string
	RsIDs        []string
	DbSnpByRsID  map[string][]variant.Mention
	Mentions     []variant.Mention
	Text         string
	SeqType      variant.SeqType
	PatType      variant.MutType
	GenomeCoords *psl.Bed
}

// NewRecord assembles one output record from the grounded coordinate forms
// of a variant and its supporting mentions.
func NewRecord(p recordParams) *Record {
	r := &Record{
		VarID:      p.VarID,
		PatType:    string(p.PatType),
		SeqType:    string(p.SeqType),
		GeneSymbol: p.GeneSymbol,
		EntrezID:   p.EntrezID,
		GeneType:   "entrez",
		HgvsProt:   joinNames(p.ProtVars),
		HgvsCoding: joinNames(p.CodVars),
		HgvsRna:    joinNames(p.RnaVars),
		Comment:    p.Comment,
		RsIDs:      strings.Join(p.RsIDs, "|"),
	}

	if p.GenomeCoords != nil {
		r.Chrom = p.GenomeCoords.Chrom
		r.Start = strconv.Itoa(p.GenomeCoords.Start)
		r.End = strconv.Itoa(p.GenomeCoords.End)
	}

	// For each mentioned rsId, concatenate its mention evidence; the
	// rsIdsMentioned column repeats the id once per mention, aligned with
	// the starts and ends.
	rsIDs := make([]string, 0, len(p.DbSnpByRsID))
	for rsID := range p.DbSnpByRsID {
		rsIDs = append(rsIDs, rsID)
	}
	sort.Strings(rsIDs)
	var snpStarts, snpEnds, snpSnips, mentionedRsIDs []string
	for _, rsID := range rsIDs {
		ev := mentionsFields(p.DbSnpByRsID[rsID], p.Text)
		snpStarts = append(snpStarts, ev.starts...)
		snpEnds = append(snpEnds, ev.ends...)
		snpSnips = append(snpSnips, ev.snippets...)
		for range p.DbSnpByRsID[rsID] {
			mentionedRsIDs = append(mentionedRsIDs, rsID)
		}
	}
	r.DbSnpStarts = strings.Join(snpStarts, ",")
	r.DbSnpEnds = strings.Join(snpEnds, ",")
	r.DbSnpSnippets = strings.Join(snpSnips, "|")
	r.RsIDsMentioned = strings.Join(mentionedRsIDs, "|")

	ev := mentionsFields(p.Mentions, p.Text)
	r.MutStarts = strings.Join(ev.starts, ",")
	r.MutEnds = strings.Join(ev.ends, ",")
	r.MutPatNames = strings.Join(ev.patNames, "|")
	r.MutSnippets = strings.Join(ev.snippets, "|")
	r.Texts = strings.Join(uniq(ev.texts), "|")
	return r
}

// newUngroundedRecord builds the placeholder record for a variant that no
// candidate gene could anchor. It carries the text evidence but no
// coordinates.
func newUngroundedRecord(seqType variant.SeqType, mentions []variant.Mention, text string) *Record {
	return NewRecord(recordParams{
		SeqType:  seqType,
		PatType:  variant.Sub,
		Mentions: mentions,
		Text:     text,
	})
}

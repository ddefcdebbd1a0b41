package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// LoadEntrezTable reads a tab-separated gene table with a header of
// entrezId, sym, refseqIds, refseqProtIds into the store. Accession columns
// hold comma-separated lists; an empty column marks a non-coding gene.
func LoadEntrezTable(r io.Reader, into *Memory) error {
	return readTSV(r, []string{"entrezId", "sym", "refseqIds", "refseqProtIds"}, func(fields map[string]string) error {
		entrezID, err := strconv.Atoi(fields["entrezId"])
		if err != nil {
			return fmt.Errorf("bad entrezId %q: %w", fields["entrezId"], err)
		}
		into.Symbols[entrezID] = fields["sym"]
		if ids := fields["refseqIds"]; ids != "" {
			into.CodingAccs[entrezID] = strings.Split(ids, ",")
		}
		if ids := fields["refseqProtIds"]; ids != "" {
			into.ProtAccs[entrezID] = strings.Split(ids, ",")
		}
		return nil
	})
}

// LoadRefseqInfo reads a tab-separated table with a header of
// refProt, refSeq, cdsStart into the store. CDS starts are 1-based in the
// source (NCBI convention) and stored 0-based.
func LoadRefseqInfo(r io.Reader, into *Memory) error {
	return readTSV(r, []string{"refProt", "refSeq", "cdsStart"}, func(fields map[string]string) error {
		cdsStart, err := strconv.Atoi(fields["cdsStart"])
		if err != nil {
			return fmt.Errorf("bad cdsStart %q: %w", fields["cdsStart"], err)
		}
		into.ProtToSeq[fields["refProt"]] = fields["refSeq"]
		into.CDSStarts[fields["refSeq"]] = cdsStart - 1
		return nil
	})
}

// LoadEntrezTableFile and LoadRefseqInfoFile are the disk-path variants.
func LoadEntrezTableFile(path string, into *Memory) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gene table: %w", err)
	}
	defer f.Close()
	return LoadEntrezTable(f, into)
}

func LoadRefseqInfoFile(path string, into *Memory) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open refseq info: %w", err)
	}
	defer f.Close()
	return LoadRefseqInfo(f, into)
}

// readTSV parses a header-led tab-separated table, calling row for each
// data line with a column-name → value map. Comment lines start with '#'.
func readTSV(r io.Reader, required []string, row func(map[string]string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			for _, want := range required {
				if !slices.Contains(header, want) {
					return fmt.Errorf("missing column %q in header", want)
				}
			}
			continue
		}
		m := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				m[name] = fields[i]
			}
		}
		if err := row(m); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/ground"
	"github.com/varmine/varmine/internal/output"
	"github.com/varmine/varmine/internal/store"
)

func newGroundCmd() *cobra.Command {
	var (
		refDB       string
		snpDB       string
		geneTable   string
		patternFile string
		outputFile  string
		bedFile     string
		workers     int
		insertionRV bool
		twoBp       bool
		shuffle     bool
	)

	cmd := &cobra.Command{
		Use:   "ground <documents-file>",
		Short: "Extract variants and resolve them to genome coordinates",
		Long: `Run the full pipeline over a document set: extract variant descriptions,
verify each one against the reference sequences of the document's candidate
genes, and project the verified ones onto the genome.

The input is tab-separated with three columns per line:
docId, comma-separated entrez gene ids, and the document text.`,
		Example: `  varmine ground --ref-db refs.duckdb --gene-table genes.tsv docs.tsv
  varmine ground --ref-db refs.duckdb --gene-table genes.tsv --snp-db dbsnp.sqlite --bed out.bed docs.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := groundOptions{
				input:       args[0],
				refDB:       refDB,
				snpDB:       snpDB,
				geneTable:   geneTable,
				patternFile: patternFile,
				outputFile:  outputFile,
				bedFile:     bedFile,
				workers:     workers,
				insertionRV: insertionRV,
				twoBp:       twoBp,
				shuffle:     shuffle,
			}
			return runGround(opts)
		},
	}

	cmd.Flags().StringVar(&refDB, "ref-db", "", "DuckDB reference database with sequences and alignments (required)")
	cmd.Flags().StringVar(&geneTable, "gene-table", "", "entrez gene table, tab-separated (required)")
	cmd.Flags().StringVar(&snpDB, "snp-db", "", "SQLite dbSNP catalog")
	cmd.Flags().StringVar(&patternFile, "patterns", "", "pattern table file (default: built-in table)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&bedFile, "bed", "", "also write projected genome intervals to this BED file")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default: number of CPUs)")
	cmd.Flags().BoolVar(&insertionRV, "insertion-rv", false, "map uncheckable insertions onto every candidate gene instead of dropping them")
	cmd.Flags().BoolVar(&twoBp, "two-bp", false, "also accept protein changes needing two adjacent nucleotide substitutions")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle reference sequences to estimate the false-positive background")
	cmd.MarkFlagRequired("ref-db")
	cmd.MarkFlagRequired("gene-table")
	return cmd
}

type groundOptions struct {
	input       string
	refDB       string
	snpDB       string
	geneTable   string
	patternFile string
	outputFile  string
	bedFile     string
	workers     int
	insertionRV bool
	twoBp       bool
	shuffle     bool
}

func runGround(opts groundOptions) error {
	patterns, err := loadPatterns(opts.patternFile)
	if err != nil {
		return err
	}

	refs, err := store.OpenDuckDB(opts.refDB)
	if err != nil {
		return err
	}
	defer refs.Close()
	refs.SetLogger(logger)
	seqs := store.NewCachedSequences(refs, 0)

	genes := store.NewMemory()
	if err := store.LoadEntrezTableFile(opts.geneTable, genes); err != nil {
		return fmt.Errorf("loading gene table: %w", err)
	}

	snps, closeSNPs, err := openSNPStore(opts.snpDB)
	if err != nil {
		return err
	}
	defer closeSNPs()

	out := os.Stdout
	if opts.outputFile != "" {
		out, err = os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
	}
	tabWriter := output.NewTabWriter(out)
	if err := tabWriter.WriteHeader(); err != nil {
		return err
	}

	var bedWriter *output.BedWriter
	if opts.bedFile != "" {
		bedOut, err := os.Create(opts.bedFile)
		if err != nil {
			return fmt.Errorf("creating bed file: %w", err)
		}
		defer bedOut.Close()
		bedWriter = output.NewBedWriter(bedOut)
	}

	newPipeline := func() *ground.Pipeline {
		ex := extract.New(patterns, snps)
		ex.SetLogger(logger)
		gr := ground.New(seqs, genes, snps, refs)
		gr.SetLogger(logger)
		gr.InsertionRV = opts.insertionRV
		gr.AllowTwoBp(opts.twoBp)
		gr.SetShuffle(opts.shuffle)
		return &ground.Pipeline{Extractor: ex, Grounder: gr}
	}

	items := make(chan ground.WorkItem)
	readErr := make(chan error, 1)
	go func() {
		readErr <- readDocuments(opts.input, items)
		close(items)
	}()

	results := ground.ParallelGround(items, opts.workers, newPipeline)
	err = ground.OrderedCollect(results, func(r ground.WorkResult) error {
		for _, rec := range r.Out.Grounded {
			if err := tabWriter.Write(rec); err != nil {
				return err
			}
		}
		for _, rec := range r.Out.Ungrounded {
			if err := tabWriter.Write(rec); err != nil {
				return err
			}
		}
		if bedWriter != nil {
			for _, bed := range r.Out.Beds {
				if err := bedWriter.Write(bed); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := <-readErr; err != nil {
		return err
	}

	if err := tabWriter.Flush(); err != nil {
		return err
	}
	if bedWriter != nil {
		if err := bedWriter.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// readDocuments streams the tab-separated document file into work items.
func readDocuments(path string, items chan<- ground.WorkItem) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening documents file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	seq := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			return fmt.Errorf("line %d: expected docId, genes, text", lineNo)
		}
		genes, err := parseGeneList(fields[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		items <- ground.WorkItem{Seq: seq, DocID: fields[0], Text: fields[2], Genes: genes}
		seq++
	}
	return scanner.Err()
}

func parseGeneList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var genes []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad entrez id %q", part)
		}
		genes = append(genes, id)
	}
	return genes, nil
}

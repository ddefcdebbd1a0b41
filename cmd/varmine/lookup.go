package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varmine/varmine/internal/extract"
	"github.com/varmine/varmine/internal/ground"
	"github.com/varmine/varmine/internal/store"
)

func newLookupCmd() *cobra.Command {
	var (
		refDB       string
		geneTable   string
		patternFile string
	)

	cmd := &cobra.Command{
		Use:   "lookup <gene-symbol> <variant>",
		Short: "Resolve one protein variant of a gene to genome coordinates",
		Long: `Ground a single protein-level variant description, such as "V600E",
against the proteins of one gene and print the genome interval along with
the CDS and RNA forms of the change.`,
		Example: `  varmine lookup --ref-db refs.duckdb --gene-table genes.tsv BRAF V600E`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(args[0], args[1], refDB, geneTable, patternFile)
		},
	}

	cmd.Flags().StringVar(&refDB, "ref-db", "", "DuckDB reference database with sequences and alignments (required)")
	cmd.Flags().StringVar(&geneTable, "gene-table", "", "entrez gene table, tab-separated (required)")
	cmd.Flags().StringVar(&patternFile, "patterns", "", "pattern table file (default: built-in table)")
	cmd.MarkFlagRequired("ref-db")
	cmd.MarkFlagRequired("gene-table")
	return cmd
}

func runLookup(geneSym, protDesc, refDB, geneTable, patternFile string) error {
	patterns, err := loadPatterns(patternFile)
	if err != nil {
		return err
	}

	refs, err := store.OpenDuckDB(refDB)
	if err != nil {
		return err
	}
	defer refs.Close()
	refs.SetLogger(logger)

	genes := store.NewMemory()
	if err := store.LoadEntrezTableFile(geneTable, genes); err != nil {
		return fmt.Errorf("loading gene table: %w", err)
	}

	ex := extract.New(patterns, nullSNPStore{})
	ex.SetLogger(logger)
	gr := ground.New(store.NewCachedSequences(refs, 0), genes, nullSNPStore{}, refs)
	gr.SetLogger(logger)

	beds, codVars, rnaVars, err := gr.GroundSymbolVariant(ex, geneSym, protDesc)
	if err != nil {
		return err
	}

	for _, bed := range beds {
		fmt.Fprintln(os.Stdout, bed.String())
	}
	for _, v := range codVars {
		fmt.Fprintln(os.Stdout, v.Name())
	}
	for _, v := range rnaVars {
		fmt.Fprintln(os.Stdout, v.Name())
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varmine/varmine/internal/extract"
)

func newExtractCmd() *cobra.Command {
	var (
		patternFile string
		snpDB       string
		outputFile  string
	)

	cmd := &cobra.Command{
		Use:   "extract <input-file>",
		Short: "Find variant descriptions in text",
		Long: `Scan a text document for variant descriptions and print each recognized
variant with the mentions that support it. No sequence verification is
done; this is the raw extraction stage.`,
		Example: `  varmine extract paper.txt
  varmine extract --snp-db dbsnp.sqlite paper.txt
  echo "the V600E mutation" | varmine extract -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args[0], patternFile, snpDB, outputFile)
		},
	}

	cmd.Flags().StringVar(&patternFile, "patterns", "", "pattern table file (default: built-in table)")
	cmd.Flags().StringVar(&snpDB, "snp-db", "", "SQLite dbSNP catalog, needed to resolve rs identifiers")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runExtract(inputPath, patternFile, snpDB, outputFile string) error {
	patterns, err := loadPatterns(patternFile)
	if err != nil {
		return err
	}
	snps, closeSNPs, err := openSNPStore(snpDB)
	if err != nil {
		return err
	}
	defer closeSNPs()

	var text []byte
	if inputPath == "-" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(inputPath)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
	}

	ex := extract.New(patterns, snps)
	ex.SetLogger(logger)
	found := ex.FindDescriptions(string(text), nil)

	fmt.Fprintln(out, "#seqType\tname\tmutType\tstart\tend\torigSeq\tmutSeq\toffset\tpatNames\tmentions\ttexts")
	for _, cat := range extract.Categories {
		for _, vm := range found[cat] {
			v := vm.Variant
			var patNames, spans, texts []string
			for _, m := range vm.Mentions {
				patNames = append(patNames, m.PatName)
				spans = append(spans, fmt.Sprintf("%d-%d", m.Start, m.End))
				texts = append(texts, strings.Trim(string(text[m.Start:m.End]), "() -;,."))
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
				cat, v.Name(), v.MutType, v.Start, v.End, v.OrigSeq, v.MutSeq, v.Offset,
				strings.Join(patNames, "|"), strings.Join(spans, ","), strings.Join(uniqStrings(texts), "|"))
		}
	}
	return nil
}

// uniqStrings keeps the first occurrence of each value, preserving order.
func uniqStrings(values []string) []string {
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

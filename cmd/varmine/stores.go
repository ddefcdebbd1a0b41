package main

import (
	"fmt"

	"github.com/varmine/varmine/internal/pattern"
	"github.com/varmine/varmine/internal/store"
)

// nullSNPStore is the dbSNP catalog used when no database is configured:
// every lookup misses, so rsID mentions are simply not resolved.
type nullSNPStore struct{}

func (nullSNPStore) RsIDAtLocus(chrom string, start, end int) (string, bool) { return "", false }
func (nullSNPStore) LocusByRsID(rsID string) (string, int, int, bool)        { return "", 0, 0, false }

// openSNPStore opens the SQLite dbSNP catalog, or the null store when no
// path is given.
func openSNPStore(path string) (store.SNPStore, func() error, error) {
	if path == "" {
		return nullSNPStore{}, func() error { return nil }, nil
	}
	db, err := store.OpenSQLiteSNP(path)
	if err != nil {
		return nil, nil, err
	}
	db.SetLogger(logger)
	return db, db.Close, nil
}

// loadPatterns compiles the pattern table from a file, or the built-in
// table when no path is given.
func loadPatterns(path string) ([]*pattern.Pattern, error) {
	rows := pattern.DefaultRows
	if path != "" {
		var err error
		rows, err = pattern.ReadTableFile(path)
		if err != nil {
			return nil, err
		}
	}
	patterns := pattern.Compile(rows, logger)
	if len(patterns) == 0 {
		return nil, fmt.Errorf("pattern table compiled to zero usable patterns")
	}
	return patterns, nil
}

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteSNP is the dbSNP catalog backed by a SQLite database with a single
// data(chrom, start, end, rsId) table keyed on the numeric rsID. Intervals
// are 0-based half-open, matching the BED-derived build input.
type SQLiteSNP struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLiteSNP opens a dbSNP catalog database.
func OpenSQLiteSNP(path string) (*SQLiteSNP, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snp db: %w", err)
	}
	return &SQLiteSNP{db: db, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for lookup diagnostics.
func (s *SQLiteSNP) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *SQLiteSNP) Close() error {
	return s.db.Close()
}

// RsIDAtLocus returns the rsID at an exact genomic interval.
func (s *SQLiteSNP) RsIDAtLocus(chrom string, start, end int) (string, bool) {
	var rsNum int64
	err := s.db.QueryRow(
		`SELECT rsId FROM data WHERE chrom = ? AND start = ? AND end = ?`,
		chrom, start, end).Scan(&rsNum)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.Warn("snp locus lookup failed",
			zap.String("chrom", chrom), zap.Int("start", start), zap.Int("end", end), zap.Error(err))
		return "", false
	}
	return "rs" + strconv.FormatInt(rsNum, 10), true
}

// LocusByRsID returns the genomic interval of an rsID. The id may carry or
// omit the "rs" prefix.
func (s *SQLiteSNP) LocusByRsID(rsID string) (string, int, int, bool) {
	num, err := strconv.ParseInt(strings.TrimPrefix(rsID, "rs"), 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	var (
		chrom      string
		start, end int
	)
	err = s.db.QueryRow(
		`SELECT chrom, start, end FROM data WHERE rsId = ?`, num).Scan(&chrom, &start, &end)
	if err == sql.ErrNoRows {
		return "", 0, 0, false
	}
	if err != nil {
		s.logger.Warn("rsid lookup failed", zap.String("rsId", rsID), zap.Error(err))
		return "", 0, 0, false
	}
	return chrom, start, end, true
}

// CreateSchema creates the catalog table. Used by catalog-building tools.
func (s *SQLiteSNP) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS data (
			chrom TEXT,
			start INTEGER,
			end INTEGER,
			rsId INTEGER PRIMARY KEY
		);
		CREATE INDEX IF NOT EXISTS idx_data_locus ON data(chrom, start, end);
	`)
	return err
}

// Insert stores one SNP. The id may carry or omit the "rs" prefix.
func (s *SQLiteSNP) Insert(rsID, chrom string, start, end int) error {
	num, err := strconv.ParseInt(strings.TrimPrefix(rsID, "rs"), 10, 64)
	if err != nil {
		return fmt.Errorf("bad rsId %q: %w", rsID, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO data (chrom, start, end, rsId) VALUES (?, ?, ?, ?)`,
		chrom, start, end, num)
	if err != nil {
		return fmt.Errorf("insert snp: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/varmine/varmine/internal/psl"
)

// DuckDB serves reference sequences, CDS offsets, protein-transcript links,
// and transcript-genome alignments from a DuckDB database. It implements
// SequenceStore and the alignment fetch used by the projector.
type DuckDB struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// OpenDuckDB opens a DuckDB-backed reference store.
func OpenDuckDB(path string) (*DuckDB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &DuckDB{db: db, path: path, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for lookup diagnostics.
func (d *DuckDB) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Close closes the database connection.
func (d *DuckDB) Close() error {
	return d.db.Close()
}

// GetSeq returns the sequence stored under an accession.
func (d *DuckDB) GetSeq(accession string) (string, bool) {
	var seq string
	err := d.db.QueryRow(
		`SELECT seq FROM sequences WHERE accession = ?`, accession).Scan(&seq)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		d.logger.Warn("sequence lookup failed", zap.String("accession", accession), zap.Error(err))
		return "", false
	}
	return seq, true
}

// GetCDSStart returns the 0-based CDS start offset of a transcript.
func (d *DuckDB) GetCDSStart(accession string) (int, bool) {
	var cdsStart sql.NullInt64
	err := d.db.QueryRow(
		`SELECT cds_start FROM sequences WHERE accession = ?`, accession).Scan(&cdsStart)
	if err == sql.ErrNoRows || (err == nil && !cdsStart.Valid) {
		return 0, false
	}
	if err != nil {
		d.logger.Warn("cds start lookup failed", zap.String("accession", accession), zap.Error(err))
		return 0, false
	}
	return int(cdsStart.Int64), true
}

// RefSeqForProtein resolves a protein accession to its transcript.
func (d *DuckDB) RefSeqForProtein(protAccession string) (string, bool) {
	var refseq string
	err := d.db.QueryRow(
		`SELECT refseq_accession FROM refprots WHERE prot_accession = ?`, protAccession).Scan(&refseq)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		d.logger.Warn("refprot lookup failed", zap.String("accession", protAccession), zap.Error(err))
		return "", false
	}
	return refseq, true
}

// GetAlignments returns the parsed PSL alignments stored for an accession.
// A missing accession returns an empty list, nil error.
func (d *DuckDB) GetAlignments(accession string, stripVersionSuffix bool) ([]*psl.PSL, error) {
	key := accession
	if stripVersionSuffix {
		key = stripVersion(accession)
	}
	rows, err := d.db.Query(
		`SELECT psl_line FROM alignments WHERE accession = ? ORDER BY rowid`, key)
	if err != nil {
		return nil, fmt.Errorf("query alignments: %w", err)
	}
	defer rows.Close()

	var psls []*psl.PSL
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan alignment: %w", err)
		}
		p, err := psl.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("alignment for %s: %w", key, err)
		}
		psls = append(psls, p)
	}
	return psls, rows.Err()
}

// CreateSchema creates the reference tables. Used by cache-building tools.
func (d *DuckDB) CreateSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sequences (
			accession VARCHAR PRIMARY KEY,
			seq VARCHAR,
			cds_start BIGINT
		);

		CREATE TABLE IF NOT EXISTS refprots (
			prot_accession VARCHAR PRIMARY KEY,
			refseq_accession VARCHAR
		);

		CREATE TABLE IF NOT EXISTS alignments (
			rowid BIGINT,
			accession VARCHAR,
			psl_line VARCHAR
		);

		CREATE INDEX IF NOT EXISTS idx_alignments_acc ON alignments(accession);
	`
	_, err := d.db.Exec(schema)
	return err
}

// InsertSequence stores a sequence with its CDS offset. Pass cdsStart < 0
// for protein sequences, which have none.
func (d *DuckDB) InsertSequence(accession, seq string, cdsStart int) error {
	var cds interface{}
	if cdsStart >= 0 {
		cds = cdsStart
	}
	_, err := d.db.Exec(
		`INSERT INTO sequences (accession, seq, cds_start) VALUES (?, ?, ?)`,
		accession, seq, cds)
	if err != nil {
		return fmt.Errorf("insert sequence: %w", err)
	}
	return nil
}

// InsertRefProt stores a protein-to-transcript link.
func (d *DuckDB) InsertRefProt(protAccession, refseqAccession string) error {
	_, err := d.db.Exec(
		`INSERT INTO refprots (prot_accession, refseq_accession) VALUES (?, ?)`,
		protAccession, refseqAccession)
	if err != nil {
		return fmt.Errorf("insert refprot: %w", err)
	}
	return nil
}

// InsertAlignment stores one PSL line under a version-stripped accession.
func (d *DuckDB) InsertAlignment(accession, pslLine string, order int) error {
	_, err := d.db.Exec(
		`INSERT INTO alignments (rowid, accession, psl_line) VALUES (?, ?, ?)`,
		order, stripVersion(accession), pslLine)
	if err != nil {
		return fmt.Errorf("insert alignment: %w", err)
	}
	return nil
}

// SequenceCount returns the number of stored sequences.
func (d *DuckDB) SequenceCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM sequences`).Scan(&count)
	return count, err
}

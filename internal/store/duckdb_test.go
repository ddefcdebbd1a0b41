package store

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPSLLine = "36\t1\t0\t0\t0\t0\t1\t990\t+\tNM_000001\t100\t0\t37\tchr17\t81195210\t1000\t2027\t2\t10,27,\t0,10,\t1000,2000,"

func newMockDuckDB(t *testing.T) (*DuckDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &DuckDB{db: db, logger: zap.NewNop()}, mock
}

func TestDuckDBGetSeq(t *testing.T) {
	d, mock := newMockDuckDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT seq FROM sequences WHERE accession = ?`)).
		WithArgs("NM_1.1").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow("ACGT"))
	seq, ok := d.GetSeq("NM_1.1")
	assert.True(t, ok)
	assert.Equal(t, "ACGT", seq)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT seq FROM sequences WHERE accession = ?`)).
		WithArgs("NM_404.1").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}))
	_, ok = d.GetSeq("NM_404.1")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDBGetCDSStart(t *testing.T) {
	d, mock := newMockDuckDB(t)

	query := regexp.QuoteMeta(`SELECT cds_start FROM sequences WHERE accession = ?`)

	mock.ExpectQuery(query).WithArgs("NM_1.1").
		WillReturnRows(sqlmock.NewRows([]string{"cds_start"}).AddRow(232))
	n, ok := d.GetCDSStart("NM_1.1")
	assert.True(t, ok)
	assert.Equal(t, 232, n)

	// proteins carry a NULL cds_start
	mock.ExpectQuery(query).WithArgs("NP_1.1").
		WillReturnRows(sqlmock.NewRows([]string{"cds_start"}).AddRow(nil))
	_, ok = d.GetCDSStart("NP_1.1")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDBRefSeqForProtein(t *testing.T) {
	d, mock := newMockDuckDB(t)

	query := regexp.QuoteMeta(`SELECT refseq_accession FROM refprots WHERE prot_accession = ?`)

	mock.ExpectQuery(query).WithArgs("NP_1.1").
		WillReturnRows(sqlmock.NewRows([]string{"refseq_accession"}).AddRow("NM_1.1"))
	ref, ok := d.RefSeqForProtein("NP_1.1")
	assert.True(t, ok)
	assert.Equal(t, "NM_1.1", ref)

	mock.ExpectQuery(query).WithArgs("NP_404.1").
		WillReturnRows(sqlmock.NewRows([]string{"refseq_accession"}))
	_, ok = d.RefSeqForProtein("NP_404.1")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDBGetAlignments(t *testing.T) {
	d, mock := newMockDuckDB(t)

	query := regexp.QuoteMeta(`SELECT psl_line FROM alignments WHERE accession = ? ORDER BY rowid`)

	// the lookup key drops the version suffix
	mock.ExpectQuery(query).WithArgs("NM_000001").
		WillReturnRows(sqlmock.NewRows([]string{"psl_line"}).AddRow(testPSLLine))
	psls, err := d.GetAlignments("NM_000001.3", true)
	require.NoError(t, err)
	require.Len(t, psls, 1)
	assert.Equal(t, "chr17", psls[0].TName)
	assert.Equal(t, 2, psls[0].BlockCount)

	mock.ExpectQuery(query).WithArgs("NM_404").
		WillReturnRows(sqlmock.NewRows([]string{"psl_line"}))
	psls, err = d.GetAlignments("NM_404.1", true)
	require.NoError(t, err)
	assert.Empty(t, psls)

	// a malformed stored line is an error, not a silent skip
	mock.ExpectQuery(query).WithArgs("NM_000002").
		WillReturnRows(sqlmock.NewRows([]string{"psl_line"}).AddRow("not\ta\tpsl"))
	_, err = d.GetAlignments("NM_000002.1", true)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDBInsertSequence(t *testing.T) {
	d, mock := newMockDuckDB(t)

	insert := regexp.QuoteMeta(`INSERT INTO sequences (accession, seq, cds_start) VALUES (?, ?, ?)`)

	mock.ExpectExec(insert).WithArgs("NM_1.1", "ACGT", 232).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, d.InsertSequence("NM_1.1", "ACGT", 232))

	// negative cds start stores NULL
	mock.ExpectExec(insert).WithArgs("NP_1.1", "MRV", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, d.InsertSequence("NP_1.1", "MRV", -1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDBSequenceCount(t *testing.T) {
	d, mock := newMockDuckDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sequences`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	n, err := d.SequenceCount()
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDBInsertAlignmentStripsVersion(t *testing.T) {
	d, mock := newMockDuckDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO alignments (rowid, accession, psl_line) VALUES (?, ?, ?)`)).
		WithArgs(7, "NM_000001", testPSLLine).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, d.InsertAlignment("NM_000001.3", testPSLLine, 7))

	assert.NoError(t, mock.ExpectationsWereMet())
}

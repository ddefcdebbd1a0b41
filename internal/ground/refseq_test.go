package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToOldRefseqs(t *testing.T) {
	old := NewToOldRefseqs([]string{"NM_000325.5"})
	assert.Equal(t, []string{"NM_000325.1", "NM_000325.2", "NM_000325.3", "NM_000325.4"}, old)

	assert.Empty(t, NewToOldRefseqs([]string{"NM_000325.1"}), "version 1 has no priors")
	assert.Empty(t, NewToOldRefseqs([]string{"NM_000325"}), "unversioned accessions contribute nothing")
	assert.Empty(t, NewToOldRefseqs(nil))

	old = NewToOldRefseqs([]string{"NM_000325.3", "NP_001.2"})
	assert.Equal(t, []string{"NM_000325.1", "NM_000325.2", "NP_001.1"}, old)
}

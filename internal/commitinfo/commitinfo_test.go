package commitinfo_test

import (
	"testing"

	"github.com/levmat/version-finder/internal/commitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShowOutput(t *testing.T) {
	raw := []byte("deadbeef\x1fVersion: 2024_01\x1fVersion: 2024_01\n\nmore body\x1fJane Doe\x1f1700000000\n")
	c, err := commitinfo.ParseShowOutput(raw)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", c.SHA)
	assert.Equal(t, "Version: 2024_01", c.Subject)
	assert.Equal(t, "Jane Doe", c.Author)
	assert.Equal(t, int64(1700000000), c.Timestamp)
	assert.Equal(t, "2024_01", c.Version)
	assert.True(t, c.HasVersion())
}

func TestParseShowOutputNoVersion(t *testing.T) {
	raw := []byte("cafebabe\x1fadd file\x1fadd file\x1fJane Doe\x1f1700000000\n")
	c, err := commitinfo.ParseShowOutput(raw)
	require.NoError(t, err)
	assert.False(t, c.HasVersion())
}

func TestParseLogOutputMultipleRecordsWithMultilineBodies(t *testing.T) {
	raw := []byte("aaa\x1fhello world\x1fline one\nline two\x1e\nbbb\x1fsecond\x1f\x1e\n")
	records, err := commitinfo.ParseLogOutput(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "aaa", records[0].SHA)
	assert.Equal(t, "hello world", records[0].Subject)
	assert.Equal(t, "line one\nline two", records[0].Body)
	assert.True(t, records[0].MatchesText("HELLO"))
	assert.False(t, records[0].MatchesText("goodbye"))

	assert.Equal(t, "bbb", records[1].SHA)
}

func TestParseLogOutputEmpty(t *testing.T) {
	records, err := commitinfo.ParseLogOutput([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

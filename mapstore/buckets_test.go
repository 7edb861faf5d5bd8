package mapstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSingleFirstWriteWins(t *testing.T) {
	buckets := NewBuckets()

	require.NoError(t, buckets.AddSingle(PageIDTitlesTable, "10", "Home"))

	// identical re-write is a no-op
	require.NoError(t, buckets.AddSingle(PageIDTitlesTable, "10", "Home"))

	// differing re-write is refused, loudly
	err := buckets.AddSingle(PageIDTitlesTable, "10", "Elsewhere")
	require.Error(t, err)

	conflict := &ConflictError{}
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Home", conflict.Existing)
	assert.Equal(t, "Elsewhere", conflict.Proposed)

	value, ok := buckets.SingleValue(PageIDTitlesTable, "10")
	require.True(t, ok)
	assert.Equal(t, "Home", value, "the first value stands")
}

func TestAppendMultiKeepsOrderAndDedupes(t *testing.T) {
	buckets := NewBuckets()

	buckets.AppendMulti(TitleAttachmentsTable, "Home", "b.png")
	buckets.AppendMulti(TitleAttachmentsTable, "Home", "a.png")
	buckets.AppendMulti(TitleAttachmentsTable, "Home", "b.png")

	assert.Equal(t, []string{"b.png", "a.png"}, buckets.MultiValues(TitleAttachmentsTable, "Home"))
}

func TestTableNamesAndLen(t *testing.T) {
	buckets := NewBuckets()
	require.NoError(t, buckets.AddSingle(SpacePrefixTable, "1", ""))
	require.NoError(t, buckets.AddSingle(SpacePrefixTable, "2", "DOCS"))
	buckets.AppendMulti(TitleAttachmentsTable, "", "notes.txt")

	assert.Equal(t, []string{SpacePrefixTable, TitleAttachmentsTable}, buckets.TableNames())
	assert.Equal(t, 2, buckets.Len(SpacePrefixTable))
	assert.Equal(t, 1, buckets.Len(TitleAttachmentsTable))
	assert.Equal(t, 0, buckets.Len(FilesTable))
}

package mapstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, buckets *Buckets) {
	t.Helper()

	require.NoError(t, buckets.AddSingle(SpacePrefixTable, "1", ""))
	require.NoError(t, buckets.AddSingle(SpacePrefixTable, "2", "DOCS"))
	require.NoError(t, buckets.AddSingle(PageTitlesTable, "Detailed planning", "DOCS:Dokumentation/Detailed_planning"))
	require.NoError(t, buckets.AddSingle(FilesTable, "notes.txt", "attachments/2/6/3"))
	buckets.AppendMulti(TitleAttachmentsTable, "DOCS:Dokumentation/Detailed_planning", "diagram.json")
	buckets.AppendMulti(TitleAttachmentsTable, "DOCS:Dokumentation/Detailed_planning", "photo.png")
}

func TestFileStoreRoundtrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "maps")

	first := NewFileStore(dir)
	require.NoError(t, first.Load(), "loading an absent store must be fine")
	populate(t, first.Buckets())
	require.NoError(t, first.Save())

	// one YAML document per table
	_, err := os.Stat(filepath.Join(dir, SpacePrefixTable+".yaml"))
	require.NoError(t, err)

	second := NewFileStore(dir)
	require.NoError(t, second.Load())

	assert.Equal(t, first.Buckets(), second.Buckets())
	assert.Equal(t,
		[]string{"diagram.json", "photo.png"},
		second.Buckets().MultiValues(TitleAttachmentsTable, "DOCS:Dokumentation/Detailed_planning"))
}

func TestFileStoreSaveIsStable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "maps")

	store := NewFileStore(dir)
	populate(t, store.Buckets())
	require.NoError(t, store.Save())
	firstWrite, err := os.ReadFile(filepath.Join(dir, SpacePrefixTable+".yaml"))
	require.NoError(t, err)

	require.NoError(t, store.Save())
	secondWrite, err := os.ReadFile(filepath.Join(dir, SpacePrefixTable+".yaml"))
	require.NoError(t, err)

	assert.Equal(t, string(firstWrite), string(secondWrite))
}

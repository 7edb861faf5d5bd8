package mapstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Load(), "loading a fresh store must be fine")
	populate(t, first.Buckets())
	require.NoError(t, first.Save())
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Load())

	assert.Equal(t, first.Buckets(), second.Buckets())
	assert.Equal(t,
		[]string{"diagram.json", "photo.png"},
		second.Buckets().MultiValues(TitleAttachmentsTable, "DOCS:Dokumentation/Detailed_planning"))
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	populate(t, store.Buckets())
	require.NoError(t, store.Save())

	// saving again must not duplicate rows
	require.NoError(t, store.Save())

	reread, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reread.Close()
	require.NoError(t, reread.Load())

	assert.Equal(t, 2, reread.Buckets().Len(SpacePrefixTable))
	assert.Equal(t,
		[]string{"diagram.json", "photo.png"},
		reread.Buckets().MultiValues(TitleAttachmentsTable, "DOCS:Dokumentation/Detailed_planning"))
}

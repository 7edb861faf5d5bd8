package analysis

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froboy/migrate-confluence/confluence"
	"github.com/froboy/migrate-confluence/mapstore"
)

func testPage(version string, modified string, bodyIDs ...string) *confluence.Object {
	elements := []confluence.Element{}
	for _, id := range bodyIDs {
		elements = append(elements, confluence.Element{ID: id})
	}

	return &confluence.Object{
		Class: confluence.PageObject,
		ID:    "10",
		Properties: []confluence.Property{
			{Name: confluence.PropVersion, Value: version},
			{Name: confluence.PropLastModificationDate, Value: modified},
		},
		Collections: []confluence.Collection{
			{Name: confluence.CollBodyContents, Elements: elements},
		},
	}
}

func TestPageFingerprint(t *testing.T) {
	analyzer := New(mapstore.NewBuckets(), zerolog.Nop(), "")

	fingerprint, err := analyzer.pageFingerprint(testPage("2", "2021-03-01T10:00:00Z", "100"))
	require.NoError(t, err)
	assert.Equal(t, "100@2-20210301100000", fingerprint)

	// multiple body contents join with "/", document order preserved
	fingerprint, err = analyzer.pageFingerprint(testPage("7", "2021-03-01T10:00:00Z", "100", "101"))
	require.NoError(t, err)
	assert.Equal(t, "100/101@7-20210301100000", fingerprint)
}

func TestPageFingerprintAcceptsExportTimestamps(t *testing.T) {
	analyzer := New(mapstore.NewBuckets(), zerolog.Nop(), "")

	// the space-separated export form, with and without fractional seconds
	fingerprint, err := analyzer.pageFingerprint(testPage("1", "2021-02-11 08:30:00.123", "210"))
	require.NoError(t, err)
	assert.Equal(t, "210@1-20210211083000", fingerprint)

	fingerprint, err = analyzer.pageFingerprint(testPage("1", "2021-02-11 08:30:00", "210"))
	require.NoError(t, err)
	assert.Equal(t, "210@1-20210211083000", fingerprint)

	// offsets normalize to UTC
	fingerprint, err = analyzer.pageFingerprint(testPage("1", "2021-02-11T09:30:00+01:00", "210"))
	require.NoError(t, err)
	assert.Equal(t, "210@1-20210211083000", fingerprint)
}

func TestPageFingerprintSensitivity(t *testing.T) {
	analyzer := New(mapstore.NewBuckets(), zerolog.Nop(), "")

	base, err := analyzer.pageFingerprint(testPage("2", "2021-03-01T10:00:00Z", "100"))
	require.NoError(t, err)

	changedVersion, err := analyzer.pageFingerprint(testPage("3", "2021-03-01T10:00:00Z", "100"))
	require.NoError(t, err)
	assert.NotEqual(t, base, changedVersion)

	changedBody, err := analyzer.pageFingerprint(testPage("2", "2021-03-01T10:00:00Z", "105"))
	require.NoError(t, err)
	assert.NotEqual(t, base, changedBody)

	changedDate, err := analyzer.pageFingerprint(testPage("2", "2021-03-01T10:00:01Z", "100"))
	require.NoError(t, err)
	assert.NotEqual(t, base, changedDate)

	same, err := analyzer.pageFingerprint(testPage("2", "2021-03-01T10:00:00Z", "100"))
	require.NoError(t, err)
	assert.Equal(t, base, same)
}

func TestPageFingerprintBadTimestamp(t *testing.T) {
	analyzer := New(mapstore.NewBuckets(), zerolog.Nop(), "")

	_, err := analyzer.pageFingerprint(testPage("2", "yesterday-ish", "100"))
	require.Error(t, err)

	titleErr := &TitleError{}
	require.ErrorAs(t, err, &titleErr)
	assert.Equal(t, BadTimestamp, titleErr.Failure)
}

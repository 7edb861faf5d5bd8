package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain", title: "Home", want: "Home"},
		{name: "spaces become underscores", title: "Detailed planning", want: "Detailed_planning"},
		{name: "whitespace runs collapse", title: "  A \t very\n\n spaced   title ", want: "A_very_spaced_title"},
		{name: "dots survive", title: "Release 1.0", want: "Release_1.0"},
		{name: "unicode survives", title: "Überblick", want: "Überblick"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sanitizeTitle(tc.title)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSanitizeTitleRejections(t *testing.T) {
	for _, title := range []string{
		"",
		"   ",
		"Bad[title]",
		"a|b",
		"nope#anchor",
		"angle<bracket",
	} {
		_, err := sanitizeTitle(title)
		assert.Error(t, err, "title %q should be rejected", title)
	}
}

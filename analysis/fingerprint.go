package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/froboy/migrate-confluence/confluence"
)

const fingerprintTimeFormat = "20060102150405"

// Timestamp layouts seen in entity exports.  The fractional second is
// optional in the space-separated form.
var exportTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05.999",
}

// pageFingerprint combines a page's body-content IDs, version number and
// normalized last-modification timestamp into one opaque string:
//
//	bodyID[/bodyID...]@version-YYYYMMDDHHMMSS
//
// Identical inputs always yield an identical fingerprint, which is what lets
// a later run skip pages that haven't changed.
func (a *Analyzer) pageFingerprint(page *confluence.Object) (string, error) {
	raw := page.PropertyValue(confluence.PropLastModificationDate)
	modified, err := parseExportTime(raw)
	if err != nil {
		return "", &TitleError{PageID: page.ID, Failure: BadTimestamp, Detail: err.Error()}
	}

	bodyIDs := page.ReferencedIDs(confluence.CollBodyContents)
	version := page.PropertyValue(confluence.PropVersion)

	return fmt.Sprintf("%s@%s-%s",
		strings.Join(bodyIDs, "/"),
		version,
		modified.UTC().Format(fingerprintTimeFormat),
	), nil
}

func parseExportTime(raw string) (time.Time, error) {
	for _, layout := range exportTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

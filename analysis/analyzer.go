// Package analysis resolves a parsed Confluence entity export into the
// relation tables a later conversion stage needs: namespace prefixes per
// space, hierarchical target titles per page, versioned source paths and
// target filenames per attachment, and a change fingerprint per page.
package analysis

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/froboy/migrate-confluence/confluence"
	"github.com/froboy/migrate-confluence/mapstore"
)

type Analyzer struct {
	// Buckets accumulate the produced tables; typically a mapstore backend's
	// buckets, loaded before the run and saved after it.
	Buckets *mapstore.Buckets

	// Logger is the diagnostic sink for skip decisions and conflicts.
	Logger zerolog.Logger

	// BasePath is prefixed onto derived attachment source paths, usually the
	// directory the export was unpacked into.
	BasePath string

	index           *confluence.Index
	spacePrefixes   map[string]string
	seenAttachments map[string]bool
}

func New(buckets *mapstore.Buckets, logger zerolog.Logger, basePath string) *Analyzer {
	return &Analyzer{
		Buckets:  buckets,
		Logger:   logger,
		BasePath: basePath,
	}
}

// Analyze runs the whole resolution pass over one document: spaces first,
// then pages (titles, fingerprints, page-owned attachments), then the sweep
// over attachments no resolved page claimed.  Single-threaded by design; the
// order is a strict dependency order.
func (a *Analyzer) Analyze(doc *confluence.Document) error {
	if doc == nil {
		return fmt.Errorf("analysis: no document to analyze")
	}

	a.index = confluence.BuildIndex(doc)
	a.spacePrefixes = map[string]string{}
	a.seenAttachments = map[string]bool{}

	a.resolveSpaces()
	a.resolvePages()
	a.sweepAttachments()

	return nil
}

// put writes into a single-value table.  A duplicate key with a differing
// value is a data-integrity finding, not a fatal error: the first value
// stands and the refused write is logged.
func (a *Analyzer) put(table string, key string, value string) {
	err := a.Buckets.AddSingle(table, key, value)
	if err == nil {
		return
	}

	var conflict *mapstore.ConflictError
	if errors.As(err, &conflict) {
		a.Logger.Warn().
			Str("table", conflict.Table).
			Str("key", conflict.Key).
			Str("kept", conflict.Existing).
			Str("refused", conflict.Proposed).
			Msg("duplicate key with conflicting value")
		return
	}
	a.Logger.Error().Err(err).Str("table", table).Str("key", key).Msg("couldn't record entry")
}

func (a *Analyzer) resolvePages() {
	for _, page := range a.index.RecordsOfType(confluence.PageObject) {
		if !isCurrentHead(page) {
			// drafts, historical revisions etc. -- out of scope by policy,
			// deliberately absent from diagnostics too
			continue
		}

		spaceID := page.PropertyValue(confluence.PropSpace)
		prefix, ok := a.spacePrefixes[spaceID]
		if spaceID == "" || !ok {
			continue
		}

		target, err := a.buildTargetTitle(page, prefix)
		if err != nil {
			a.recordInvalidTitle(page.ID, err)
			continue
		}

		fingerprint, err := a.pageFingerprint(page)
		if err != nil {
			a.recordInvalidTitle(page.ID, err)
			continue
		}

		a.put(mapstore.PageTitlesTable, page.PropertyValue(confluence.PropTitle), target)
		a.put(mapstore.PageIDTitlesTable, page.ID, target)

		for _, bodyID := range page.ReferencedIDs(confluence.CollBodyContents) {
			a.put(mapstore.BodyContentsTable, bodyID, page.ID)
		}

		a.put(mapstore.TitleRevisionsTable, target, fingerprint)

		for _, attachmentID := range page.ReferencedIDs(confluence.CollAttachments) {
			attachment, ok := a.index.RecordByID(attachmentID, confluence.AttachmentObject)
			if !ok {
				a.Logger.Debug().
					Str("page", page.ID).
					Str("attachment", attachmentID).
					Msg("page references an attachment the export doesn't contain")
				continue
			}
			a.resolveAttachment(attachment, target)
		}
	}
}

// isCurrentHead reports whether a page record is a live page rather than a
// pointer to a historical revision.
func isCurrentHead(page *confluence.Object) bool {
	return page.PropertyValue(confluence.PropContentStatus) == currentStatus &&
		page.PropertyValue(confluence.PropOriginalVersion) == ""
}

func (a *Analyzer) recordInvalidTitle(pageID string, err error) {
	a.Logger.Debug().Str("page", pageID).Err(err).Msg("skipping page with unresolvable title")
	a.put(mapstore.TitleInvalidsTable, pageID, err.Error())
}

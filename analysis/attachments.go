package analysis

import (
	"path"
	"strings"

	"github.com/froboy/migrate-confluence/confluence"
	"github.com/froboy/migrate-confluence/mapstore"
)

// LatestVersion marks an attachment whose export carries no version number.
// The downstream file-resolution step picks the highest version found on disk
// in the attachment's directory.
const LatestVersion = "__LATEST__"

// Extensions inferable from a declared content type when the raw title has
// none.  Gliffy diagrams are the notorious case: their titles are plain
// diagram names.
var extensionsByContentType = map[string]string{
	"application/gliffy+json": ".json",
	"application/gliffy+xml":  ".xml",
}

var containerFlattener = strings.NewReplacer("/", "_", ":", "_")

// resolveAttachment registers one current attachment under its container's
// target title (empty for space-level and orphaned attachments): an ordered
// entry in the title-attachments table plus the filename→source-path entry.
// Historical revisions are skipped here so both entry points filter them: a
// page's attachment collection can list revisions alongside the current head.
func (a *Analyzer) resolveAttachment(attachment *confluence.Object, containerTitle string) {
	if attachment.PropertyValue(confluence.PropOriginalVersion) != "" {
		return
	}
	if a.seenAttachments[attachment.ID] {
		return
	}

	filename, err := a.attachmentFilename(attachment, containerTitle)
	if err != nil {
		a.Logger.Debug().
			Str("attachment", attachment.ID).
			Err(err).
			Msg("skipping attachment with unusable title")
		return
	}
	a.seenAttachments[attachment.ID] = true

	a.Buckets.AppendMulti(mapstore.TitleAttachmentsTable, containerTitle, filename)
	a.put(mapstore.FilesTable, filename, a.attachmentSourcePath(attachment))
}

// sweepAttachments catches attachments not reachable from any resolved page.
// Attachments already registered via their owning page are skipped silently;
// resolveAttachment itself skips historical revisions.
func (a *Analyzer) sweepAttachments() {
	for _, attachment := range a.index.RecordsOfType(confluence.AttachmentObject) {
		if attachment.PropertyValue(confluence.PropSourceContent) != "" {
			continue
		}
		if a.seenAttachments[attachment.ID] {
			continue
		}
		a.resolveAttachment(attachment, "")
	}
}

// attachmentFilename derives the collision-safe target filename: the
// sanitized attachment title, extension-completed from the content type if
// needed, then qualified with the flattened container title — or, for
// attachments without one, with the attachment ID, so two orphans sharing a
// title (logo.png in two spaces, say) still get distinct filenames.
func (a *Analyzer) attachmentFilename(attachment *confluence.Object, containerTitle string) (string, error) {
	name, err := sanitizeTitle(attachment.PropertyValue(confluence.PropTitle))
	if err != nil {
		return "", err
	}

	if path.Ext(name) == "" {
		contentType := attachment.PropertyValue(confluence.PropContentType)
		if ext, ok := extensionsByContentType[contentType]; ok {
			name += ext
		} else {
			a.Logger.Debug().
				Str("filename", name).
				Str("container", containerTitle).
				Str("attachment", attachment.ID).
				Str("contentType", contentType).
				Msg("no file extension could be inferred")
		}
	}

	if containerTitle != "" {
		name = containerFlattener.Replace(containerTitle) + "_" + name
	} else {
		name = attachment.ID + "_" + name
	}

	return name, nil
}

// attachmentSourcePath builds the path the attachment's bytes live at inside
// the unpacked export: attachments/{containerID}/{attachmentID}/{version}.
func (a *Analyzer) attachmentSourcePath(attachment *confluence.Object) string {
	containerID := attachment.PropertyValue(confluence.PropContent)
	if containerID == "" {
		containerID = attachment.PropertyValue(confluence.PropContainerContent)
	}

	version := attachment.PropertyValue(confluence.PropAttachmentVersion)
	if version == "" {
		version = attachment.PropertyValue(confluence.PropVersion)
	}
	if version == "" {
		version = LatestVersion
	}

	return path.Join(a.BasePath, "attachments", containerID, attachment.ID, version)
}

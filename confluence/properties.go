package confluence

// Property and collection names the analyzer reads.  These follow the export
// format's own naming, so e.g. a page's space is the reference property
// "space", not "spaceId".
const (
	PropTitle                = "title"
	PropKey                  = "key"
	PropSpace                = "space"
	PropParent               = "parent"
	PropContentStatus        = "contentStatus"
	PropOriginalVersion      = "originalVersion"
	PropVersion              = "version"
	PropAttachmentVersion    = "attachmentVersion"
	PropLastModificationDate = "lastModificationDate"
	PropContentType          = "contentType"
	PropContent              = "content"
	PropContainerContent     = "containerContent"
	PropSourceContent        = "sourceContent"

	CollBodyContents = "bodyContents"
	CollAttachments  = "attachments"
)

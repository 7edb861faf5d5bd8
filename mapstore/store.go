// Package mapstore accumulates the relation tables an analysis run produces
// and persists them for the later migration stages.  A Store is loaded once
// before a run and saved once after it; within the run everything lives in
// Buckets.
package mapstore

// Multiplicity says whether a table maps each key to one value or to an
// ordered list of values.
type Multiplicity int

const (
	SingleValue Multiplicity = iota
	MultiValue
)

// Table names shared with the downstream conversion stages.
const (
	SpacePrefixTable      = "space-id-to-prefix-map"
	PageTitlesTable       = "pages-titles-map"
	PageIDTitlesTable     = "pages-ids-to-titles-map"
	BodyContentsTable     = "body-contents-to-pages-map"
	TitleRevisionsTable   = "title-revisions"
	TitleAttachmentsTable = "title-attachments"
	FilesTable            = "files"
	TitleInvalidsTable    = "title-invalids"
)

// Tables declares the multiplicity of every known table.  Persistence
// backends consult this to know how to decode what's on disk.
var Tables = map[string]Multiplicity{
	SpacePrefixTable:      SingleValue,
	PageTitlesTable:       SingleValue,
	PageIDTitlesTable:     SingleValue,
	BodyContentsTable:     SingleValue,
	TitleRevisionsTable:   SingleValue,
	TitleAttachmentsTable: MultiValue,
	FilesTable:            SingleValue,
	TitleInvalidsTable:    SingleValue,
}

// Store is the persistence contract around a run: Load before analysis, Save
// after it.  Loading an absent store yields empty buckets, not an error.
type Store interface {
	Load() error
	Save() error
	Buckets() *Buckets
	Close() error
}

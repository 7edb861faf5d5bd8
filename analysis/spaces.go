package analysis

import (
	"github.com/froboy/migrate-confluence/confluence"
	"github.com/froboy/migrate-confluence/mapstore"
)

// The reserved default space.  Its content lands in the target wiki's main
// namespace, so it maps to the empty prefix.
const generalSpaceKey = "GENERAL"

func (a *Analyzer) resolveSpaces() {
	for _, space := range a.index.RecordsOfType(confluence.SpaceObject) {
		prefix := space.PropertyValue(confluence.PropKey)
		if prefix == generalSpaceKey {
			prefix = ""
		}

		a.spacePrefixes[space.ID] = prefix
		a.put(mapstore.SpacePrefixTable, space.ID, prefix)
	}
}

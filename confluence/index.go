package confluence

type typeID struct {
	typeName string
	id       string
}

// Index gives random access into a parsed document: records by declared type
// (document order preserved) and by (type, id).  Built once per document and
// read-only afterwards, so the resolvers never rescan the object list.
type Index struct {
	byType map[string][]*Object
	byID   map[typeID]*Object
}

func BuildIndex(doc *Document) *Index {
	ix := &Index{
		byType: map[string][]*Object{},
		byID:   map[typeID]*Object{},
	}

	for i := range doc.Objects {
		obj := &doc.Objects[i]
		ix.byType[obj.Class] = append(ix.byType[obj.Class], obj)
		if obj.ID == "" {
			continue
		}
		key := typeID{typeName: obj.Class, id: obj.ID}
		if _, ok := ix.byID[key]; !ok {
			// first record wins; exports occasionally repeat an object
			ix.byID[key] = obj
		}
	}

	return ix
}

// RecordsOfType returns all records declaring the given type, in document
// order.
func (ix *Index) RecordsOfType(typeName string) []*Object {
	return ix.byType[typeName]
}

// RecordByID looks up the record of the given type with the given ID.
func (ix *Index) RecordByID(id string, typeName string) (*Object, bool) {
	obj, ok := ix.byID[typeID{typeName: typeName, id: id}]
	return obj, ok
}

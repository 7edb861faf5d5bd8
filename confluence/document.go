package confluence

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Object type names appearing in a Confluence entity export.
const (
	SpaceObject      = "Space"
	PageObject       = "Page"
	AttachmentObject = "Attachment"
)

// Document is a parsed entities.xml export: a flat sequence of typed object
// records that reference one another by ID.
type Document struct {
	XMLName xml.Name `xml:"hibernate-generic"`
	Objects []Object `xml:"object"`
}

// Object is one record of the export.  Its Class attribute declares the
// entity type, e.g. "Page" or "Attachment".
type Object struct {
	Class       string       `xml:"class,attr"`
	Package     string       `xml:"package,attr"`
	ID          string       `xml:"id"`
	Properties  []Property   `xml:"property"`
	Collections []Collection `xml:"collection"`
}

// Property is a named child of an object.  Scalar properties carry their
// value as character data; reference properties instead carry a nested <id>
// element pointing at another object.
type Property struct {
	Name  string `xml:"name,attr"`
	Class string `xml:"class,attr"`
	Ref   string `xml:"id"`
	Value string `xml:",chardata"`
}

func (p Property) scalar() string {
	if ref := strings.TrimSpace(p.Ref); ref != "" {
		return ref
	}
	return strings.TrimSpace(p.Value)
}

// Collection is a named, ordered list of references to other objects.
type Collection struct {
	Name     string    `xml:"name,attr"`
	Elements []Element `xml:"element"`
}

type Element struct {
	Class string `xml:"class,attr"`
	ID    string `xml:"id"`
}

// PropertyValue returns the scalar value of the named property, or the
// referenced object's ID for reference properties.  Returns "" for a property
// the record doesn't declare.
func (o *Object) PropertyValue(name string) string {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.scalar()
		}
	}
	return ""
}

// ReferencedIDs returns the IDs found in the named collection, in document
// order.  An undeclared collection yields an empty slice.
func (o *Object) ReferencedIDs(collection string) []string {
	ids := []string{}
	for _, c := range o.Collections {
		if c.Name != collection {
			continue
		}
		for _, e := range c.Elements {
			if id := strings.TrimSpace(e.ID); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ParseDocument reads a whole entity export into memory.  This is the single
// fatal failure point of an analysis run.
func ParseDocument(r io.Reader) (*Document, error) {
	doc := Document{}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse export document: %w", err)
	}

	for i := range doc.Objects {
		doc.Objects[i].ID = strings.TrimSpace(doc.Objects[i].ID)
	}

	return &doc, nil
}

func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't open export document %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("confluence: %s: %w", path, err)
	}
	return doc, nil
}

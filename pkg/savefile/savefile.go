// Package savefile loads, navigates, backs up, and rewrites RimWorld
// save-game XML documents. The document is held fully in memory for
// the run and serialized once at the end.
package savefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// Header is the XML declaration RimWorld writes at the top of a save.
const Header = `<?xml version="1.0" encoding="utf-8" ?>`

// ideosPath is the fixed absolute path from the document root to the
// list of ideologies.
const ideosPath = "/savegame/game/world/ideoManager/ideos"

var (
	// ErrNoRoot indicates the document parsed but has no root element.
	ErrNoRoot = errors.New("save file has no root element")

	// ErrNoIdeologies indicates the fixed ideologies path did not
	// resolve, meaning the document is malformed or foreign.
	ErrNoIdeologies = errors.New("no ideos node found in save file")

	// ErrNoIdeologyEntries indicates the ideologies container exists
	// but holds no ideology entries.
	ErrNoIdeologyEntries = errors.New("no ideos found in save file")
)

// Document is one save file held in memory: the parsed tree plus the
// exact bytes it was loaded from. The tree is mutated in place by
// removal operations; the load-time bytes never change.
type Document struct {
	// Path is where the document was loaded from and will be written
	// back to.
	Path string

	tree     *etree.Document
	original []byte
}

// Load reads the whole file at path and parses it as an XML tree.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	tree := etree.NewDocument()
	tree.ReadSettings.Permissive = true
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse save file: %w", err)
	}
	if tree.Root() == nil {
		return nil, ErrNoRoot
	}

	return &Document{Path: path, tree: tree, original: data}, nil
}

// Original returns the exact bytes the document was loaded from.
func (document *Document) Original() []byte {
	return document.original
}

// Serialize renders the tree back to text. If the serializer omitted
// the XML declaration, the standard header is inserted as a new first
// line, matching the file's newline convention.
func (document *Document) Serialize() ([]byte, error) {
	out, err := document.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize save file: %w", err)
	}

	if !bytes.HasPrefix(out, []byte("<?xml")) {
		newline := []byte("\n")
		if bytes.Contains(document.original, []byte("\r\n")) {
			newline = []byte("\r\n")
		}
		withHeader := make([]byte, 0, len(Header)+len(newline)+len(out))
		withHeader = append(withHeader, Header...)
		withHeader = append(withHeader, newline...)
		withHeader = append(withHeader, out...)
		out = withHeader
	}

	return out, nil
}

// Changed serializes the tree and reports whether the output differs
// from the bytes on disk at load time, returning the serialized form
// alongside so callers do not serialize twice.
func (document *Document) Changed() (bool, []byte, error) {
	out, err := document.Serialize()
	if err != nil {
		return false, nil, err
	}
	return !bytes.Equal(out, document.original), out, nil
}

// Ideologies resolves the fixed path to the ideologies container.
// Returns ErrNoIdeologies when the path does not resolve.
func Ideologies(document *Document) (*etree.Element, error) {
	element := document.tree.FindElement(ideosPath)
	if element == nil {
		return nil, ErrNoIdeologies
	}
	return element, nil
}

// IdeologyEntries lists the ideology elements in document order.
func IdeologyEntries(ideos *etree.Element) []*etree.Element {
	return ideos.SelectElements("li")
}

// IdeologyName returns an ideology's display name, or "" when the
// name child or its text is missing.
func IdeologyName(ideology *etree.Element) string {
	nameElement := ideology.SelectElement("name")
	if nameElement == nil {
		return ""
	}
	return nameElement.Text()
}

// Precepts resolves an ideology's precepts list by tag name, or nil
// when the ideology has none.
func Precepts(ideology *etree.Element) *etree.Element {
	return ideology.SelectElement("precepts")
}

// PreceptEntries lists the precept elements in document order.
func PreceptEntries(precepts *etree.Element) []*etree.Element {
	return precepts.SelectElements("li")
}

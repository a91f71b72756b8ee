// Package doxygen parses Doxygen compound XML into semantic records.
//
// Parsing is a recursive descent over a pull-style event cursor: every
// collect operation starts with the cursor positioned just inside an
// element and consumes events through the matching close tag. There is
// exactly one logical cursor in flight per input file.
package doxygen

import (
	"encoding/xml"
	"io"
)

// Cursor is a pull-style cursor over a Doxygen XML byte stream.
type Cursor struct {
	dec *xml.Decoder
}

// NewCursor creates a cursor reading from r.
func NewCursor(r io.Reader) *Cursor {
	return &Cursor{dec: xml.NewDecoder(r)}
}

// Next returns the next event.
func (c *Cursor) Next() (xml.Token, error) {
	return c.dec.Token()
}

// Skip consumes events through the end of the most recently started
// element. Used to discard subtrees we have no interest in while keeping
// the cursor valid.
func (c *Cursor) Skip() error {
	return c.dec.Skip()
}

// attr returns the value of the named attribute on a start element, or "".
func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

package doxygen

import (
	"encoding/xml"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/doxyman/internal/model"
)

// RefSink receives compound references discovered while collecting text,
// so the document index can schedule their companion files for the
// resolution pass.
type RefSink interface {
	NoteCompound(refid, name string)
}

// Collector flattens one XML subtree into troff-formatted text.
type Collector struct {
	cur  *Cursor
	refs RefSink
}

// NewCollector creates a collector reading from cur. refs may be nil when
// no reference tracking is wanted.
func NewCollector(cur *Cursor, refs RefSink) *Collector {
	return &Collector{cur: cur, refs: refs}
}

// Text consumes every descendant event through the matching close tag and
// returns the flattened text with troff markup substituted.
func (co *Collector) Text() (string, error) {
	s, _, err := co.text()
	return s, err
}

// ParamText is Text plus the reference id captured at this level. Used
// for parameter type elements, whose <ref> child links the type to its
// defining compound.
func (co *Collector) ParamText() (string, string, error) {
	return co.text()
}

func (co *Collector) text() (string, string, error) {
	var sb strings.Builder
	var refid string
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			rid, err := co.inline(t, &sb)
			if err != nil {
				return "", "", err
			}
			if rid != "" {
				refid = rid
			}
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), refid, nil
		}
	}
}

// inline handles one start element inside free text and leaves the cursor
// just after its close tag. Unrecognized elements are consumed whole but
// contribute nothing, so the cursor stays valid on unknown content.
func (co *Collector) inline(t xml.StartElement, sb *strings.Builder) (string, error) {
	switch t.Name.Local {
	case "para":
		sb.WriteString("\n")
		inner, _, err := co.text()
		if err != nil {
			return "", err
		}
		sb.WriteString(inner)
	case "sp":
		sb.WriteString(" ")
		if err := co.cur.Skip(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
	case "highlight", "emphasis", "bold":
		inner, _, err := co.text()
		if err != nil {
			return "", err
		}
		sb.WriteString("\\fB" + inner + "\\fR")
	case "computeroutput", "programlisting", "verbatim":
		inner, err := co.code()
		if err != nil {
			return "", err
		}
		sb.WriteString("\n.nf\n" + inner + "\n.fi\n")
	case "itemizedlist":
		if err := co.list(sb); err != nil {
			return "", err
		}
	case "ref":
		refid := attr(t, "refid")
		name, err := co.refText()
		if err != nil {
			return "", err
		}
		sb.WriteString(name)
		if attr(t, "kindref") == "compound" && co.refs != nil {
			co.refs.NoteCompound(refid, name)
		}
		return refid, nil
	case "parameternamelist", "parametername", "parameterdescription", "linebreak":
		inner, _, err := co.text()
		if err != nil {
			return "", err
		}
		sb.WriteString(inner)
	case "title", "xreftitle", "xrefdescription":
		// cross-reference metadata: consumed and discarded
		if err := co.cur.Skip(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
	default:
		if err := co.cur.Skip(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
	}
	return "", nil
}

// refText flattens the character content of a <ref> element, ignoring any
// nested markup.
func (co *Collector) refText() (string, error) {
	var sb strings.Builder
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := co.cur.Skip(); err != nil {
				return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
			}
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

// code flattens a code block, preserving line breaks verbatim so the
// surrounding no-fill markers keep the original layout.
func (co *Collector) code() (string, error) {
	var sb strings.Builder
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "codeline", "highlight":
				inner, err := co.code()
				if err != nil {
					return "", err
				}
				sb.WriteString(inner)
				if t.Name.Local == "codeline" {
					sb.WriteString("\n")
				}
			case "sp":
				sb.WriteString(" ")
				if err := co.cur.Skip(); err != nil {
					return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			case "ref":
				name, err := co.refText()
				if err != nil {
					return "", err
				}
				sb.WriteString(name)
			default:
				if err := co.cur.Skip(); err != nil {
					return "", fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return strings.TrimRight(sb.String(), "\n"), nil
		}
	}
}

// list renders an itemized list as a blank-line-delimited block with each
// item prefixed "* ".
func (co *Collector) list(sb *strings.Builder) error {
	sb.WriteString("\n")
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "listitem" {
				item, _, err := co.text()
				if err != nil {
					return err
				}
				sb.WriteString("* " + strings.TrimSpace(item) + "\n")
			} else if err := co.cur.Skip(); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedXML, err)
			}
		case xml.EndElement:
			sb.WriteString("\n")
			return nil
		}
	}
}

// Detail is the result of one traversal of a detailed description body,
// split into independent channels.
type Detail struct {
	Body      string
	Returns   string // free-form return narrative
	Note      string
	RetValues []model.ReturnValue
	ParamDocs map[string]string // parameter name -> description
}

// Detailed consumes a detaileddescription subtree, splitting output into
// body text, return-value narrative and note text in a single traversal.
// The channel is chosen by the kind attribute on nested simplesect and
// parameterlist elements; repeated return or note blocks concatenate.
func (co *Collector) Detailed() (Detail, error) {
	d := Detail{ParamDocs: make(map[string]string)}
	var body, ret, note strings.Builder
	if err := co.detail(&d, &ret, &note, &body); err != nil {
		return Detail{}, err
	}
	d.Body = body.String()
	d.Returns = ret.String()
	d.Note = note.String()
	return d, nil
}

func (co *Collector) detail(d *Detail, ret, note, dst *strings.Builder) error {
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "para":
				dst.WriteString("\n")
				if err := co.detail(d, ret, note, dst); err != nil {
					return err
				}
			case "simplesect":
				next := dst
				switch attr(t, "kind") {
				case "return":
					next = ret
				case "note", "warning":
					next = note
				}
				if err := co.detail(d, ret, note, next); err != nil {
					return err
				}
			case "parameterlist":
				kind := attr(t, "kind")
				items, err := co.parameterItems()
				if err != nil {
					return err
				}
				switch kind {
				case "retval":
					d.RetValues = append(d.RetValues, items...)
				case "param":
					for _, it := range items {
						d.ParamDocs[it.Name] = it.Description
						dst.WriteString("\n\\fB" + it.Name + "\\fP \\fI" + it.Description + "\\fP\n")
					}
				}
			default:
				if _, err := co.inline(t, dst); err != nil {
					return err
				}
			}
		case xml.CharData:
			dst.Write(t)
		case xml.EndElement:
			return nil
		}
	}
}

// parameterItems parses the parameteritem children of a parameterlist
// into name/description pairs.
func (co *Collector) parameterItems() ([]model.ReturnValue, error) {
	var items []model.ReturnValue
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "parameteritem" {
				it, err := co.parameterItem()
				if err != nil {
					return nil, err
				}
				items = append(items, it)
			} else if err := co.cur.Skip(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
			}
		case xml.EndElement:
			return items, nil
		}
	}
}

func (co *Collector) parameterItem() (model.ReturnValue, error) {
	var it model.ReturnValue
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return it, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "parameternamelist":
				name, err := co.Text()
				if err != nil {
					return it, err
				}
				it.Name = strings.TrimSpace(name)
			case "parameterdescription":
				desc, err := co.Text()
				if err != nil {
					return it, err
				}
				it.Description = strings.TrimSpace(desc)
			default:
				if err := co.cur.Skip(); err != nil {
					return it, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			return it, nil
		}
	}
}

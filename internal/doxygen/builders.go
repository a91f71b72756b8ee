package doxygen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/doxyman/internal/model"
	"git.home.luguber.info/inful/doxyman/internal/util/sets"
)

// BuildFunction consumes a memberdef subtree of kind "function" and
// produces the function record. The cursor must be positioned just after
// the memberdef start tag.
func BuildFunction(cur *Cursor, refs RefSink) (model.Function, error) {
	co := NewCollector(cur, refs)
	var fn model.Function
	refids := sets.New[string]()
	paramDocs := map[string]string{}
	for {
		tok, err := cur.Next()
		if err != nil {
			return model.Function{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "type":
				s, err := co.Text()
				if err != nil {
					return model.Function{}, err
				}
				fn.Type = strings.TrimSpace(s)
			case "definition":
				s, err := co.Text()
				if err != nil {
					return model.Function{}, err
				}
				fn.Definition = strings.TrimSpace(s)
			case "argsstring":
				s, err := co.Text()
				if err != nil {
					return model.Function{}, err
				}
				fn.ArgString = strings.TrimSpace(s)
			case "name":
				s, err := co.Text()
				if err != nil {
					return model.Function{}, err
				}
				fn.Name = strings.TrimSpace(s)
			case "param":
				p, err := buildParam(co)
				if err != nil {
					return model.Function{}, err
				}
				if p.RefID != "" {
					refids.Add(p.RefID)
				}
				fn.Params = append(fn.Params, p)
			case "briefdescription":
				s, err := co.Text()
				if err != nil {
					return model.Function{}, err
				}
				fn.Brief = strings.TrimSpace(s)
			case "detaileddescription":
				det, err := co.Detailed()
				if err != nil {
					return model.Function{}, err
				}
				fn.Detail = strings.TrimSpace(det.Body)
				fn.Returns = strings.TrimSpace(det.Returns)
				fn.Note = strings.TrimSpace(det.Note)
				fn.RetValues = det.RetValues
				paramDocs = det.ParamDocs
			default:
				if err := cur.Skip(); err != nil {
					return model.Function{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			for i := range fn.Params {
				if d, ok := paramDocs[fn.Params[i].Name]; ok {
					fn.Params[i].Description = d
				}
			}
			// A type referenced by several parameters appears once.
			fn.RefIDs = sets.SortedStrings(refids)
			return fn, nil
		}
	}
}

// buildParam consumes one <param> subtree of a function memberdef.
func buildParam(co *Collector) (model.Param, error) {
	var p model.Param
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "type":
				s, rid, err := co.ParamText()
				if err != nil {
					return p, err
				}
				p.Type = strings.TrimSpace(s)
				p.RefID = rid
			case "declname", "defname":
				s, err := co.Text()
				if err != nil {
					return p, err
				}
				if p.Name == "" {
					p.Name = strings.TrimSpace(s)
				}
			case "array":
				s, err := co.Text()
				if err != nil {
					return p, err
				}
				p.Name += strings.TrimSpace(s)
			case "briefdescription":
				s, err := co.Text()
				if err != nil {
					return p, err
				}
				p.Brief = strings.TrimSpace(s)
			default:
				if err := co.cur.Skip(); err != nil {
					return p, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			return p, nil
		}
	}
}

// BuildEnum consumes a memberdef subtree of kind "enum". Enum values are
// defined inline in the main file, so the record is fully resolved in
// this single pass.
func BuildEnum(cur *Cursor, refs RefSink) (model.Structure, error) {
	co := NewCollector(cur, refs)
	s := model.Structure{Kind: model.KindEnum, Resolved: true}
	for {
		tok, err := cur.Next()
		if err != nil {
			return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				v, err := co.Text()
				if err != nil {
					return model.Structure{}, err
				}
				s.Name = strings.TrimSpace(v)
			case "briefdescription":
				v, err := co.Text()
				if err != nil {
					return model.Structure{}, err
				}
				s.Brief = strings.TrimSpace(v)
			case "detaileddescription":
				det, err := co.Detailed()
				if err != nil {
					return model.Structure{}, err
				}
				s.Description = strings.TrimSpace(det.Body)
			case "enumvalue":
				m, err := buildEnumValue(co)
				if err != nil {
					return model.Structure{}, err
				}
				s.Members = append(s.Members, m)
			default:
				if err := cur.Skip(); err != nil {
					return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			return s, nil
		}
	}
}

// buildEnumValue consumes one <enumvalue> subtree. The initializer text
// (e.g. "= 4") is carried in the Type field for rendering.
func buildEnumValue(co *Collector) (model.Param, error) {
	var m model.Param
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return m, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				s, err := co.Text()
				if err != nil {
					return m, err
				}
				m.Name = strings.TrimSpace(s)
			case "initializer":
				s, err := co.Text()
				if err != nil {
					return m, err
				}
				m.Type = strings.TrimSpace(s)
			case "briefdescription":
				s, err := co.Text()
				if err != nil {
					return m, err
				}
				m.Brief = strings.TrimSpace(s)
			case "detaileddescription":
				det, err := co.Detailed()
				if err != nil {
					return m, err
				}
				m.Description = strings.TrimSpace(det.Body)
			default:
				if err := co.cur.Skip(); err != nil {
					return m, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			return m, nil
		}
	}
}

// BuildDefine consumes a memberdef subtree of kind "define".
func BuildDefine(cur *Cursor, refs RefSink) (model.Define, error) {
	co := NewCollector(cur, refs)
	var d model.Define
	for {
		tok, err := cur.Next()
		if err != nil {
			return model.Define{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				s, err := co.Text()
				if err != nil {
					return model.Define{}, err
				}
				d.Name = strings.TrimSpace(s)
			case "initializer":
				s, err := co.Text()
				if err != nil {
					return model.Define{}, err
				}
				d.Initializer = strings.TrimSpace(s)
			case "briefdescription":
				s, err := co.Text()
				if err != nil {
					return model.Define{}, err
				}
				d.Brief = strings.TrimSpace(s)
			case "detaileddescription":
				det, err := co.Detailed()
				if err != nil {
					return model.Define{}, err
				}
				d.Description = strings.TrimSpace(det.Body)
			default:
				if err := cur.Skip(); err != nil {
					return model.Define{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			return d, nil
		}
	}
}

// BuildStructure reads a whole companion structure file, locating the
// top-level compounddef and building the resolved record. Handles struct
// and union compounds.
func BuildStructure(cur *Cursor, refs RefSink) (model.Structure, error) {
	for {
		tok, err := cur.Next()
		if errors.Is(err, io.EOF) {
			return model.Structure{}, fmt.Errorf("%w: no struct compound found", ErrStructureFile)
		}
		if err != nil {
			return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		t, ok := tok.(xml.StartElement)
		if !ok || t.Name.Local != "compounddef" {
			continue
		}
		switch attr(t, "kind") {
		case "struct", "union":
			return buildStructBody(cur, refs)
		default:
			if err := cur.Skip(); err != nil {
				return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
			}
		}
	}
}

// buildStructBody consumes a struct/union compounddef subtree, iterating
// its member definitions.
func buildStructBody(cur *Cursor, refs RefSink) (model.Structure, error) {
	co := NewCollector(cur, refs)
	s := model.Structure{Kind: model.KindStruct, Resolved: true}
	depth := 0 // nesting below compounddef we descend through (sectiondef)
	for {
		tok, err := cur.Next()
		if err != nil {
			return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "compoundname":
				v, err := co.Text()
				if err != nil {
					return model.Structure{}, err
				}
				s.Name = strings.TrimSpace(v)
			case "briefdescription":
				v, err := co.Text()
				if err != nil {
					return model.Structure{}, err
				}
				s.Brief = strings.TrimSpace(v)
			case "detaileddescription":
				det, err := co.Detailed()
				if err != nil {
					return model.Structure{}, err
				}
				s.Description = strings.TrimSpace(det.Body)
			case "sectiondef":
				depth++
			case "memberdef":
				if attr(t, "kind") != "variable" {
					if err := cur.Skip(); err != nil {
						return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
					}
					continue
				}
				m, err := buildMember(co)
				if err != nil {
					return model.Structure{}, err
				}
				s.Members = append(s.Members, m)
			default:
				if err := cur.Skip(); err != nil {
					return model.Structure{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				continue
			}
			return s, nil
		}
	}
}

// buildMember consumes one variable memberdef of a struct compound. Any
// trailing array-length suffix is appended to the member name, so
// "buf" + "[10]" becomes "buf[10]".
func buildMember(co *Collector) (model.Param, error) {
	var m model.Param
	var suffix string
	for {
		tok, err := co.cur.Next()
		if err != nil {
			return m, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "type":
				s, rid, err := co.ParamText()
				if err != nil {
					return m, err
				}
				m.Type = strings.TrimSpace(s)
				m.RefID = rid
			case "name":
				s, err := co.Text()
				if err != nil {
					return m, err
				}
				m.Name = strings.TrimSpace(s)
			case "argsstring":
				s, err := co.Text()
				if err != nil {
					return m, err
				}
				suffix = strings.TrimSpace(s)
			case "briefdescription":
				s, err := co.Text()
				if err != nil {
					return m, err
				}
				m.Brief = strings.TrimSpace(s)
			case "detaileddescription":
				det, err := co.Detailed()
				if err != nil {
					return m, err
				}
				m.Description = strings.TrimSpace(det.Body)
			default:
				if err := co.cur.Skip(); err != nil {
					return m, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case xml.EndElement:
			m.Name += suffix
			return m, nil
		}
	}
}

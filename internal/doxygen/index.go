package doxygen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/doxyman/internal/logfields"
	"git.home.luguber.info/inful/doxyman/internal/model"
)

// Index aggregates the records parsed from one input file. Pass 1
// (ScanMain) builds the ordered function list and the reference-id to
// structure map; pass 2 (ResolveStructures) fills struct placeholders
// from their companion files. Each input file gets its own fresh index;
// no state crosses file boundaries.
type Index struct {
	Functions  []model.Function
	Structures map[string]model.Structure
	General    model.Function // synthetic whole-header record

	headerName string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{Structures: make(map[string]model.Structure)}
}

// NoteCompound records a compound reference discovered while collecting
// text. An already-known id is left untouched, resolved or not.
func (ix *Index) NoteCompound(refid, name string) {
	if refid == "" {
		return
	}
	if _, ok := ix.Structures[refid]; ok {
		return
	}
	ix.Structures[refid] = model.Placeholder(name)
}

// HeaderName returns the compound name of the scanned file, usually the
// header file name, or "" when none was seen.
func (ix *Index) HeaderName() string {
	return ix.headerName
}

// ScanMain runs the single pass-1 traversal of the main compound file.
// Enum placeholders resolve inline because their definitions are in this
// file; struct placeholders stay unresolved until ResolveStructures.
func (ix *Index) ScanMain(r io.Reader) error {
	cur := NewCursor(r)
	co := NewCollector(cur, ix)
	var defines []model.Define
	var brief, detail string
	for {
		tok, err := cur.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		t, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch t.Name.Local {
		case "memberdef":
			switch attr(t, "kind") {
			case "function":
				fn, err := BuildFunction(cur, ix)
				if err != nil {
					return err
				}
				ix.Functions = append(ix.Functions, fn)
			case "enum":
				id := attr(t, "id")
				s, err := BuildEnum(cur, ix)
				if err != nil {
					return err
				}
				if id != "" {
					ix.Structures[id] = s
				}
			case "define":
				d, err := BuildDefine(cur, ix)
				if err != nil {
					return err
				}
				defines = append(defines, d)
			default:
				// typedefs and friends: consumed to keep the cursor valid
				if err := cur.Skip(); err != nil {
					return fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
			}
		case "compoundname":
			s, err := co.Text()
			if err != nil {
				return err
			}
			ix.headerName = strings.TrimSpace(s)
		case "briefdescription":
			// member-level descriptions are consumed by the builders, so
			// anything seen here belongs to the file compound itself
			s, err := co.Text()
			if err != nil {
				return err
			}
			if v := strings.TrimSpace(s); v != "" {
				brief = v
			}
		case "detaileddescription":
			det, err := co.Detailed()
			if err != nil {
				return err
			}
			if v := strings.TrimSpace(det.Body); v != "" {
				detail = v
			}
		}
	}

	name := strings.TrimSuffix(ix.headerName, ".h")
	if name == "" {
		name = "general"
	}
	ix.General = model.Function{
		Name:    name,
		Brief:   brief,
		Detail:  detail,
		Defines: defines,
		General: true,
	}
	return nil
}

// ResolveStructures runs pass 2: for every unresolved placeholder, parse
// the companion file named <refid>.xml in xmlDir. A missing or unreadable
// companion file is non-fatal; the placeholder is dropped and the
// renderer omits that structure.
//
// The id set iterated here was produced by ScanMain, so pass 2 can never
// start before pass 1 completed.
func (ix *Index) ResolveStructures(xmlDir string) {
	var pending []string
	for refid, s := range ix.Structures {
		if !s.Resolved {
			pending = append(pending, refid)
		}
	}
	sort.Strings(pending)

	for _, refid := range pending {
		placeholder := ix.Structures[refid]
		path := filepath.Join(xmlDir, refid+".xml")
		f, err := os.Open(path)
		if err != nil {
			slog.Debug("Structure file not available", logfields.RefID(refid), logfields.Path(path))
			delete(ix.Structures, refid)
			continue
		}
		s, perr := BuildStructure(NewCursor(f), ix)
		_ = f.Close()
		if perr != nil {
			slog.Warn("Failed to parse structure file",
				logfields.RefID(refid), logfields.Path(path), logfields.Error(perr))
			delete(ix.Structures, refid)
			continue
		}
		if s.Name == "" {
			s.Name = placeholder.Name
		}
		ix.Structures[refid] = s
	}
}

// ResolvedStructures returns only the resolved records, keyed by refid.
// Placeholders never reach the renderer.
func (ix *Index) ResolvedStructures() map[string]model.Structure {
	out := make(map[string]model.Structure, len(ix.Structures))
	for id, s := range ix.Structures {
		if s.Resolved {
			out[id] = s
		}
	}
	return out
}

// Package man renders function records as troff manual pages.
package man

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doxyman/internal/config"
	"git.home.luguber.info/inful/doxyman/internal/model"
)

// typeAlignCutoff excludes unusually long types, typically function
// pointer signatures, from the alignment width computation so they do
// not produce degenerate column widths.
const typeAlignCutoff = 40

// Renderer turns function records into troff man pages.
type Renderer struct {
	opts      *config.Options
	copyright string
}

// NewRenderer creates a renderer for one input file's records.
// copyrightLine is emitted verbatim in the COPYRIGHT section.
func NewRenderer(opts *config.Options, copyrightLine string) *Renderer {
	return &Renderer{opts: opts, copyright: copyrightLine}
}

// PagePath returns the deterministic output path for one record:
// <output-dir>/<name>.<section>.
func (r *Renderer) PagePath(fn model.Function) string {
	return filepath.Join(r.opts.OutputDir, fmt.Sprintf("%s.%s", fn.Name, r.opts.Section))
}

// WritePage renders one page to its output path. An existing file at
// that path is silently overwritten.
func (r *Renderer) WritePage(fn model.Function, structures map[string]model.Structure, all []model.Function) error {
	path := r.PagePath(fn)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create man page %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	r.Render(w, fn, structures, all)
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write man page %s: %w", path, err)
	}
	return f.Close()
}

// Render emits one troff document with the fixed section order: NAME,
// SYNOPSIS, PARAMS, DESCRIPTION, STRUCTURES, RETURN VALUES, DEFINES
// (general page only), NOTE, SEE ALSO, COPYRIGHT.
func (r *Renderer) Render(w io.Writer, fn model.Function, structures map[string]model.Structure, all []model.Function) {
	fmt.Fprintf(w, ".\\\" Automatically generated man page, do not edit\n.\\\"\n")
	fmt.Fprintf(w, ".TH \"%s\" \"%s\" \"%s\" \"%s\" \"%s\"\n",
		strings.ToUpper(fn.Name), r.opts.Section, r.opts.ManpageDate,
		r.opts.PackageName, r.opts.HeaderTitle)

	r.renderName(w, fn)
	r.renderSynopsis(w, fn)
	if r.opts.PrintParams {
		r.renderParams(w, fn)
	}
	r.renderDescription(w, fn)
	r.renderStructures(w, fn, structures)
	r.renderReturnValues(w, fn)
	if fn.General {
		r.renderDefines(w, fn)
	}
	r.renderNote(w, fn)
	r.renderSeeAlso(w, fn, all)
	fmt.Fprintf(w, ".SH COPYRIGHT\n.PP\n%s\n", r.copyright)
}

// ASCIIDump writes a plain-text rendition of one page to w.
func (r *Renderer) ASCIIDump(w io.Writer, fn model.Function, structures map[string]model.Structure, all []model.Function) {
	var buf bytes.Buffer
	r.Render(&buf, fn, structures, all)
	fmt.Fprintln(w, StripTroff(buf.String()))
}

func (r *Renderer) renderName(w io.Writer, fn model.Function) {
	fmt.Fprintf(w, ".SH NAME\n")
	if fn.Brief != "" {
		fmt.Fprintf(w, "%s \\- %s\n", fn.Name, oneLine(fn.Brief))
		return
	}
	fmt.Fprintf(w, "%s\n", fn.Name)
}

func (r *Renderer) renderSynopsis(w io.Writer, fn model.Function) {
	fmt.Fprintf(w, ".SH SYNOPSIS\n.nf\n.B #include <%s%s>\n", r.opts.HeaderPrefix, r.opts.HeaderFile)
	if !fn.General {
		fmt.Fprintf(w, ".sp\n")
		if len(fn.Params) == 0 {
			fmt.Fprintf(w, "\\fB%s %s(void);\\fP\n", fn.Type, fn.Name)
		} else {
			fmt.Fprintf(w, "\\fB%s %s(\n", fn.Type, fn.Name)
			width := alignWidth(fn.Params)
			for i, p := range fn.Params {
				sep := ","
				if i == len(fn.Params)-1 {
					sep = ""
				}
				fmt.Fprintf(w, "    %s%s\n", formatDecl(p, width), sep)
			}
			fmt.Fprintf(w, ");\\fP\n")
		}
	}
	fmt.Fprintf(w, ".fi\n")
}

// renderParams emits the PARAMS section, present only when at least one
// parameter carries both a type and a description.
func (r *Renderer) renderParams(w io.Writer, fn model.Function) {
	documented := false
	for _, p := range fn.Params {
		if p.Type != "" && p.Description != "" {
			documented = true
			break
		}
	}
	if !documented {
		return
	}
	fmt.Fprintf(w, ".SH PARAMS\n")
	for _, p := range fn.Params {
		if p.Type == "" || p.Description == "" {
			continue
		}
		fmt.Fprintf(w, "\\fB%s \\fP\\fI%s\\fP\n.PP\n", p.Name, oneLine(p.Description))
	}
}

func (r *Renderer) renderDescription(w io.Writer, fn model.Function) {
	if strings.TrimSpace(fn.Detail) == "" {
		return
	}
	fmt.Fprintf(w, ".SH DESCRIPTION\n")
	writeBlock(w, fn.Detail)
}

// renderStructures expands the structures referenced by the function's
// parameters. The order follows the function's own sorted, deduplicated
// reference-id list, never the order resolution happened in. Unresolved
// ids are silently omitted.
func (r *Renderer) renderStructures(w io.Writer, fn model.Function, structures map[string]model.Structure) {
	var resolved []model.Structure
	for _, refid := range fn.RefIDs {
		if s, ok := structures[refid]; ok && s.Resolved {
			resolved = append(resolved, s)
		}
	}
	if len(resolved) == 0 {
		return
	}
	fmt.Fprintf(w, ".SH STRUCTURES\n")
	for _, s := range resolved {
		fmt.Fprintf(w, ".PP\n.nf\n")
		switch s.Kind {
		case model.KindEnum:
			fmt.Fprintf(w, "\\fBenum %s\\fP {\n", s.Name)
			for i, m := range s.Members {
				sep := ","
				if i == len(s.Members)-1 {
					sep = ""
				}
				if m.Type != "" { // enum initializer, e.g. "= 4"
					fmt.Fprintf(w, "    \\fI%s\\fP %s%s\n", m.Name, m.Type, sep)
				} else {
					fmt.Fprintf(w, "    \\fI%s\\fP%s\n", m.Name, sep)
				}
			}
			fmt.Fprintf(w, "};\n")
		default:
			fmt.Fprintf(w, "\\fBstruct %s\\fP {\n", s.Name)
			width := alignWidth(s.Members)
			for _, m := range s.Members {
				fmt.Fprintf(w, "    %s;\n", formatDecl(m, width))
			}
			fmt.Fprintf(w, "};\n")
		}
		fmt.Fprintf(w, ".fi\n")
	}
}

func (r *Renderer) renderReturnValues(w io.Writer, fn model.Function) {
	if strings.TrimSpace(fn.Returns) == "" && len(fn.RetValues) == 0 {
		return
	}
	fmt.Fprintf(w, ".SH RETURN VALUES\n")
	if strings.TrimSpace(fn.Returns) != "" {
		writeBlock(w, fn.Returns)
	}
	for _, rv := range fn.RetValues {
		fmt.Fprintf(w, "\\fB%s\\fP %s\n.PP\n", rv.Name, oneLine(rv.Description))
	}
}

// renderDefines emits the DEFINES section on the general page, filtered
// to identifiers equal to their own upper-case form. That heuristic
// keeps constants and drops helper macros.
func (r *Renderer) renderDefines(w io.Writer, fn model.Function) {
	var constants []model.Define
	for _, d := range fn.Defines {
		if d.Name != "" && d.Name == strings.ToUpper(d.Name) {
			constants = append(constants, d)
		}
	}
	if len(constants) == 0 {
		return
	}
	fmt.Fprintf(w, ".SH DEFINES\n.PP\n.nf\n")
	for _, d := range constants {
		if d.Initializer != "" {
			fmt.Fprintf(w, "#define %s %s\n", d.Name, oneLine(d.Initializer))
		} else {
			fmt.Fprintf(w, "#define %s\n", d.Name)
		}
	}
	fmt.Fprintf(w, ".fi\n")
}

func (r *Renderer) renderNote(w io.Writer, fn model.Function) {
	if strings.TrimSpace(fn.Note) == "" {
		return
	}
	fmt.Fprintf(w, ".SH NOTE\n")
	writeBlock(w, fn.Note)
}

// renderSeeAlso lists every other function from the same input file in
// discovery order, comma-joined and tagged with the configured section.
func (r *Renderer) renderSeeAlso(w io.Writer, fn model.Function, all []model.Function) {
	var refs []string
	for _, other := range all {
		if other.Name == fn.Name {
			continue
		}
		refs = append(refs, fmt.Sprintf("\\fI%s\\fR(%s)", other.Name, r.opts.Section))
	}
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(w, ".SH SEE ALSO\n.PP\n.nh\n.ad l\n%s\n.ad\n.hy\n", strings.Join(refs, ", "))
}

// writeBlock emits collected text line by line. A paragraph break follows
// every line except inside a no-fill code block, where the original line
// breaks are preserved verbatim.
func writeBlock(w io.Writer, text string) {
	nofill := false
	for _, line := range strings.Split(text, "\n") {
		switch strings.TrimSpace(line) {
		case "":
			if nofill {
				fmt.Fprintln(w)
			}
		case ".nf":
			fmt.Fprintln(w, ".nf")
			nofill = true
		case ".fi":
			fmt.Fprintln(w, ".fi")
			nofill = false
		default:
			fmt.Fprintln(w, line)
			if !nofill {
				fmt.Fprintln(w, ".PP")
			}
		}
	}
}

// oneLine collapses all whitespace runs, including newlines, to single
// spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripTroff removes font escapes and request lines, leaving a plain
// text rendition suitable for the stdout dump.
func StripTroff(s string) string {
	repl := strings.NewReplacer(
		"\\fB", "", "\\fI", "", "\\fP", "", "\\fR", "", "\\-", "-")
	var out []string
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.HasPrefix(line, ".SH "):
			out = append(out, strings.TrimPrefix(line, ".SH "))
		case strings.HasPrefix(line, ".B "):
			out = append(out, repl.Replace(strings.TrimPrefix(line, ".B ")))
		case strings.HasPrefix(line, "."):
			// requests (.TH, .PP, .nf, .fi, comments, ...) carry no text
		default:
			out = append(out, repl.Replace(line))
		}
	}
	return strings.Join(out, "\n")
}

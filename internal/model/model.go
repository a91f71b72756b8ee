// Package model holds the semantic records produced by parsing Doxygen XML.
// Records are immutable once built; the only lifecycle transition is the
// one-time replacement of an unresolved structure placeholder by its
// resolved form in the document index.
package model

// Param describes one function argument or one structure/enum member.
// For members the name already carries any trailing array suffix
// (e.g. "buf[10]").
type Param struct {
	Name        string
	Type        string
	RefID       string // reference id of the type's defining compound, if any
	Brief       string
	Description string
}

// ReturnValue is one entry of a structured return-value list: a named
// condition or constant and the text describing when it is returned.
type ReturnValue struct {
	Name        string
	Description string
}

// Define describes one preprocessor define collected from the main file.
type Define struct {
	Name        string
	Initializer string
	Brief       string
	Description string
}

// StructureKind distinguishes the aggregate kinds we can render.
type StructureKind string

const (
	KindStruct  StructureKind = "struct"
	KindEnum    StructureKind = "enum"
	KindUnknown StructureKind = "unknown"
)

// Structure is either a placeholder discovered during the main-file pass
// or a fully resolved aggregate. Enums resolve inline during the first
// pass; structs resolve from their companion file during the second.
type Structure struct {
	Kind        StructureKind
	Name        string
	Brief       string
	Description string
	Members     []Param
	Resolved    bool
}

// Placeholder returns an unresolved structure carrying only its name.
func Placeholder(name string) Structure {
	return Structure{Kind: KindUnknown, Name: name}
}

// Function describes one documented function, or the synthetic
// whole-header record when General is set.
type Function struct {
	Type       string
	Definition string
	ArgString  string
	Name       string
	Brief      string
	Detail     string
	Returns    string // free-form return narrative
	RetValues  []ReturnValue
	Note       string
	Params     []Param
	RefIDs     []string // sorted, duplicate-free
	Defines    []Define // populated only on the whole-header record
	General    bool     // true for the synthetic whole-header record
}

package doxygen

import "errors"

var (
	// ErrMalformedXML wraps tokenizer failures. Processing of the current
	// input file stops; the run continues with the remaining files.
	ErrMalformedXML = errors.New("malformed doxygen xml")

	// ErrStructureFile marks a companion structure file that could not be
	// parsed. Non-fatal: the structure is omitted from output.
	ErrStructureFile = errors.New("structure file unusable")
)

// Package wordfmt decodes the formatting structures of legacy binary Word
// documents: formatted disk pages, plexes, the stylesheet, list tables and
// the sprm interpreter that replays compressed property operations against
// inherited base properties.
//
// Everything in this package works on in-memory byte slices. Reads past the
// end of a buffer fail with lebin.ErrOutOfRange and are never clamped.
package wordfmt

import "errors"

var (
	// ErrMalformedPlex is returned when a plex length maps to a negative record count.
	ErrMalformedPlex = errors.New("malformed plex")

	// ErrUnrecognizedOperandEncoding is returned for a sprm whose operand
	// width cannot be determined. The rest of that grpprl is abandoned.
	ErrUnrecognizedOperandEncoding = errors.New("unrecognized sprm operand encoding")

	// ErrCyclicStyleDefinition is returned when a style is reached again
	// while its own base chain is being resolved.
	ErrCyclicStyleDefinition = errors.New("cyclic style definition")

	// ErrNoSuchStyle is returned for a style index outside the stylesheet.
	ErrNoSuchStyle = errors.New("no such style")

	// ErrNoSuchList is returned by list lookups for a missing list or level.
	ErrNoSuchList = errors.New("no such list")

	// ErrGrpprlTooLarge is returned when one grpprl cannot fit an empty page.
	ErrGrpprlTooLarge = errors.New("grpprl does not fit in a formatted disk page")

	// ErrBadPageSize is returned for a formatted disk page that is not 512 bytes.
	ErrBadPageSize = errors.New("formatted disk page must be 512 bytes")
)

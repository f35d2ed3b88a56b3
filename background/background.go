// Package background owns the catalog of selectable backgrounds: the
// procedural set created at startup, custom uploads, and the reserved
// blur/none sentinels, plus the filesystem store for uploaded originals.
package background

import (
	"errors"

	"github.com/AltairaLabs/BackdropKit/media"
)

// Reserved sentinel identifiers. They never map to a stored pixel buffer;
// their compositing behavior is computed per frame.
const (
	IDBlur = "blur"
	IDNone = "none"
)

// Kind classifies a background entry.
type Kind string

// Background kinds.
const (
	KindProcedural Kind = "procedural"
	KindCustom     Kind = "custom"
)

// Mode tags a resolved background with its compositing behavior.
type Mode int

// Resolution modes.
const (
	// Pixels composites against a stored, immutable pixel buffer.
	Pixels Mode = iota

	// BlurBackground composites against a blurred copy of the source frame.
	BlurBackground

	// PassThrough returns the source frame unchanged.
	PassThrough
)

// Registration and lookup errors.
var (
	ErrDuplicateID = errors.New("background id already registered")
	ErrReservedID  = errors.New("background id is reserved")
)

// Background is one catalog entry. Pix is immutable after registration;
// callers must not mutate it.
type Background struct {
	ID    string
	Kind  Kind
	Label string
	Pix   *media.Frame

	// URL is the serving path of the uploaded original. Empty for
	// procedural entries.
	URL string
}

// Resolved is the compositor-ready form of a background selection.
type Resolved struct {
	Mode Mode
	ID   string
	Pix  *media.Frame // set only for Mode == Pixels
}

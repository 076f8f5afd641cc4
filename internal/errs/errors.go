package errs

import "errors"

var (
	// ErrBadSize indicates a size string whose numeric part could not be parsed.
	ErrBadSize = errors.New("bad byte size")
	// ErrBadSuffix indicates a size suffix other than b, kb, mb or gb.
	ErrBadSuffix = errors.New("bad suffix")
	// ErrBadParts indicates a part count that is not a positive integer.
	ErrBadParts = errors.New("bad parts")
	// ErrZeroThreads indicates a worker count below one.
	ErrZeroThreads = errors.New("can't have zero threads")
	// ErrStripeTooSmall indicates a resolved stripe size below the minimum.
	ErrStripeTooSmall = errors.New("stripe size too small")

	// ErrNotADirectory indicates an assembly source that is missing or not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrBadOutputDirectory indicates a striping destination that is missing or not a directory.
	ErrBadOutputDirectory = errors.New("bad output directory")
	// ErrInvalidFile indicates a striping source that cannot be opened, seeked or is a directory.
	ErrInvalidFile = errors.New("invalid file")

	// ErrOpenFailed indicates a file that could not be opened or created mid-operation.
	ErrOpenFailed = errors.New("failed to open")
	// ErrWriteFailed indicates a failure while creating or writing an output file.
	ErrWriteFailed = errors.New("failed to write")

	// ErrNoPieces indicates an assembly with no input files.
	ErrNoPieces = errors.New("no pieces")
)

// Kind classifies an error into one of the failure families.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindPath
	KindIO
	KindNoPieces
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindPath:
		return "PathError"
	case KindIO:
		return "IOError"
	case KindNoPieces:
		return "NoPieces"
	default:
		return "Unknown"
	}
}

// KindOf reports the family of err by inspecting its wrapped sentinels.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case isAny(err, ErrBadSize, ErrBadSuffix, ErrBadParts, ErrZeroThreads, ErrStripeTooSmall):
		return KindConfig
	case isAny(err, ErrNotADirectory, ErrBadOutputDirectory, ErrInvalidFile):
		return KindPath
	case isAny(err, ErrOpenFailed, ErrWriteFailed):
		return KindIO
	case errors.Is(err, ErrNoPieces):
		return KindNoPieces
	default:
		return KindUnknown
	}
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// ParseKind is the inverse of Kind.String; unrecognised names are KindUnknown.
func ParseKind(name string) Kind {
	for _, k := range []Kind{KindConfig, KindPath, KindIO, KindNoPieces} {
		if k.String() == name {
			return k
		}
	}
	return KindUnknown
}

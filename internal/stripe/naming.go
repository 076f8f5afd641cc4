package stripe

import (
	"strconv"
	"strings"
)

// Namer formats stripe file names: [prefix_][zeros]index[.extension].
type Namer struct {
	Prefix    string
	Extension string
	Padded    bool
}

// Name returns the file name for index, zero-padded to width when padding is on.
func (n Namer) Name(index, width int) string {
	s := strconv.Itoa(index)
	if n.Padded && len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	if n.Prefix != "" {
		s = n.Prefix + "_" + s
	}
	if n.Extension != "" {
		s += "." + n.Extension
	}
	return s
}

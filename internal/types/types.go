package types

// StripeParams describes one striping job. Exactly one of Size and Parts may be set; neither means the
// default stripe size.
type StripeParams struct {
	SourceURI string `json:"source_uri"` // file:// or plain path
	OutputDir string `json:"output_dir"`
	Size      string `json:"size,omitempty"` // e.g. "30mb", "55.35mb", "100000"
	Parts     string `json:"parts,omitempty"`
	Threads   int    `json:"threads"`
	Prefix    string `json:"prefix,omitempty"`
	Extension string `json:"extension,omitempty"` // without the dot; empty means none
	NoPadding bool   `json:"no_padding,omitempty"`
}

type StripeResult struct {
	StripeSize  int64 `json:"stripe_size"`
	StripeCount int   `json:"stripe_count"`
	Workers     int   `json:"workers"`
	Bytes       int64 `json:"bytes"`
}

// AssembleParams describes one assembly. Inputs selects list mode; otherwise InputDir is scanned.
type AssembleParams struct {
	InputDir    string   `json:"input_dir,omitempty"`
	Inputs      []string `json:"inputs,omitempty"`
	OutputURI   string   `json:"output_uri"`
	Extension   string   `json:"extension,omitempty"`
	NoExtension bool     `json:"no_extension,omitempty"`
	Name        string   `json:"name,omitempty"`
	NoName      bool     `json:"no_name,omitempty"`
	// Optional relative subdirectory under the worker's scratch root. When set, a relative OutputURI is
	// resolved inside it.
	ScratchSubdir string `json:"scratch_subdir,omitempty"`
}

type AssembleResult struct {
	Output string `json:"output"`
	Pieces int    `json:"pieces"`
	Bytes  int64  `json:"bytes"`
}

// RestripeParams reassembles a set of stripes into scratch and stripes the result again with a new layout.
type RestripeParams struct {
	Assemble AssembleParams `json:"assemble"`
	Stripe   StripeParams   `json:"stripe"`
	// If empty, the workflow derives one from its run ID.
	ScratchSubdir string `json:"scratch_subdir,omitempty"`
	// If true, the workflow skips cleaning up the scratch subdir after completion/failure.
	KeepScratch bool `json:"keep_scratch,omitempty"`
}

type RestripeResult struct {
	Assembled AssembleResult `json:"assembled"`
	Striped   StripeResult   `json:"striped"`
}

// CleanupParams instructs the cleanup activity which subdir to remove.
type CleanupParams struct {
	ScratchSubdir string `json:"scratch_subdir"`
}

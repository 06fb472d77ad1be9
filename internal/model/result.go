package model

// Result is the root aggregate for one analysis run. It is constructed
// empty, populated by successive pipeline stages, consumed once by the
// renderer and then discarded.
type Result struct {
	// Diffs holds the flag inconsistencies reported by the build, nil when
	// the fragment and monolithic computations agree.
	Diffs FlagDiffs `yaml:"diffs,omitempty"`

	// PropertyChanges are the hidden_api properties to merge into the
	// fragment's Android.bp file.
	PropertyChanges []PropertyChange `yaml:"property_changes,omitempty"`

	// FileChanges are the file edits the user needs to make.
	FileChanges []FileChange `yaml:"file_changes,omitempty"`
}

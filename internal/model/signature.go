// Package model defines the data structures for bootclasspath_fragment
// hidden API analysis.
package model

import "strings"

// Path represents a file system path.
type Path string

// Signature uniquely identifies a class member (method or field) in the
// build's native format, e.g. "Landroid/util/Log;->wtf(Ljava/lang/String;)I".
// Signatures are opaque value keys; equality is exact string equality.
type Signature string

// classMemberSeparator splits the owning class from the member part.
const classMemberSeparator = ";->"

// SignatureFromLine extracts the signature from a CSV flags line. The first
// comma-separated field is the signature, the rest are flags.
func SignatureFromLine(line string) Signature {
	signature, _, _ := strings.Cut(line, ",")
	return Signature(signature)
}

// OwningClass returns the class part of the signature, i.e. everything
// before the ";->" separator. A signature without a separator is returned
// unchanged, matching how whole-class entries are written in flag files.
func (s Signature) OwningClass() string {
	class, _, _ := strings.Cut(string(s), classMemberSeparator)
	return class
}

// FlagSet is the ordered list of hidden API flag tokens assigned to one
// signature by one source. Order carries no priority but is preserved
// verbatim for display.
type FlagSet []string

// Equal reports whether two flag sets contain the same flags, ignoring
// order and duplicates. Used for consistency checks only; display always
// uses the raw order.
func (f FlagSet) Equal(other FlagSet) bool {
	seen := make(map[string]struct{}, len(f))
	for _, flag := range f {
		seen[flag] = struct{}{}
	}

	otherSeen := make(map[string]struct{}, len(other))
	for _, flag := range other {
		otherSeen[flag] = struct{}{}
	}

	if len(seen) != len(otherSeen) {
		return false
	}

	for flag := range seen {
		if _, ok := otherSeen[flag]; !ok {
			return false
		}
	}

	return true
}

// DiffEntry records one signature whose flags differ between the
// bootclasspath_fragment and the monolithic computation.
type DiffEntry struct {
	Signature       Signature `yaml:"signature"`
	ModuleFlags     FlagSet   `yaml:"module_flags"`
	MonolithicFlags FlagSet   `yaml:"monolithic_flags"`
}

// FlagDiffs maps each inconsistent signature to its conflicting flag sets.
type FlagDiffs map[Signature]DiffEntry

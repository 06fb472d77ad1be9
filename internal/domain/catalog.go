package domain

import (
	"errors"
	"fmt"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// Catalog misuse is a programming error in the pipeline ordering, not a
// property of the input, and is never recovered from.
var (
	// ErrCatalogNotLoaded indicates a query before Load.
	ErrCatalogNotLoaded = errors.New("signature catalog has not been loaded")

	// ErrCatalogReloaded indicates a second Load call.
	ErrCatalogReloaded = errors.New("signature catalog loaded twice")
)

// SignatureCatalog holds the signatures and owning classes provided by the
// bootclasspath_fragment, loaded once from its all-flags.csv artifact and
// read-only thereafter.
type SignatureCatalog struct {
	signatures map[m.Signature]struct{}
	classes    map[string]struct{}
	loaded     bool
}

// NewSignatureCatalog constructs an empty, unloaded catalog.
func NewSignatureCatalog() *SignatureCatalog {
	return &SignatureCatalog{
		signatures: make(map[m.Signature]struct{}),
		classes:    make(map[string]struct{}),
	}
}

// Load populates the catalog from a stream of CSV flag lines, first field
// is the signature. It must be called exactly once.
func (c *SignatureCatalog) Load(stream adapter.LineStream) error {
	if c.loaded {
		return ErrCatalogReloaded
	}

	for line, ok := stream.Next(); ok; line, ok = stream.Next() {
		if line == "" {
			continue
		}

		signature := m.SignatureFromLine(line)
		c.signatures[signature] = struct{}{}
		c.classes[signature.OwningClass()] = struct{}{}
	}

	c.loaded = true

	return nil
}

// ContainsSignature reports whether the fragment provides the signature.
func (c *SignatureCatalog) ContainsSignature(signature m.Signature) (bool, error) {
	if !c.loaded {
		return false, fmt.Errorf("signatures: %w", ErrCatalogNotLoaded)
	}

	_, ok := c.signatures[signature]

	return ok, nil
}

// Signatures returns the set of signatures provided by the fragment.
func (c *SignatureCatalog) Signatures() (map[m.Signature]struct{}, error) {
	if !c.loaded {
		return nil, fmt.Errorf("signatures: %w", ErrCatalogNotLoaded)
	}

	return c.signatures, nil
}

// Classes returns the set of classes provided by the fragment.
func (c *SignatureCatalog) Classes() (map[string]struct{}, error) {
	if !c.loaded {
		return nil, fmt.Errorf("classes: %w", ErrCatalogNotLoaded)
	}

	return c.classes, nil
}

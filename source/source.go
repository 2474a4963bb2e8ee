// Package source defines the ingestion contract that turns a physical
// location into a tablecompare.Dataset, and the subpackages (oracle, file)
// that implement it against real backends.
package source

import (
	"context"

	"github.com/tablecompare/tablecompare"
)

// Provider loads a Dataset from wherever it lives. Implementations do only
// the mechanical work of reading rows and inferring Cell tags from the
// underlying storage's column types; they contain no comparison logic.
type Provider interface {
	Load(ctx context.Context) (tablecompare.Dataset, error)
}
